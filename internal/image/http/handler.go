package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmconnect/backend/internal/image"
	"github.com/farmconnect/backend/internal/pkg/request"
	"github.com/farmconnect/backend/internal/pkg/response"
)

type Handler struct {
	imageService image.Service
}

func NewHandler(imageService image.Service) *Handler {
	return &Handler{
		imageService: imageService,
	}
}

// ServeImage streams the original image content by ID.
func (h *Handler) ServeImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image ID"})
		return
	}

	stream, img, err := h.imageService.Download(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", img.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+img.Filename+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started, nothing left to report to the client.
		return
	}
}

// ServeThumbnail streams the thumbnail by image ID.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image ID"})
		return
	}

	stream, img, err := h.imageService.DownloadThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	// Thumbnails are always JPEG
	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+img.Filename+"_thumb.jpg\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		return
	}
}
