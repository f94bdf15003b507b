package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmconnect/backend/internal/auth"
	"github.com/farmconnect/backend/internal/listing"
	"github.com/farmconnect/backend/internal/pkg/request"
	"github.com/farmconnect/backend/internal/pkg/response"
)

// maxImageSizeBytes limits each uploaded listing photo to 10 MiB.
const maxImageSizeBytes = 10 << 20

type Handler struct {
	service listing.Service
}

func NewHandler(service listing.Service) *Handler {
	return &Handler{service: service}
}

// Create handles the multipart listing creation request: structured fields
// plus one or more files under "images".
func (h *Handler) Create(c *gin.Context) {
	var form CreateListingForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	multipartForm, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	fileHeaders := multipartForm.File["images"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image is required"})
		return
	}

	images := make([]listing.ImageUpload, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		if header.Size > maxImageSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image too large: " + header.Filename})
			return
		}
		src, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image: " + header.Filename})
			return
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image: " + header.Filename})
			return
		}
		images = append(images, listing.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		})
	}

	req := listing.CreateRequest{
		OwnerID:       auth.GetUserID(c),
		Type:          form.Type,
		Title:         form.Title,
		Description:   form.Description,
		Category:      form.Category,
		Brand:         form.Brand,
		Period:        form.Period,
		PricePerHour:  form.PricePerHour,
		PricePerDay:   form.PricePerDay,
		PricePerWeek:  form.PricePerWeek,
		PricePerMonth: form.PricePerMonth,
		Location:      form.Location,
		Pincode:       form.Pincode,
		City:          form.City,
		State:         form.State,
		Condition:     form.Condition,
		Area:          form.Area,
		Latitude:      form.Latitude,
		Longitude:     form.Longitude,
	}

	l, err := h.service.Create(c.Request.Context(), req, images)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewListingResponse(l))
}

// Search handles the public listing search with query filters.
func (h *Handler) Search(c *gin.Context) {
	var req SearchListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize()

	listings, total, err := h.service.Search(c.Request.Context(), req.ToFilter())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ListingResponse, len(listings))
	for i, l := range listings {
		items[i] = NewListingResponse(l)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Limit, req.Offset, total))
}

// Get fetches a single listing by ID. Public, 404 when absent.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing ID"})
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewListingResponse(l))
}

// Update applies a partial update on behalf of the listing owner. A foreign
// listing and a missing one produce the same 404.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing ID"})
		return
	}

	var body UpdateListingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	callerID := auth.GetUserID(c)
	l, err := h.service.Update(c.Request.Context(), uri.ID, callerID, body.ToUpdateRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewListingResponse(l))
}
