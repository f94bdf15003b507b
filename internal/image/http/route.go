package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers image serving routes. Listing photos are public
// data, so no auth middleware is applied here.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/images")

	group.GET("/:id", h.ServeImage)
	group.GET("/:id/thumbnail", h.ServeThumbnail)
}
