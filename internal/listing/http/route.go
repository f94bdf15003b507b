package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/listings")

	// === Public Routes ===
	group.GET("", h.Search)
	group.GET("/:id", h.Get)

	// === Authenticated Routes ===
	group.POST("", authMiddleware, h.Create)
	group.PUT("/:id", authMiddleware, h.Update)
}
