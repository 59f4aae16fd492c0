package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers feedback routes. Anyone may submit and read
// published feedback; moderation needs an admin.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/feedback")

	group.POST("", optionalAuth, h.Submit)
	group.GET("", optionalAuth, h.List)
	group.GET("/:id", optionalAuth, h.Get)

	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.PATCH("/:id/publish", h.Publish)
		admin.DELETE("/:id", h.Delete)
	}
}
