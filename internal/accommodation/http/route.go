package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers accommodation routes. Reads are public; writes
// need an admin.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/accommodations")

	group.GET("", optionalAuth, h.List)
	group.GET("/:id", optionalAuth, h.Get)

	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/image", h.UploadImage)
		admin.DELETE("/:id/image", h.RemoveImage)
	}
}
