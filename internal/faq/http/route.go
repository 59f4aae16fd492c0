package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/faqs")

	group.GET("", optionalAuth, h.List)
	group.GET("/:id", optionalAuth, h.Get)

	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
