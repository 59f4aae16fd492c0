package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers rate routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth, authMiddleware, adminMiddleware gin.HandlerFunc) {
	g.GET("/accommodations/:id/rates", optionalAuth, h.ListByAccommodation)

	group := g.Group("/rates")
	group.GET("/:id", optionalAuth, h.Get)

	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
