package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers booking routes. Anyone may book or look up a
// booking by email; listing and status changes need an account.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth, authMiddleware, adminMiddleware gin.HandlerFunc) {
	g.GET("/availability", h.Availability)

	group := g.Group("/bookings")

	group.POST("", optionalAuth, h.Create)
	group.GET("/lookup", h.Lookup)

	authed := group.Group("", authMiddleware)
	{
		authed.GET("", h.List)
		authed.GET("/:id", h.Get)
		authed.PATCH("/:id/status", h.UpdateStatus)
		authed.DELETE("/:id", adminMiddleware, h.Delete)
	}
}
