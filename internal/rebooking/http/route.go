package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers rebooking routes. Customers request, edit and
// cancel rebookings of their own bookings; staff decide on them.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/rebookings", authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.POST("/:id/cancel", h.Cancel)

		group.POST("/:id/approve", staffMiddleware, h.Approve)
		group.POST("/:id/reject", staffMiddleware, h.Reject)
		group.POST("/:id/complete", staffMiddleware, h.Complete)
	}
}
