package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers payment routes. Staff record payments and
// receipts; customers can read the payments of their own bookings.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/payments", authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)

		group.POST("", staffMiddleware, h.Record)
		group.POST("/:id/receipt", staffMiddleware, h.UploadReceipt)
	}
}
