package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers refund routes. Staff can read refunds; only
// admins issue them.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/refunds", authMiddleware, staffMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", adminMiddleware, h.Issue)
	}
}
