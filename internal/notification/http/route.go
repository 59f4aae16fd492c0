package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the notification websocket.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/ws", h.Connect)
}
