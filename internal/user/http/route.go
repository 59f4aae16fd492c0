package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers account routes. Anyone may register as a customer
// and log in; staff and admin accounts are opened by an admin.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	me := g.Group("/me", authMiddleware)
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
	}

	usersGroup := g.Group("/users", authMiddleware, adminMiddleware)
	{
		usersGroup.GET("", h.List)
		usersGroup.POST("", h.Create)
		usersGroup.GET("/:id", h.Get)
		usersGroup.PATCH("/:id", h.Update)
	}
}
