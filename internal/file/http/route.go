package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers file routes. optionalAuth identifies the caller so
// private files can be served to staff and their uploader.
func RegisterRoutes(r gin.IRouter, handler *Handler, optionalAuth gin.HandlerFunc) {
	group := r.Group("/files")
	group.Use(optionalAuth)

	group.GET("/:id", handler.ServeFile)
	group.GET("/:id/thumbnail", handler.ServeThumbnail)
}
