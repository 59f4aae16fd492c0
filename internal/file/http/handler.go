package http

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
)

type Handler struct {
	fileService file.Service
}

func NewHandler(fileService file.Service) *Handler {
	return &Handler{
		fileService: fileService,
	}
}

// ServeFile serves the file content by ID.
func (h *Handler) ServeFile(c *gin.Context) {
	h.serve(c, h.fileService.Download, false)
}

// ServeThumbnail serves the thumbnail image by file ID.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	h.serve(c, h.fileService.DownloadThumbnail, true)
}

type downloadFunc func(ctx context.Context, id string) (io.ReadCloser, *file.File, error)

func (h *Handler) serve(c *gin.Context, download downloadFunc, thumbnail bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	stream, f, err := download(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	// Private files look missing to callers who may not read them.
	p := auth.GetPrincipal(c)
	if !f.CanRead(p.UserID, p.IsStaff()) {
		response.Error(c, file.ErrNotFound)
		return
	}

	contentType, filename := f.ContentType, f.Filename
	if thumbnail {
		contentType, filename = "image/jpeg", f.ID+"_thumb.jpg"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": filename}))
	if !f.IsPublic {
		c.Header("Cache-Control", "private, no-store")
	}

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started; nothing left to tell the client.
		logging.FromContext(c).WithError(err).WithField("file_id", f.ID).Warn("file stream interrupted")
	}
}
