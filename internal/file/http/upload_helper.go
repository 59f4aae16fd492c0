package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
)

const (
	MaxPhotoBytes   = 5 << 20
	MaxReceiptBytes = 8 << 20
)

var (
	PhotoTypes   = []string{"image/jpeg", "image/png"}
	ReceiptTypes = []string{"image/jpeg", "image/png", "application/pdf"}
)

// FileUploadConfig defines the configuration for generic file uploads
type FileUploadConfig struct {
	FormFieldName string                                         // The name of the form field containing the file (default: "file")
	MaxSizeBytes  int64                                          // The maximum file size in bytes (0 = no limit)
	AllowedTypes  []string                                       // The list of allowed MIME types (empty = allow all)
	ResizeImage   bool                                           // Re-encode images as JPEG within the storage size limit
	Public        bool                                           // Serve the file without authentication
	AfterUpload   func(ctx context.Context, fileID string) error // Called after successful file upload (optional)
}

// HandleFileUpload is a generic reusable handler for file uploads.
// It handles file upload, optional after-upload hook, and rollback on hook failure.
func (h *Handler) HandleFileUpload(c *gin.Context, config FileUploadConfig) {
	fieldName := config.FormFieldName
	if fieldName == "" {
		fieldName = "file"
	}

	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: fieldName + " is required"})
		return
	}

	f, err := h.fileService.Upload(c.Request.Context(), file.UploadInput{
		FileHeader:   fileHeader,
		UserID:       auth.GetUserID(c),
		MaxSizeBytes: config.MaxSizeBytes,
		AllowedTypes: config.AllowedTypes,
		ResizeImage:  config.ResizeImage,
		Public:       config.Public,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if config.AfterUpload != nil {
		if err := config.AfterUpload(c.Request.Context(), f.ID); err != nil {
			// Rollback: delete file from storage and DB
			if delErr := h.fileService.Delete(c.Request.Context(), f.ID); delErr != nil {
				logging.FromContext(c).WithError(delErr).WithField("file_id", f.ID).Warn("upload rollback failed")
			}
			response.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, NewUploadResponse(f))
}
