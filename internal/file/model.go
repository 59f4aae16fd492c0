package file

import (
	"net/http"
	"time"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "file not found")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, "thumbnail not available for this file")
	ErrTooLarge        = apperror.New(http.StatusRequestEntityTooLarge, "file is too large")
	ErrUnsupportedType = apperror.New(http.StatusUnsupportedMediaType, "file type is not allowed")
	ErrInvalidImage    = apperror.New(http.StatusBadRequest, "file is not a readable image")
	ErrFileRequired    = apperror.New(http.StatusBadRequest, "file is required")
)

// File is an uploaded blob: an accommodation photo or a payment receipt.
// Public files (photos) are served to anyone; private ones (receipts) only to
// staff and the uploader.
type File struct {
	ID            string
	UserID        *string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	IsPublic      bool
	CreatedAt     time.Time
}

// CanRead reports whether the caller may download f.
func (f *File) CanRead(userID string, isStaff bool) bool {
	if f.IsPublic || isStaff {
		return true
	}
	return userID != "" && f.UserID != nil && *f.UserID == userID
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
