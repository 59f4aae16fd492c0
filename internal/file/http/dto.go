package http

import "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"

// FileUploadResponse describes a stored photo or receipt. Private files are
// only served to staff and the uploader.
type FileUploadResponse struct {
	Message      string  `json:"message"`
	FileID       string  `json:"file_id"`
	Filename     string  `json:"filename"`
	ContentType  string  `json:"content_type"`
	Size         int64   `json:"size"`
	IsPublic     bool    `json:"is_public"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func NewUploadResponse(f *file.File) FileUploadResponse {
	resp := FileUploadResponse{
		Message:     "file uploaded successfully",
		FileID:      f.ID,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		IsPublic:    f.IsPublic,
		URL:         file.FileURL(f.ID),
	}
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &t
	}
	return resp
}
