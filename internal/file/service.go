package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/storage"
)

// UploadInput describes one upload and the limits that apply to it.
type UploadInput struct {
	FileHeader   *multipart.FileHeader
	UserID       string
	MaxSizeBytes int64    // 0 = no limit
	AllowedTypes []string // empty = allow all
	ResizeImage  bool     // re-encode as JPEG inside storage.MaxImageSize
	Public       bool
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*File, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*File, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewService(repo Repository, store storage.Storage, log logrus.FieldLogger) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
		log:     log,
		now:     time.Now,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	if in.FileHeader == nil {
		return nil, ErrFileRequired
	}
	if in.MaxSizeBytes > 0 && in.FileHeader.Size > in.MaxSizeBytes {
		return nil, ErrTooLarge
	}

	src, err := in.FileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	var reader io.Reader = src
	if in.MaxSizeBytes > 0 {
		reader = io.LimitReader(src, in.MaxSizeBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	if in.MaxSizeBytes > 0 && int64(len(content)) > in.MaxSizeBytes {
		return nil, ErrTooLarge
	}

	// Sniff the type rather than trusting the client's header.
	contentType := http.DetectContentType(content)
	if len(in.AllowedTypes) > 0 && !slices.Contains(in.AllowedTypes, contentType) {
		return nil, ErrUnsupportedType
	}

	fileID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(in.FileHeader.Filename))
	isImage := strings.HasPrefix(contentType, "image/")

	if in.ResizeImage {
		if !isImage {
			return nil, ErrUnsupportedType
		}
		buf, err := s.imgProc.Fit(bytes.NewReader(content), storage.MaxImageSize, storage.MaxImageSize)
		if err != nil {
			return nil, ErrInvalidImage
		}
		content = buf.Bytes()
		contentType = "image/jpeg"
		ext = ".jpg"
	}

	// Sharding path: upload/ab/UUID.ext
	shard := fileID[:2]
	storagePath := fmt.Sprintf("upload/%s/%s%s", shard, fileID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save file to storage: %w", err)
	}

	var thumbnailPath *string
	if isImage {
		thumb, err := s.imgProc.Thumbnail(bytes.NewReader(content))
		if err != nil {
			s.log.WithError(err).WithField("file_id", fileID).Warn("thumbnail generation failed")
		} else {
			tPath := fmt.Sprintf("upload/%s/%s_thumb.jpg", shard, fileID)
			if err := s.storage.Save(ctx, tPath, thumb); err != nil {
				s.log.WithError(err).WithField("file_id", fileID).Warn("failed to save thumbnail")
			} else {
				thumbnailPath = &tPath
			}
		}
	}

	var uploader *string
	if in.UserID != "" {
		uploader = &in.UserID
	}

	f := &File{
		ID:            fileID,
		UserID:        uploader,
		Filename:      filepath.Base(in.FileHeader.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(content)),
		IsPublic:      in.Public,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.removeBlobs(ctx, f)
		return nil, err
	}

	return f, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeBlobs(ctx, f)
	return nil
}

// removeBlobs is best effort; orphaned blobs are only logged.
func (s *service) removeBlobs(ctx context.Context, f *File) {
	paths := []string{f.StoragePath}
	if f.ThumbnailPath != nil {
		paths = append(paths, *f.ThumbnailPath)
	}
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			s.log.WithError(err).WithField("path", p).Warn("failed to delete stored file")
		}
	}
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve file from storage: %w", err)
	}
	return stream, f, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *f.ThumbnailPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNoThumbnail
		}
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}
	return stream, f, nil
}
