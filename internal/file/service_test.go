package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/storage"
)

type memoryRepository struct {
	mu    sync.Mutex
	files map[string]*File
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{files: map[string]*File{}}
}

func (r *memoryRepository) Create(_ context.Context, f *File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[f.ID] = f
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return ErrNotFound
	}
	delete(r.files, id)
	return nil
}

func formFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(t *testing.T) (Service, *memoryRepository) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := newMemoryRepository()
	return NewService(repo, store, logging.Discard()), repo
}

func TestUploadPhotoIsResizedWithThumbnail(t *testing.T) {
	svc, _ := newTestService(t)

	f, err := svc.Upload(context.Background(), UploadInput{
		FileHeader:   formFile(t, "cottage.png", pngBytes(t, 2000, 1000)),
		UserID:       "admin-1",
		MaxSizeBytes: 5 << 20,
		AllowedTypes: []string{"image/png", "image/jpeg"},
		ResizeImage:  true,
		Public:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", f.ContentType)
	assert.NotNil(t, f.ThumbnailPath)
	assert.True(t, f.IsPublic)

	stream, _, err := svc.Download(context.Background(), f.ID)
	require.NoError(t, err)
	defer stream.Close()
	cfg, _, err := image.DecodeConfig(stream)
	require.NoError(t, err)
	assert.Equal(t, storage.MaxImageSize, cfg.Width)

	thumb, _, err := svc.DownloadThumbnail(context.Background(), f.ID)
	require.NoError(t, err)
	defer thumb.Close()
	tcfg, _, err := image.DecodeConfig(thumb)
	require.NoError(t, err)
	assert.Equal(t, storage.ThumbnailSize, tcfg.Width)
}

func TestUploadReceiptPDFKeepsContent(t *testing.T) {
	svc, _ := newTestService(t)
	pdf := []byte("%PDF-1.4\n% receipt\n")

	f, err := svc.Upload(context.Background(), UploadInput{
		FileHeader:   formFile(t, "receipt.pdf", pdf),
		UserID:       "staff-1",
		AllowedTypes: []string{"image/png", "image/jpeg", "application/pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Nil(t, f.ThumbnailPath)

	stream, _, err := svc.Download(context.Background(), f.ID)
	require.NoError(t, err)
	defer stream.Close()
	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, pdf, got)

	_, _, err = svc.DownloadThumbnail(context.Background(), f.ID)
	assert.ErrorIs(t, err, ErrNoThumbnail)
}

func TestUploadLimits(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileHeader:   formFile(t, "big.png", pngBytes(t, 50, 50)),
		MaxSizeBytes: 10,
	})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = svc.Upload(context.Background(), UploadInput{
		FileHeader:   formFile(t, "notes.txt", []byte("hello there")),
		AllowedTypes: []string{"image/png"},
	})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(context.Background(), UploadInput{
		FileHeader:  formFile(t, "notes.txt", []byte("hello there")),
		ResizeImage: true,
	})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	assert.Empty(t, repo.files)
}

func TestDeleteRemovesRecord(t *testing.T) {
	svc, repo := newTestService(t)

	f, err := svc.Upload(context.Background(), UploadInput{FileHeader: formFile(t, "a.png", pngBytes(t, 10, 10))})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), f.ID))
	assert.Empty(t, repo.files)
	assert.ErrorIs(t, svc.Delete(context.Background(), f.ID), ErrNotFound)
}

func TestCanRead(t *testing.T) {
	owner := "u1"
	receipt := &File{UserID: &owner}
	photo := &File{IsPublic: true}

	assert.True(t, photo.CanRead("", false))
	assert.False(t, receipt.CanRead("", false))
	assert.False(t, receipt.CanRead("u2", false))
	assert.True(t, receipt.CanRead("u1", false))
	assert.True(t, receipt.CanRead("u2", true))
}
