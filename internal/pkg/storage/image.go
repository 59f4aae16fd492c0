package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

const (
	ThumbnailSize = 320
	MaxImageSize  = 1600
	jpegQuality   = 82
)

// ImageProcessor re-encodes uploaded photos and receipts as JPEG.
type ImageProcessor struct{}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// Fit decodes content and scales it down to fit a maxWidth x maxHeight box.
// Images already inside the box keep their size. EXIF orientation is applied,
// since phone photos of receipts are usually rotated.
func (p *ImageProcessor) Fit(content io.Reader, maxWidth, maxHeight int) (*bytes.Buffer, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxWidth || b.Dy() > maxHeight {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}
	return encode(img)
}

// Thumbnail produces a square, center-cropped JPEG thumbnail.
func (p *ImageProcessor) Thumbnail(content io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return encode(imaging.Fill(img, ThumbnailSize, ThumbnailSize, imaging.Center, imaging.Lanczos))
}

func encode(img image.Image) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf, nil
}
