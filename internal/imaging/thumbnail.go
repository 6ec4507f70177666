// Package imaging produces JPEG thumbnails for uploaded product images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/nfnt/resize"
)

const (
	// ThumbnailWidth is the fixed thumbnail width; height scales to keep
	// the aspect ratio.
	ThumbnailWidth = 320

	jpegQuality = 80
)

var ErrUnsupportedFormat = errors.New("imaging: unsupported image format")

// Decode reads an image, dispatching on the file extension. Only JPEG and
// PNG uploads are accepted.
func Decode(r io.Reader, filename string) (image.Image, error) {
	ext := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(ext, ".png"):
		img, err := png.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode png: %w", err)
		}
		return img, nil
	case strings.HasSuffix(ext, ".jpg"), strings.HasSuffix(ext, ".jpeg"):
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode jpeg: %w", err)
		}
		return img, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Thumbnail scales the image to ThumbnailWidth and encodes it as JPEG.
func Thumbnail(img image.Image) ([]byte, error) {
	scaled := resize.Resize(ThumbnailWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
