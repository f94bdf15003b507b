package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// Listing thumbnails are always JPEG, whatever the upload format was.
const thumbnailJPEGQuality = 80

// ImageProcessor derives thumbnails from uploaded listing photos.
type ImageProcessor struct{}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// GenerateThumbnail decodes the photo and fits it into a maxDim square,
// preserving aspect ratio.
func (p *ImageProcessor) GenerateThumbnail(content io.Reader, maxDim int) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbnailJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return &buf, nil
}
