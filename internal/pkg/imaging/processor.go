package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

// DownscaledImage holds a processed upload ready for persistence
type DownscaledImage struct {
	JPEG   []byte
	Width  int
	Height int
}

// Config for the upload downscale transform
type Config struct {
	MaxWidth  int // bounding box width (default 1280)
	MaxHeight int // bounding box height (default 800)
	Quality   int // JPEG quality 1-100 (default 70)
}

// DefaultConfig returns the dimensions used for persisted gallery images.
// 1280px on the long edge is enough for high-quality display and keeps the
// stored payload well under the store's quota.
func DefaultConfig() Config {
	return Config{
		MaxWidth:  1280,
		MaxHeight: 800,
		Quality:   70,
	}
}

// Processor handles image downscaling
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Downscale decodes the source image, fits it inside the configured bounding
// box preserving aspect ratio (never upscaling), and re-encodes as JPEG.
func (p *Processor) Downscale(reader io.Reader) (*DownscaledImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := img
	if img.Bounds().Dx() > p.config.MaxWidth || img.Bounds().Dy() > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &DownscaledImage{
		JPEG:   buf.Bytes(),
		Width:  resized.Bounds().Dx(),
		Height: resized.Bounds().Dy(),
	}, nil
}

// DataURI renders the image as an inline data URI for embedded persistence
func (d *DownscaledImage) DataURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(d.JPEG)
}
