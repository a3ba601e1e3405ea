package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
)

const (
	DefaultMaxImageSize = 5 * 1024 * 1024
	ThumbnailSize       = 300
	// DefaultMaxPixels bounds width*height; decoding allocates about 4 bytes per pixel.
	DefaultMaxPixels = 40_000_000
)

var (
	ErrImageTooLarge   = errors.New("image too large")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrImageDimensions = errors.New("image dimensions out of range")
)

// ImageFormat describes an accepted upload format.
type ImageFormat struct {
	Name        string
	ContentType string
	Extension   string
}

var allowedFormats = map[string]ImageFormat{
	"jpeg": {Name: "jpeg", ContentType: "image/jpeg", Extension: "jpg"},
	"png":  {Name: "png", ContentType: "image/png", Extension: "png"},
}

type ImageProcessor struct {
	MaxSize int64
	// MaxPixels defaults to DefaultMaxPixels when zero.
	MaxPixels int64
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: DefaultMaxImageSize, MaxPixels: DefaultMaxPixels}
}

func (p *ImageProcessor) maxPixels() int64 {
	if p.MaxPixels > 0 {
		return p.MaxPixels
	}
	return DefaultMaxPixels
}

// decodeConfig reads only the header and rejects images whose declared
// dimensions would be too expensive to decode.
func (p *ImageProcessor) decodeConfig(data []byte) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: not an image", ErrUnsupportedType)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", fmt.Errorf("%w: %dx%d", ErrImageDimensions, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > p.maxPixels() {
		return "", fmt.Errorf("%w: %dx%d exceeds %s pixels",
			ErrImageDimensions, cfg.Width, cfg.Height, humanize.Comma(p.maxPixels()))
	}
	return format, nil
}

// ValidateImage accepts JPEG and PNG up to MaxSize bytes and MaxPixels,
// sniffing the format from the bytes rather than trusting the client.
func (p *ImageProcessor) ValidateImage(data []byte) (ImageFormat, error) {
	if int64(len(data)) > p.MaxSize {
		return ImageFormat{}, fmt.Errorf("%w: exceeds %s", ErrImageTooLarge, FormatSize(p.MaxSize))
	}
	format, err := p.decodeConfig(data)
	if err != nil {
		return ImageFormat{}, err
	}
	f, ok := allowedFormats[format]
	if !ok {
		return ImageFormat{}, fmt.Errorf("%w: %s (only jpeg/png)", ErrUnsupportedType, format)
	}
	return f, nil
}

// Thumbnail fits the image into ThumbnailSize x ThumbnailSize and encodes it as JPEG.
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	if _, err := p.decodeConfig(data); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
	b := new(bytes.Buffer)
	if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return b.Bytes(), nil
}

// FormatSize renders a byte limit for messages, e.g. "5.0 MiB" or "500 KiB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
