package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

var (
	// ErrInvalidImage - содержимое не удалось декодировать как изображение
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnsupportedFormat - формат декодирован, но кодировщика для него нет
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

const (
	DefaultQuality    = 60
	DefaultAvatarSize = 250
	// DefaultMaxPixels - предел ширина*высота, проверяемый по заголовку до декодирования
	DefaultMaxPixels = 40_000_000
)

// ImageSize represents target dimensions
type ImageSize struct {
	Width  int
	Height int
}

// Processor handles image processing operations
type Processor struct {
	quality   int // JPEG quality (1-100)
	size      ImageSize
	maxPixels int
}

// NewProcessor creates a new image processor producing size×size images
func NewProcessor(quality, size, maxPixels int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	if size <= 0 {
		size = DefaultAvatarSize
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Processor{
		quality:   quality,
		size:      ImageSize{Width: size, Height: size},
		maxPixels: maxPixels,
	}
}

// ProcessImage decodes, resizes to exactly p.size (no aspect preservation)
// and encodes back into the source format
func (p *Processor) ProcessImage(reader io.Reader) (*bytes.Buffer, string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	// Декодер выделяет память по размерам из заголовка, поэтому они проверяются заранее
	width, height, err := GetImageDimensions(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if err := p.checkDimensions(width, height); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	resized := p.resize(img, p.size.Width, p.size.Height)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality})
	case "png":
		err = png.Encode(&buf, resized)
	case "gif":
		err = gif.Encode(&buf, resized, nil)
	default:
		return nil, format, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, format, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	return &buf, format, nil
}

// ResizeFile перезаписывает файл обработанным изображением.
// Файл не меняется, если декодирование или кодирование не удалось.
func (p *Processor) ResizeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	buf, _, err := p.ProcessImage(f)
	f.Close()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

func (p *Processor) checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: empty dimensions %dx%d", ErrInvalidImage, width, height)
	}
	if int64(width)*int64(height) > int64(p.maxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, width, height, p.maxPixels)
	}
	return nil
}

// resize stretches an image to the given dimensions
func (p *Processor) resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	// Resize using high-quality algorithm
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	return dst
}

// GetImageDimensions читает размеры из заголовка, не декодируя пиксели
func GetImageDimensions(reader io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return cfg.Width, cfg.Height, nil
}
