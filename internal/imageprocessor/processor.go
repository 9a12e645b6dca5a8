package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage - картинка нулевого размера
var ErrEmptyImage = errors.New("image has zero dimensions")

// ImageSize represents a bounding box for resizing
type ImageSize struct {
	Name   string
	Width  int
	Height int
}

var SizeThumbnail = ImageSize{Name: "thumbnail", Width: 320, Height: 320}

// Processor handles image processing operations
type Processor struct {
	quality int // JPEG quality (1-100)
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality: quality,
	}
}

// Thumbnail декодирует картинку, вписывает в size и кодирует в JPEG.
// Картинки меньше рамки не увеличиваются.
func (p *Processor) Thumbnail(reader io.Reader, size ImageSize) ([]byte, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized, err := p.fit(img, size.Width, size.Height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNG - вспомогательное кодирование без потерь (тесты, иконки)
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// fit уменьшает картинку с сохранением пропорций
func (p *Processor) fit(img image.Image, maxWidth, maxHeight int) (image.Image, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}

	if width <= maxWidth && height <= maxHeight {
		newImg := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(newImg, newImg.Bounds(), img, bounds.Min, draw.Src)
		return newImg, nil
	}

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst, nil
}

// GetImageDimensions returns the dimensions of an image without full decode
func GetImageDimensions(reader io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
