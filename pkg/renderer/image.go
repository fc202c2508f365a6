package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/bounce/pkg/core"
)

// ErrInvalidImage is returned for images without a positive width and height
var ErrInvalidImage = errors.New("invalid image dimensions")

// Image is a width×height grid of gamma-corrected colors.
// Pixels are stored row-major with index 0 at the top-left of the final picture;
// rows increase downward.
type Image struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewImage allocates a black image
func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImage, width, height)
	}
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}, nil
}

// Validate reports whether the pixel buffer matches the dimensions
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImage, img.Width, img.Height)
	}
	if len(img.Pixels) != img.Width*img.Height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidImage, len(img.Pixels), img.Width, img.Height)
	}
	return nil
}

// At returns the color at column x, row y (row 0 is the top)
func (img *Image) At(x, y int) core.Color {
	return img.Pixels[y*img.Width+x]
}

// Set stores the color at column x, row y
func (img *Image) Set(x, y int, c core.Color) {
	img.Pixels[y*img.Width+x] = c
}

// AverageLuminance returns the mean luminance of all pixels
func (img *Image) AverageLuminance() float64 {
	if len(img.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range img.Pixels {
		total += c.Luminance()
	}
	return total / float64(len(img.Pixels))
}
