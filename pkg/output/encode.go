package output

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/bounce/pkg/renderer"
)

// ErrUnknownFormat is returned for output formats without an encoder
var ErrUnknownFormat = errors.New("unknown image format")

// Format names an image file encoding
type Format string

const (
	PPM Format = "ppm"
	PNG Format = "png"
)

// FormatFromPath picks the format from a file extension, defaulting to PNG
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		return PPM
	}
	return PNG
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img *renderer.Image, format Format) error {
	if err := img.Validate(); err != nil {
		return err
	}
	switch format {
	case PPM:
		return WritePPM(w, img)
	case PNG:
		return WritePNG(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Save writes img to path, creating parent directories as needed
func Save(path string, img *renderer.Image, format Format) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	return Encode(file, img, format)
}

// Quantize maps a color channel in [0,1] to a byte. Values outside the range are clamped.
func Quantize(channel float64) uint8 {
	return uint8(255.99 * clamp(channel, 0, 0.999))
}

func clamp(v, lo, hi float64) float64 {
	// NaN compares false and lands on lo
	if !(v > lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToRGBA converts img into an 8-bit image with the same orientation (row 0 at the top)
func ToRGBA(img *renderer.Image) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			rgba.SetRGBA(x, y, color.RGBA{
				R: Quantize(c.X),
				G: Quantize(c.Y),
				B: Quantize(c.Z),
				A: 255,
			})
		}
	}
	return rgba
}
