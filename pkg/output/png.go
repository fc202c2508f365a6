package output

import (
	"image/png"
	"io"

	"github.com/df07/bounce/pkg/renderer"
)

// WritePNG writes img as an 8-bit PNG
func WritePNG(w io.Writer, img *renderer.Image) error {
	return png.Encode(w, ToRGBA(img))
}
