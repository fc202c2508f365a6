package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/bounce/pkg/renderer"
)

// WritePPM writes img as a plain-text (P3) PPM, one pixel per line from the top-left
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	for _, c := range img.Pixels {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", Quantize(c.X), Quantize(c.Y), Quantize(c.Z)); err != nil {
			return err
		}
	}

	return bw.Flush()
}
