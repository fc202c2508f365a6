package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/bounce/pkg/core"
)

// ErrMalformedOBJ is wrapped by every OBJ syntax or index error
var ErrMalformedOBJ = errors.New("malformed OBJ data")

// OBJData is the geometry read from an OBJ file: vertex positions and triangles indexing them
type OBJData struct {
	Vertices []core.Point
	Faces    [][3]int // 0-based vertex indices
}

// ParseOBJ reads vertex ("v") and face ("f") records. Face indices are 1-based in the file and
// may be negative (relative to the last vertex read); "a/b/c" forms use only the vertex part.
// Polygons with more than three vertices are split into a triangle fan. Other record types are
// ignored.
func ParseOBJ(reader io.Reader) (*OBJData, error) {
	data := &OBJData{}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := data.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return data, nil
}

// LoadOBJ loads and parses an OBJ file
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

func (d *OBJData) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		return d.parseVertex(fields[1:])
	case "f":
		return d.parseFace(fields[1:])
	}
	return nil
}

func (d *OBJData) parseVertex(fields []string) error {
	// An optional fourth (w) component is allowed and ignored
	if len(fields) != 3 && len(fields) != 4 {
		return fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var coords [3]float64
	for i := range coords {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return fmt.Errorf("invalid vertex coordinate %q", fields[i])
		}
		coords[i] = value
	}
	d.Vertices = append(d.Vertices, core.NewVec3(coords[0], coords[1], coords[2]))
	return nil
}

func (d *OBJData) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}

	indices := make([]int, len(fields))
	for i, field := range fields {
		index, err := d.resolveIndex(field)
		if err != nil {
			return err
		}
		indices[i] = index
	}

	for i := 1; i+1 < len(indices); i++ {
		d.Faces = append(d.Faces, [3]int{indices[0], indices[i], indices[i+1]})
	}
	return nil
}

// resolveIndex converts one face vertex reference to a 0-based index into the vertices read so far
func (d *OBJData) resolveIndex(field string) (int, error) {
	vertexPart, _, _ := strings.Cut(field, "/")
	index, err := strconv.Atoi(vertexPart)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", field)
	}

	switch {
	case index > 0 && index <= len(d.Vertices):
		return index - 1, nil
	case index < 0 && -index <= len(d.Vertices):
		return len(d.Vertices) + index, nil
	}
	return 0, fmt.Errorf("face index %d out of range (%d vertices)", index, len(d.Vertices))
}
