package material

import (
	"math"

	"github.com/df07/bounce/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	Evaluate(uv core.Vec2, point core.Point) core.Color
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Color
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Color) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Point) core.Color {
	return s.Color
}

// Checker alternates between two colors in a 3D grid of cubes with side Scale
type Checker struct {
	Even, Odd core.Color
	Scale     float64
}

// NewChecker creates a solid checker pattern. A non-positive scale falls back to 1.
func NewChecker(even, odd core.Color, scale float64) *Checker {
	if scale <= 0 {
		scale = 1
	}
	return &Checker{Even: even, Odd: odd, Scale: scale}
}

// Evaluate picks the cell color from the world-space point
func (c *Checker) Evaluate(uv core.Vec2, point core.Point) core.Color {
	inv := 1.0 / c.Scale
	sum := int(math.Floor(point.X*inv)) + int(math.Floor(point.Y*inv)) + int(math.Floor(point.Z*inv))
	if sum%2 == 0 {
		return c.Even
	}
	return c.Odd
}
