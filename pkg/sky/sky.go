// Package sky provides background radiance for rays that leave the scene.
package sky

import "github.com/df07/bounce/pkg/core"

// Sky returns the radiance arriving from a direction when nothing is hit.
// Implementations are immutable and safe for concurrent use.
type Sky interface {
	At(unitDirection core.Vec3) core.Color
}

// Uniform is the same color in every direction
type Uniform struct {
	Color core.Color
}

// NewUniform creates a uniform sky
func NewUniform(color core.Color) *Uniform {
	return &Uniform{Color: color}
}

// At returns the sky color regardless of direction
func (u *Uniform) At(unitDirection core.Vec3) core.Color {
	return u.Color
}

// Gradient blends linearly from Bottom (straight down) to Top (straight up) by the Y component
type Gradient struct {
	Bottom core.Color
	Top    core.Color
}

// NewGradient creates a vertical gradient sky
func NewGradient(bottom, top core.Color) *Gradient {
	return &Gradient{Bottom: bottom, Top: top}
}

// At maps Y from [-1,1] to a blend factor in [0,1]
func (g *Gradient) At(unitDirection core.Vec3) core.Color {
	t := 0.5 * (unitDirection.Y + 1.0)
	return g.Bottom.Multiply(1.0 - t).Add(g.Top.Multiply(t))
}

// NewDay returns the white-to-light-blue daylight gradient
func NewDay() *Gradient {
	return NewGradient(core.NewColor(1.0, 1.0, 1.0), core.NewColor(0.5, 0.7, 1.0))
}
