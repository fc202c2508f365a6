package integrator

import (
	"math/rand"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/material"
	"github.com/df07/bounce/pkg/sky"
)

// Scene is the read-only view of a scene an integrator needs
type Scene interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	GetSky() sky.Sky
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray, following at most depth bounces.
	// Implementations must be safe for concurrent use with distinct random sources.
	RayColor(ray core.Ray, scene Scene, random *rand.Rand, depth int) core.Color
}
