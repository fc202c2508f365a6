package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/bounce/pkg/core"
)

// DefaultHitTolerance is the minimum hit distance, which keeps scattered rays from
// re-hitting the surface they left because of rounding error
const DefaultHitTolerance = 0.001

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	HitTolerance float64
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{HitTolerance: DefaultHitTolerance}
}

// RayColor computes the color for a single ray using unidirectional path tracing.
// Recursion is bounded by depth, and materials may end the path earlier by absorbing it.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene Scene, random *rand.Rand, depth int) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := scene.Hit(ray, pt.HitTolerance, math.Inf(1))
	if !isHit {
		return scene.GetSky().At(ray.Direction.Unit())
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, random)
	if !didScatter {
		// Material absorbed the ray
		return core.Color{}
	}

	return scatter.Attenuation.MultiplyVec(pt.RayColor(scatter.Scattered, scene, random, depth-1))
}
