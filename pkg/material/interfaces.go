package material

import (
	"math/rand"

	"github.com/df07/bounce/pkg/core"
)

// Material decides how a ray that hit a surface continues.
// Implementations are immutable and safe to share between render workers.
type Material interface {
	// Scatter returns the scattered ray and its attenuation, or false when the ray is absorbed
	Scatter(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The scattered ray
	Attenuation core.Color // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Point // Point of intersection
	Normal    core.Vec3  // Unit surface normal, facing against the incoming ray
	T         float64    // Parameter t along the ray
	FrontFace bool       // Whether ray hit the front face
	UV        core.Vec2  // Surface coordinates
	Material  Material   // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
