package geometry

import (
	"math"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal.
// It has no finite bounding box, so scenes keep planes outside the BVH.
type Plane struct {
	Point    core.Point        // A point on the plane
	Normal   core.Vec3         // Unit normal
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane. The normal is normalized.
func NewPlane(point core.Point, normal core.Vec3, material material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Unit(),
		Material: material,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays never reach the plane. NaN lands here as well.
	if !(math.Abs(denominator) >= 1e-8) {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: p.Material,
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}
