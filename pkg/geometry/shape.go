package geometry

import (
	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit returns the nearest intersection with t in [tMin, tMax]
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}

// Primitive is a bounded shape that can be stored in a BVH.
// Primitives are immutable once built and shared by all render workers.
type Primitive interface {
	Shape
	BoundingBox() core.AABB
	SurfaceArea() float64
	Centroid() core.Point
}
