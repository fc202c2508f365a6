package geometry

import (
	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/material"
)

// Triangle represents a single triangle defined by three vertices.
// Triangles are double-sided.
type Triangle struct {
	V0, V1, V2 core.Point        // The three vertices
	Material   material.Material // Material of the triangle
	edge1      core.Vec3         // V1 - V0
	edge2      core.Vec3         // V2 - V0
	normal     core.Vec3         // Cached unit normal; zero for degenerate triangles
	bbox       core.AABB         // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Point, material material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
		edge1:    v1.Subtract(v0),
		edge2:    v2.Subtract(v0),
		bbox:     core.NewAABBFromPoints(v0, v1, v2),
	}

	if n := t.edge1.Cross(t.edge2); n.LengthSquared() > 0 {
		t.normal = n.Unit()
	}

	return t
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	const epsilon = 1e-8

	h := ray.Direction.Cross(t.edge2)
	a := t.edge1.Dot(h)

	// Ray lies in the plane of the triangle, or the triangle has no area.
	// The negated comparison also rejects NaN vertices.
	if !(a < -epsilon || a > epsilon) {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(t.edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tHit := f * t.edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        tHit,
		Point:    ray.At(tHit),
		UV:       core.NewVec2(u, v),
		Material: t.Material,
	}
	hitRecord.SetFaceNormal(ray, t.normal)

	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// SurfaceArea returns half the length of the edge cross product
func (t *Triangle) SurfaceArea() float64 {
	return 0.5 * t.edge1.Cross(t.edge2).Length()
}

// Centroid returns the mean of the three vertices
func (t *Triangle) Centroid() core.Point {
	return t.V0.Add(t.V1).Add(t.V2).Divide(3)
}

// Normal returns the unit geometric normal, following the V0, V1, V2 winding
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
