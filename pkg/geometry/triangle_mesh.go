package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/material"
)

// ErrInvalidFace is returned when a mesh face references a vertex that does not exist
var ErrInvalidFace = errors.New("mesh face index out of range")

// TriangleMesh is a set of triangles sharing a vertex list.
// Its triangles are added to the scene BVH individually rather than nested in a second tree.
type TriangleMesh struct {
	triangles []*Triangle
	bbox      core.AABB
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Materials []material.Material // Optional per-triangle materials
	Scale     float64             // Uniform scale applied before rotation (0 means 1)
	Rotation  *core.Vec3          // Optional rotation in radians, applied X then Y then Z
	Center    *core.Vec3          // Optional center point for rotation
	Translate core.Vec3           // Offset applied last
}

// NewTriangleMesh creates a triangle mesh from vertices and 0-based face index triples
func NewTriangleMesh(vertices []core.Point, faces [][3]int, mat material.Material, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if options != nil && options.Materials != nil && len(options.Materials) != len(faces) {
		return nil, fmt.Errorf("mesh has %d faces but %d materials", len(faces), len(options.Materials))
	}

	working := vertices
	if options != nil {
		working = transformVertices(vertices, options)
	}

	mesh := &TriangleMesh{
		triangles: make([]*Triangle, len(faces)),
		bbox:      core.EmptyAABB(),
	}

	for i, face := range faces {
		for _, index := range face {
			if index < 0 || index >= len(working) {
				return nil, fmt.Errorf("face %d: vertex %d of %d: %w", i, index, len(working), ErrInvalidFace)
			}
		}

		triangleMaterial := mat
		if options != nil && options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		triangle := NewTriangle(working[face[0]], working[face[1]], working[face[2]], triangleMaterial)
		mesh.triangles[i] = triangle
		mesh.bbox = mesh.bbox.Union(triangle.BoundingBox())
	}

	return mesh, nil
}

// Triangles returns the mesh triangles
func (tm *TriangleMesh) Triangles() []*Triangle {
	return tm.triangles
}

// Primitives returns the mesh triangles as BVH primitives
func (tm *TriangleMesh) Primitives() []Primitive {
	primitives := make([]Primitive, len(tm.triangles))
	for i, triangle := range tm.triangles {
		primitives[i] = triangle
	}
	return primitives
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

func transformVertices(vertices []core.Point, options *TriangleMeshOptions) []core.Point {
	scale := options.Scale
	if scale == 0 {
		scale = 1
	}

	transformed := make([]core.Point, len(vertices))
	for i, vertex := range vertices {
		vertex = vertex.Multiply(scale)
		if options.Rotation != nil {
			// Translate to center, rotate, then translate back
			if options.Center != nil {
				vertex = vertex.Subtract(*options.Center)
			}
			vertex = rotateVertex(vertex, *options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
		}
		transformed[i] = vertex.Add(options.Translate)
	}
	return transformed
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		vertex = core.NewVec3(vertex.X, vertex.Y*cos-vertex.Z*sin, vertex.Y*sin+vertex.Z*cos)
	}

	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		vertex = core.NewVec3(vertex.X*cos+vertex.Z*sin, vertex.Y, -vertex.X*sin+vertex.Z*cos)
	}

	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		vertex = core.NewVec3(vertex.X*cos-vertex.Y*sin, vertex.X*sin+vertex.Y*cos, vertex.Z)
	}

	return vertex
}
