package scene

import (
	"math"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/geometry"
	"github.com/df07/bounce/pkg/sky"
)

// NewMeshScene renders two icospheres of different resolution through the mesh API
func NewMeshScene() (*Scene, error) {
	s := NewScene()
	err := s.SetCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0.8, 2.5),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	})
	if err != nil {
		return nil, err
	}
	s.SetSky(sky.NewDay())

	if err := s.Plane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0), s.DiffuseMaterial(core.NewColor(0.5, 0.5, 0.5))); err != nil {
		return nil, err
	}

	coarseVertices, coarseFaces := Icosphere(1)
	err = s.Mesh(coarseVertices, coarseFaces, s.MetalMaterial(core.NewColor(0.8, 0.6, 0.2), 0.1), &geometry.TriangleMeshOptions{
		Scale:     0.5,
		Translate: core.NewVec3(-0.7, 0, -1),
	})
	if err != nil {
		return nil, err
	}

	fineVertices, fineFaces := Icosphere(3)
	err = s.Mesh(fineVertices, fineFaces, s.DielectricMaterial(1.5), &geometry.TriangleMeshOptions{
		Scale:     0.5,
		Translate: core.NewVec3(0.7, 0, -1),
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Icosphere returns a unit sphere approximated by a subdivided icosahedron.
// Faces are wound counter-clockwise when seen from outside.
func Icosphere(subdivisions int) ([]core.Point, [][3]int) {
	phi := (1 + math.Sqrt(5)) / 2
	vertices := []core.Point{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for i := range vertices {
		vertices[i] = vertices[i].Unit()
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for level := 0; level < subdivisions; level++ {
		midpoints := map[[2]int]int{}
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if index, ok := midpoints[key]; ok {
				return index
			}
			vertices = append(vertices, vertices[a].Add(vertices[b]).Unit())
			midpoints[key] = len(vertices) - 1
			return len(vertices) - 1
		}

		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			ab, bc, ca := midpoint(f[0], f[1]), midpoint(f[1], f[2]), midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], ab, ca},
				[3]int{f[1], bc, ab},
				[3]int{f[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		faces = next
	}

	return vertices, faces
}
