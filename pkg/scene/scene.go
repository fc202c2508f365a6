package scene

import (
	"errors"
	"fmt"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/geometry"
	"github.com/df07/bounce/pkg/material"
	"github.com/df07/bounce/pkg/sky"
)

// ErrNoCamera is returned when a scene is rendered before a camera was configured
var ErrNoCamera = errors.New("scene has no camera")

// Scene contains all the elements needed for rendering.
// It is mutated only while it is being built; Preprocess freezes it for concurrent rendering.
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Sky            sky.Sky
	Primitives     []geometry.Primitive // Bounded objects, stored in the BVH
	Unbounded      []geometry.Shape     // Objects without a finite bounding box, tested linearly
	SamplingConfig SamplingConfig
	BVH            *geometry.BVH // Built by Preprocess; nil after any modification
}

// SamplingConfig holds the render settings a scene was designed for.
// Command-line flags override individual fields.
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the settings used when a scene does not specify its own
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// NewScene creates an empty scene with a uniform white sky and no camera
func NewScene() *Scene {
	return &Scene{
		Sky:            sky.NewUniform(core.NewColor(1, 1, 1)),
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// DiffuseMaterial returns a Lambertian material. Materials may be shared by any number of objects.
func (s *Scene) DiffuseMaterial(color core.Color) material.Material {
	return material.NewLambertian(color)
}

// CheckerMaterial returns a diffuse material alternating between two colors in cubes of the given size
func (s *Scene) CheckerMaterial(even, odd core.Color, scale float64) material.Material {
	return material.NewTexturedLambertian(material.NewChecker(even, odd, scale))
}

// MetalMaterial returns a reflective material; fuzz is clamped to [0, 1]
func (s *Scene) MetalMaterial(color core.Color, fuzz float64) material.Material {
	return material.NewMetal(color, fuzz)
}

// DielectricMaterial returns a clear refractive material
func (s *Scene) DielectricMaterial(refractiveIndex float64) material.Material {
	return material.NewDielectric(refractiveIndex)
}

// Sphere adds a sphere. A negative radius makes a hollow shell when nested in a positive one.
func (s *Scene) Sphere(center core.Point, radius float64, mat material.Material) {
	s.AddPrimitive(geometry.NewSphere(center, radius, mat))
}

// Triangle adds a double-sided triangle
func (s *Scene) Triangle(a, b, c core.Point, mat material.Material) {
	s.AddPrimitive(geometry.NewTriangle(a, b, c, mat))
}

// Plane adds an infinite plane through origin with the given normal
func (s *Scene) Plane(origin core.Point, normal core.Vec3, mat material.Material) error {
	if normal.NearZero() || !normal.IsFinite() {
		return fmt.Errorf("plane normal %v cannot be normalized", normal)
	}
	s.AddUnbounded(geometry.NewPlane(origin, normal, mat))
	return nil
}

// Mesh adds every triangle of an indexed mesh. Faces hold 0-based vertex indices.
func (s *Scene) Mesh(vertices []core.Point, faces [][3]int, mat material.Material, options *geometry.TriangleMeshOptions) error {
	mesh, err := geometry.NewTriangleMesh(vertices, faces, mat, options)
	if err != nil {
		return fmt.Errorf("adding mesh: %w", err)
	}
	for _, triangle := range mesh.Triangles() {
		s.AddPrimitive(triangle)
	}
	return nil
}

// AddPrimitive adds a bounded object to the BVH set
func (s *Scene) AddPrimitive(p geometry.Primitive) {
	s.Primitives = append(s.Primitives, p)
	s.BVH = nil
}

// AddUnbounded adds an object that is tested against every ray
func (s *Scene) AddUnbounded(shape geometry.Shape) {
	s.Unbounded = append(s.Unbounded, shape)
}

// SetCamera validates the configuration and installs the camera
func (s *Scene) SetCamera(config geometry.CameraConfig) error {
	camera, err := geometry.NewCamera(config)
	if err != nil {
		return err
	}
	s.Camera = camera
	s.CameraConfig = config
	return nil
}

// SetSky replaces the background
func (s *Scene) SetSky(background sky.Sky) {
	s.Sky = background
}

// Validate checks that the scene can be rendered
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return ErrNoCamera
	}
	if s.Sky == nil {
		return errors.New("scene has no sky")
	}
	return nil
}

// Preprocess validates the scene and builds the BVH if the primitive set changed
func (s *Scene) Preprocess() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.BVH == nil {
		s.BVH = geometry.NewBVH(s.Primitives)
	}
	return nil
}

// Hit returns the nearest hit among BVH primitives and unbounded shapes.
// A miss never beats a hit; two misses stay a miss.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	if s.BVH != nil {
		if hit, ok := s.BVH.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	} else {
		// Not preprocessed yet: same answer, linear time
		for _, p := range s.Primitives {
			if hit, ok := p.Hit(ray, tMin, closestSoFar); ok {
				closest = hit
				closestSoFar = hit.T
			}
		}
	}

	for _, shape := range s.Unbounded {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *geometry.Camera {
	return s.Camera
}

// GetSky returns the scene background
func (s *Scene) GetSky() sky.Sky {
	return s.Sky
}

// PrimitiveCount returns the number of objects in the scene
func (s *Scene) PrimitiveCount() int {
	return len(s.Primitives) + len(s.Unbounded)
}
