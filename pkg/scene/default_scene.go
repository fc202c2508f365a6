package scene

import (
	"math/rand"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/geometry"
	"github.com/df07/bounce/pkg/sky"
)

// DefaultCameraConfig is a 90° pinhole camera at the origin looking down -Z
func DefaultCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          90,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0,
		FocusDistance: 1,
	}
}

// NewDefaultScene creates a diffuse sphere of radius 0.5 at (0,0,-1) on a ground sphere of radius 100
func NewDefaultScene() (*Scene, error) {
	s := NewScene()
	if err := s.SetCamera(DefaultCameraConfig()); err != nil {
		return nil, err
	}
	s.SetSky(sky.NewDay())

	s.Sphere(core.NewVec3(0, 0, -1), 0.5, s.DiffuseMaterial(core.NewColor(0.7, 0.3, 0.3)))
	s.Sphere(core.NewVec3(0, -100.5, -1), 100, s.DiffuseMaterial(core.NewColor(0.8, 0.8, 0.0)))

	return s, nil
}

// NewMaterialsScene shows each material side by side, including a hollow glass sphere
func NewMaterialsScene() (*Scene, error) {
	s := NewScene()
	err := s.SetCamera(geometry.CameraConfig{
		Center:      core.NewVec3(-2, 2, 1),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        30,
		AspectRatio: 16.0 / 9.0,
		Aperture:    0.1,
	})
	if err != nil {
		return nil, err
	}
	s.SetSky(sky.NewDay())

	ground := s.DiffuseMaterial(core.NewColor(0.8, 0.8, 0.0))
	center := s.DiffuseMaterial(core.NewColor(0.1, 0.2, 0.5))
	glass := s.DielectricMaterial(1.5)
	gold := s.MetalMaterial(core.NewColor(0.8, 0.6, 0.2), 0.0)
	brushed := s.MetalMaterial(core.NewColor(0.8, 0.8, 0.8), 0.3)

	s.Sphere(core.NewVec3(0, -100.5, -1), 100, ground)
	s.Sphere(core.NewVec3(0, 0, -1), 0.5, center)
	s.Sphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.Sphere(core.NewVec3(-1, 0, -1), -0.45, glass)
	s.Sphere(core.NewVec3(1, 0, -1), 0.5, gold)
	s.Sphere(core.NewVec3(0, -0.35, 0), 0.15, brushed)

	return s, nil
}

// NewRandomScene scatters small spheres with random materials around three large ones.
// The layout is fixed by a constant seed.
func NewRandomScene() (*Scene, error) {
	s := NewScene()
	err := s.SetCamera(geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10,
	})
	if err != nil {
		return nil, err
	}
	s.SetSky(sky.NewDay())
	s.SamplingConfig.Width = 600
	s.SamplingConfig.Height = 400

	random := rand.New(rand.NewSource(42))
	s.Sphere(core.NewVec3(0, -1000, 0), 1000, s.DiffuseMaterial(core.NewColor(0.5, 0.5, 0.5)))

	glass := s.DielectricMaterial(1.5)
	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch choose := random.Float64(); {
			case choose < 0.8:
				albedo := core.RandomVec3(random, 0, 1).MultiplyVec(core.RandomVec3(random, 0, 1))
				s.Sphere(center, 0.2, s.DiffuseMaterial(albedo))
			case choose < 0.95:
				albedo := core.RandomVec3(random, 0.5, 1)
				s.Sphere(center, 0.2, s.MetalMaterial(albedo, 0.5*random.Float64()))
			default:
				s.Sphere(center, 0.2, glass)
			}
		}
	}

	s.Sphere(core.NewVec3(0, 1, 0), 1.0, glass)
	s.Sphere(core.NewVec3(-4, 1, 0), 1.0, s.DiffuseMaterial(core.NewColor(0.4, 0.2, 0.1)))
	s.Sphere(core.NewVec3(4, 1, 0), 1.0, s.MetalMaterial(core.NewColor(0.7, 0.6, 0.5), 0.0))

	return s, nil
}

// NewPlaneScene places a triangle pyramid and a mirror sphere on an infinite checkered plane
func NewPlaneScene() (*Scene, error) {
	s := NewScene()
	err := s.SetCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.5, 3),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45,
		AspectRatio: 16.0 / 9.0,
	})
	if err != nil {
		return nil, err
	}
	s.SetSky(sky.NewDay())

	floor := s.CheckerMaterial(core.NewColor(0.9, 0.9, 0.9), core.NewColor(0.2, 0.3, 0.1), 0.5)
	if err := s.Plane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0), floor); err != nil {
		return nil, err
	}

	red := s.DiffuseMaterial(core.NewColor(0.7, 0.15, 0.1))
	apex := core.NewVec3(-0.8, 0.6, -1)
	base := [4]core.Point{
		core.NewVec3(-1.4, -0.5, -0.4),
		core.NewVec3(-0.2, -0.5, -0.4),
		core.NewVec3(-0.2, -0.5, -1.6),
		core.NewVec3(-1.4, -0.5, -1.6),
	}
	for i := range base {
		s.Triangle(base[i], base[(i+1)%4], apex, red)
	}

	s.Sphere(core.NewVec3(0.8, 0, -1), 0.5, s.MetalMaterial(core.NewColor(0.9, 0.9, 0.9), 0.05))

	return s, nil
}
