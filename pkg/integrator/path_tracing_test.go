package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/material"
	"github.com/df07/bounce/pkg/scene"
	"github.com/df07/bounce/pkg/sky"
)

// MockMaterial scatters according to a configurable function
type MockMaterial struct {
	scatterFn func(rayIn core.Ray, hit *material.HitRecord, random *rand.Rand) (material.ScatterResult, bool)
}

func (m *MockMaterial) Scatter(rayIn core.Ray, hit *material.HitRecord, random *rand.Rand) (material.ScatterResult, bool) {
	return m.scatterFn(rayIn, hit, random)
}

// MockScene returns canned hits and records the queried ranges
type MockScene struct {
	hitFn   func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	sky     sky.Sky
	queries int
	tMins   []float64
}

func (m *MockScene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	m.queries++
	m.tMins = append(m.tMins, tMin)
	return m.hitFn(ray, tMin, tMax)
}

func (m *MockScene) GetSky() sky.Sky { return m.sky }

func createTestScene(t *testing.T, albedo core.Color) *scene.Scene {
	t.Helper()
	s := scene.NewScene()
	s.Sphere(core.NewVec3(0, 0, -1), 0.5, s.DiffuseMaterial(albedo))
	if err := s.SetCamera(scene.DefaultCameraConfig()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return s
}

func TestPathTracing_ZeroDepthIsBlack(t *testing.T) {
	sc := createTestScene(t, core.NewColor(1, 1, 1))
	integrator := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))

	for _, dir := range []core.Vec3{core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0)} {
		if got := integrator.RayColor(core.NewRay(core.Vec3{}, dir), sc, random, 0); got != (core.Color{}) {
			t.Errorf("Expected black at depth 0, got %v", got)
		}
	}
}

func TestPathTracing_MissReturnsSky(t *testing.T) {
	sc := createTestScene(t, core.NewColor(0.5, 0.5, 0.5))
	sc.SetSky(sky.NewDay())
	integrator := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))

	// Unnormalized direction: the sky must see the unit vector
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 7, 0))
	got := integrator.RayColor(ray, sc, random, 5)
	expected := core.NewColor(0.5, 0.7, 1.0)
	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected sky color %v, got %v", expected, got)
	}
}

func TestPathTracing_DepthOneHitIsBlack(t *testing.T) {
	// With one bounce allowed, anything that scatters has no budget left to reach the sky
	sc := createTestScene(t, core.NewColor(1, 1, 1))
	integrator := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))

	got := integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, random, 1)
	if got != (core.Color{}) {
		t.Errorf("Expected black, got %v", got)
	}
}

func TestPathTracing_WhiteFurnace(t *testing.T) {
	// A white diffuse sphere under a uniform white sky is invisible once paths can escape
	sc := createTestScene(t, core.NewColor(1, 1, 1))
	integrator := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		got := integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, random, 50)
		if got.Subtract(core.NewColor(1, 1, 1)).Length() > 1e-12 {
			t.Fatalf("Expected white, got %v", got)
		}
	}
}

func TestPathTracing_AttenuationMultiplies(t *testing.T) {
	attenuation := core.NewColor(0.5, 0.25, 1)
	bounces := 0
	mat := &MockMaterial{
		scatterFn: func(rayIn core.Ray, hit *material.HitRecord, random *rand.Rand) (material.ScatterResult, bool) {
			bounces++
			return material.ScatterResult{
				Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
				Attenuation: attenuation,
			}, true
		},
	}

	// The first query hits, every later one escapes to a white sky
	sc := &MockScene{sky: sky.NewUniform(core.NewColor(1, 1, 1))}
	sc.hitFn = func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
		if sc.queries > 1 {
			return nil, false
		}
		return &material.HitRecord{T: 1, Point: ray.At(1), Normal: core.NewVec3(0, 1, 0), Material: mat}, true
	}

	got := NewPathTracingIntegrator().RayColor(core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0)), sc, rand.New(rand.NewSource(1)), 10)
	if !got.Equals(attenuation) {
		t.Errorf("Expected %v, got %v", attenuation, got)
	}
	if bounces != 1 || sc.queries != 2 {
		t.Errorf("Expected 1 bounce and 2 queries, got %d and %d", bounces, sc.queries)
	}
	for _, tMin := range sc.tMins {
		if tMin != DefaultHitTolerance {
			t.Errorf("Expected queries from t=%f, got %f", DefaultHitTolerance, tMin)
		}
	}
}

func TestPathTracing_AbsorptionIsBlack(t *testing.T) {
	absorber := &MockMaterial{
		scatterFn: func(rayIn core.Ray, hit *material.HitRecord, random *rand.Rand) (material.ScatterResult, bool) {
			return material.ScatterResult{}, false
		},
	}
	sc := &MockScene{
		sky: sky.NewUniform(core.NewColor(1, 1, 1)),
		hitFn: func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
			return &material.HitRecord{T: 1, Material: absorber}, true
		},
	}

	if got := NewPathTracingIntegrator().RayColor(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), sc, nil, 10); got != (core.Color{}) {
		t.Errorf("Expected black, got %v", got)
	}
}

func TestPathTracing_BoundedByDepth(t *testing.T) {
	// A mirror box that never lets the ray escape
	mirror := &MockMaterial{
		scatterFn: func(rayIn core.Ray, hit *material.HitRecord, random *rand.Rand) (material.ScatterResult, bool) {
			return material.ScatterResult{Scattered: rayIn, Attenuation: core.NewColor(1, 1, 1)}, true
		},
	}
	sc := &MockScene{
		sky: sky.NewUniform(core.NewColor(1, 1, 1)),
		hitFn: func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
			return &material.HitRecord{T: 1, Material: mirror}, true
		},
	}

	const depth = 7
	got := NewPathTracingIntegrator().RayColor(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), sc, nil, depth)
	if got != (core.Color{}) {
		t.Errorf("Expected black for a trapped path, got %v", got)
	}
	if sc.queries != depth {
		t.Errorf("Expected %d scene queries, got %d", depth, sc.queries)
	}
}

func TestPathTracing_NoNaN(t *testing.T) {
	sc, err := scene.NewMaterialsScene()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := sc.Preprocess(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	integrator := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		ray := sc.Camera.GetRay(random.Float64(), random.Float64(), random)
		c := integrator.RayColor(ray, sc, random, 20)
		if !c.IsFinite() || c.X < 0 || c.Y < 0 || c.Z < 0 || math.IsNaN(c.Luminance()) {
			t.Fatalf("Invalid radiance %v", c)
		}
	}
}
