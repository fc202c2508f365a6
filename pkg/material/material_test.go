package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/bounce/pkg/core"
)

// frontHit is a hit at the origin on a surface facing +Z
func frontHit(m Material) *HitRecord {
	return &HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		T:         1,
		FrontFace: true,
		Material:  m,
	}
}

func TestSetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 0, 1)

	tests := []struct {
		name           string
		direction      core.Vec3
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{"ray against normal", core.NewVec3(0, 0, -1), true, outward},
		{"ray along normal", core.NewVec3(0, 0, 1), false, outward.Negate()},
		{"oblique from inside", core.NewVec3(1, 0, 1), false, outward.Negate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit HitRecord
			hit.SetFaceNormal(core.NewRay(core.Vec3{}, tt.direction), outward)
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected FrontFace=%t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if !hit.Normal.Equals(tt.expectedNormal) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestLambertian_AlwaysScattersIntoHemisphere(t *testing.T) {
	albedo := core.NewColor(0.7, 0.3, 0.1)
	lambertian := NewLambertian(albedo)
	random := rand.New(rand.NewSource(42))
	hit := frontHit(lambertian)
	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	for i := 0; i < 1000; i++ {
		scatter, didScatter := lambertian.Scatter(rayIn, hit, random)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if !scatter.Attenuation.Equals(albedo) {
			t.Fatalf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}
		if scatter.Scattered.Direction.NearZero() || !scatter.Scattered.Direction.IsFinite() {
			t.Fatalf("Degenerate scatter direction %v", scatter.Scattered.Direction)
		}
		if scatter.Scattered.Direction.Dot(hit.Normal) < 0 {
			t.Fatalf("Scattered direction %v points below the surface", scatter.Scattered.Direction)
		}
		if !scatter.Scattered.Origin.Equals(hit.Point) {
			t.Fatalf("Scattered ray should start at hit point, got %v", scatter.Scattered.Origin)
		}
	}
}

func TestLambertian_TexturedAlbedo(t *testing.T) {
	black := core.NewColor(0, 0, 0)
	white := core.NewColor(1, 1, 1)
	lambertian := NewTexturedLambertian(NewChecker(white, black, 1))
	random := rand.New(rand.NewSource(42))
	rayIn := core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1))

	hit := frontHit(lambertian)
	hit.Point = core.NewVec3(0.5, 0.5, 0.5)
	scatter, _ := lambertian.Scatter(rayIn, hit, random)
	if !scatter.Attenuation.Equals(white) {
		t.Errorf("Expected even cell to be white, got %v", scatter.Attenuation)
	}

	hit.Point = core.NewVec3(1.5, 0.5, 0.5)
	scatter, _ = lambertian.Scatter(rayIn, hit, random)
	if !scatter.Attenuation.Equals(black) {
		t.Errorf("Expected odd cell to be black, got %v", scatter.Attenuation)
	}
}

func TestNewMetal_FuzznessClamp(t *testing.T) {
	tests := []struct {
		name             string
		inputFuzzness    float64
		expectedFuzzness float64
	}{
		{"Valid fuzzness 0.0", 0.0, 0.0},
		{"Valid fuzzness 0.5", 0.5, 0.5},
		{"Valid fuzzness 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.NewColor(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzzness)
			if metal.Fuzzness != tt.expectedFuzzness {
				t.Errorf("Expected fuzzness %f, got %f", tt.expectedFuzzness, metal.Fuzzness)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewColor(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)
	random := rand.New(rand.NewSource(42))

	// Ray hitting surface at 45 degrees, unnormalized on purpose
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -2, -2))
	scatter, didScatter := metal.Scatter(rayIn, frontHit(metal), random)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	expected := core.NewVec3(0, -1, 1).Unit()
	if scatter.Scattered.Direction.Subtract(expected).Length() > 1e-10 {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, scatter.Scattered.Direction)
	}
	if !scatter.Attenuation.Equals(albedo) {
		t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
	}
}

func TestMetal_GrazingFuzzAbsorbs(t *testing.T) {
	metal := NewMetal(core.NewColor(0.8, 0.8, 0.8), 1.0)
	random := rand.New(rand.NewSource(42))
	hit := frontHit(metal)

	// A nearly grazing ray with maximum fuzz must sometimes be pushed into the surface
	rayIn := core.NewRay(core.NewVec3(-1, 0, 0.01), core.NewVec3(1, 0, -0.01))
	absorbed := 0
	for i := 0; i < 1000; i++ {
		scatter, didScatter := metal.Scatter(rayIn, hit, random)
		if !didScatter {
			absorbed++
			continue
		}
		if scatter.Scattered.Direction.Dot(hit.Normal) <= 0 {
			t.Fatalf("Scattered ray %v points into the surface", scatter.Scattered.Direction)
		}
	}
	if absorbed == 0 {
		t.Error("Expected some grazing rays to be absorbed")
	}
}

func TestScatter_NeverAmplifies(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	materials := map[string]Material{
		"lambertian": NewLambertian(core.NewColor(1, 0.5, 0.25)),
		"metal":      NewMetal(core.NewColor(0.95, 0.9, 1), 0.3),
	}

	for name, m := range materials {
		t.Run(name, func(t *testing.T) {
			hit := frontHit(m)
			for i := 0; i < 200; i++ {
				rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.RandomVec3(random, -1, 1).Add(core.NewVec3(0, 0, -2)))
				scatter, ok := m.Scatter(rayIn, hit, random)
				if !ok {
					continue
				}
				a := scatter.Attenuation
				if a.X > 1 || a.Y > 1 || a.Z > 1 {
					t.Fatalf("Attenuation %v amplifies radiance", a)
				}
			}
		})
	}
}

func TestDielectric_AttenuationIsWhite(t *testing.T) {
	glass := NewDielectric(1.5)
	random := rand.New(rand.NewSource(42))
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0.2, -0.3, -1))

	for i := 0; i < 100; i++ {
		scatter, didScatter := glass.Scatter(rayIn, frontHit(glass), random)
		if !didScatter {
			t.Fatal("Dielectric should always scatter")
		}
		if !scatter.Attenuation.Equals(core.NewColor(1, 1, 1)) {
			t.Fatalf("Expected white attenuation, got %v", scatter.Attenuation)
		}
		if math.Abs(scatter.Scattered.Direction.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit scatter direction, got length %f", scatter.Scattered.Direction.Length())
		}
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)
	random := rand.New(rand.NewSource(42))

	// Leaving the glass (back face) at a steep angle: sin(theta)*1.5 > 1
	hit := frontHit(glass)
	hit.FrontFace = false
	direction := core.NewVec3(0.9, 0, -0.2).Unit()
	rayIn := core.NewRay(core.NewVec3(0, 0, 1), direction)
	expected := direction.Reflect(hit.Normal)

	for i := 0; i < 100; i++ {
		scatter, _ := glass.Scatter(rayIn, hit, random)
		if scatter.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
			t.Fatalf("Expected total internal reflection %v, got %v", expected, scatter.Scattered.Direction)
		}
	}
}

func TestDielectric_NormalIncidenceMostlyRefracts(t *testing.T) {
	glass := NewDielectric(1.5)
	random := rand.New(rand.NewSource(42))
	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	refracted := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		scatter, _ := glass.Scatter(rayIn, frontHit(glass), random)
		if scatter.Scattered.Direction.Z < 0 {
			refracted++
		}
	}

	// Schlick gives 4% reflectance at normal incidence for ior 1.5
	fraction := float64(refracted) / trials
	if fraction < 0.93 || fraction > 0.99 {
		t.Errorf("Expected ~96%% refraction, got %.3f", fraction)
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"normal incidence glass", 1.0, 1.0 / 1.5, 0.04},
		{"grazing incidence", 0.0, 1.0 / 1.5, 1.0},
		{"matched index", 0.5, 1.0, 0.03125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reflectance(tt.cosine, tt.ratio); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}
