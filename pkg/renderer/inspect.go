package renderer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/bounce/pkg/geometry"
	"github.com/df07/bounce/pkg/integrator"
	"github.com/df07/bounce/pkg/material"
	"github.com/df07/bounce/pkg/scene"
)

// InspectResult describes what the camera sees through the center of one pixel
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Shape     geometry.Shape // The object that was hit, nil on a miss
}

// InspectPixel casts an unjittered ray through the center of pixel (x, row) of a width×height
// image, using the same orientation as Render (row 0 at the top)
func InspectPixel(s *scene.Scene, width, height, x, row int) (InspectResult, error) {
	if width <= 0 || height <= 0 {
		return InspectResult{}, fmt.Errorf("%w: %dx%d", ErrInvalidImage, width, height)
	}
	if x < 0 || x >= width || row < 0 || row >= height {
		return InspectResult{}, fmt.Errorf("pixel (%d, %d) outside %dx%d image", x, row, width, height)
	}
	if err := s.Preprocess(); err != nil {
		return InspectResult{}, err
	}

	y := height - 1 - row
	u := (float64(x) + 0.5) / float64(max(width-1, 1))
	v := (float64(y) + 0.5) / float64(max(height-1, 1))

	// Only a defocused camera draws from the random source
	ray := s.Camera.GetRay(u, v, rand.New(rand.NewSource(0)))

	hit, isHit := s.Hit(ray, integrator.DefaultHitTolerance, math.Inf(1))
	if !isHit {
		return InspectResult{}, nil
	}

	// The scene returns a hit record, not the object; find the object producing the same hit
	result := InspectResult{Hit: true, HitRecord: hit}
	for _, p := range s.Primitives {
		if shapeHit, ok := p.Hit(ray, integrator.DefaultHitTolerance, hit.T+integrator.DefaultHitTolerance); ok && shapeHit.T == hit.T {
			result.Shape = p
			return result, nil
		}
	}
	for _, shape := range s.Unbounded {
		if shapeHit, ok := shape.Hit(ray, integrator.DefaultHitTolerance, hit.T+integrator.DefaultHitTolerance); ok && shapeHit.T == hit.T {
			result.Shape = shape
			return result, nil
		}
	}
	return result, nil
}

// DescribeMaterial returns a material's type name and parameters
func DescribeMaterial(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		switch albedo := m.Albedo.(type) {
		case *material.SolidColor:
			properties["albedo"] = [3]float64{albedo.Color.X, albedo.Color.Y, albedo.Color.Z}
		case *material.Checker:
			properties["even"] = [3]float64{albedo.Even.X, albedo.Even.Y, albedo.Even.Z}
			properties["odd"] = [3]float64{albedo.Odd.X, albedo.Odd.Y, albedo.Odd.Z}
			properties["scale"] = albedo.Scale
		}
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["fuzz"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// DescribeShape returns a shape's type name and parameters
func DescribeShape(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Triangle:
		properties["v0"] = [3]float64{geom.V0.X, geom.V0.Y, geom.V0.Z}
		properties["v1"] = [3]float64{geom.V1.X, geom.V1.Y, geom.V1.Z}
		properties["v2"] = [3]float64{geom.V2.X, geom.V2.Y, geom.V2.Z}
		return "triangle", properties

	case *geometry.Plane:
		properties["point"] = [3]float64{geom.Point.X, geom.Point.Y, geom.Point.Z}
		properties["normal"] = [3]float64{geom.Normal.X, geom.Normal.Y, geom.Normal.Z}
		return "plane", properties

	default:
		return "unknown", properties
	}
}
