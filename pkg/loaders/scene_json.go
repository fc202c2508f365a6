package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/geometry"
	"github.com/df07/bounce/pkg/material"
	"github.com/df07/bounce/pkg/scene"
	"github.com/df07/bounce/pkg/sky"
	"github.com/tidwall/gjson"
)

// ErrInvalidScene is wrapped by every scene description error
var ErrInvalidScene = errors.New("invalid scene description")

// LoadSceneJSON reads a JSON scene description. Mesh files are resolved relative to the
// directory containing the description.
func LoadSceneJSON(filename string) (*scene.Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, err := ParseSceneJSON(data, filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(filename)
	}
	return s, nil
}

// ParseSceneJSON builds a scene from a JSON description:
//
//	{
//	  "name": "demo",
//	  "camera": {"lookFrom": [0,0,0], "lookAt": [0,0,-1], "up": [0,1,0], "vfov": 90,
//	             "aspectRatio": 1.7778, "aperture": 0, "focusDistance": 1},
//	  "sky": {"type": "day"},
//	  "materials": {"red": {"type": "lambertian", "albedo": [0.7,0.3,0.3]}},
//	  "objects": [{"type": "sphere", "center": [0,0,-1], "radius": 0.5, "material": "red"}],
//	  "render": {"width": 400, "height": 225, "samplesPerPixel": 100, "maxDepth": 50}
//	}
//
// Sky types are uniform, gradient and day. Material types are lambertian, checker, metal and
// dielectric. Object types are sphere, triangle, plane and mesh.
func ParseSceneJSON(data []byte, baseDir string) (*scene.Scene, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidScene)
	}
	root := gjson.ParseBytes(data)

	s := scene.NewScene()
	s.Name = root.Get("name").String()

	if err := parseCamera(s, root.Get("camera")); err != nil {
		return nil, err
	}
	if err := parseSky(s, root.Get("sky")); err != nil {
		return nil, err
	}
	materials, err := parseMaterials(s, root.Get("materials"))
	if err != nil {
		return nil, err
	}

	objects := root.Get("objects")
	if objects.Exists() && !objects.IsArray() {
		return nil, fmt.Errorf("%w: objects must be an array", ErrInvalidScene)
	}
	for i, object := range objects.Array() {
		if err := parseObject(s, object, materials, baseDir); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	parseRender(s, root.Get("render"))
	return s, nil
}

func parseCamera(s *scene.Scene, camera gjson.Result) error {
	if !camera.Exists() {
		return fmt.Errorf("%w: %w", ErrInvalidScene, scene.ErrNoCamera)
	}

	config := scene.DefaultCameraConfig()
	var err error
	if config.Center, err = optionalVec3(camera, "lookFrom", config.Center); err != nil {
		return err
	}
	if config.LookAt, err = optionalVec3(camera, "lookAt", config.LookAt); err != nil {
		return err
	}
	if config.Up, err = optionalVec3(camera, "up", config.Up); err != nil {
		return err
	}
	if v := camera.Get("vfov"); v.Exists() {
		config.VFov = v.Float()
	}
	if v := camera.Get("aspectRatio"); v.Exists() {
		config.AspectRatio = v.Float()
	}
	if v := camera.Get("aperture"); v.Exists() {
		config.Aperture = v.Float()
	}
	if v := camera.Get("focusDistance"); v.Exists() {
		config.FocusDistance = v.Float()
	} else {
		config.FocusDistance = 0
	}

	if err := s.SetCamera(config); err != nil {
		return fmt.Errorf("%w: camera: %w", ErrInvalidScene, err)
	}
	return nil
}

func parseSky(s *scene.Scene, node gjson.Result) error {
	if !node.Exists() {
		return nil
	}

	switch kind := node.Get("type").String(); kind {
	case "uniform":
		color, err := requiredVec3(node, "color")
		if err != nil {
			return fmt.Errorf("sky: %w", err)
		}
		s.SetSky(sky.NewUniform(color))
	case "gradient":
		bottom, err := requiredVec3(node, "bottom")
		if err != nil {
			return fmt.Errorf("sky: %w", err)
		}
		top, err := requiredVec3(node, "top")
		if err != nil {
			return fmt.Errorf("sky: %w", err)
		}
		s.SetSky(sky.NewGradient(bottom, top))
	case "day":
		s.SetSky(sky.NewDay())
	default:
		return fmt.Errorf("%w: unknown sky type %q", ErrInvalidScene, kind)
	}
	return nil
}

func parseMaterials(s *scene.Scene, node gjson.Result) (map[string]material.Material, error) {
	materials := make(map[string]material.Material)
	if !node.Exists() {
		return materials, nil
	}
	if !node.IsObject() {
		return nil, fmt.Errorf("%w: materials must be an object", ErrInvalidScene)
	}

	var err error
	node.ForEach(func(key, value gjson.Result) bool {
		var mat material.Material
		mat, err = parseMaterial(s, value)
		if err != nil {
			err = fmt.Errorf("material %q: %w", key.String(), err)
			return false
		}
		materials[key.String()] = mat
		return true
	})
	if err != nil {
		return nil, err
	}
	return materials, nil
}

func parseMaterial(s *scene.Scene, node gjson.Result) (material.Material, error) {
	switch kind := node.Get("type").String(); kind {
	case "lambertian":
		albedo, err := requiredVec3(node, "albedo")
		if err != nil {
			return nil, err
		}
		return s.DiffuseMaterial(albedo), nil
	case "checker":
		even, err := requiredVec3(node, "even")
		if err != nil {
			return nil, err
		}
		odd, err := requiredVec3(node, "odd")
		if err != nil {
			return nil, err
		}
		return s.CheckerMaterial(even, odd, node.Get("scale").Float()), nil
	case "metal":
		albedo, err := requiredVec3(node, "albedo")
		if err != nil {
			return nil, err
		}
		return s.MetalMaterial(albedo, node.Get("fuzz").Float()), nil
	case "dielectric":
		ior := node.Get("ior")
		if !ior.Exists() || ior.Float() <= 0 {
			return nil, fmt.Errorf("%w: dielectric needs a positive ior", ErrInvalidScene)
		}
		return s.DielectricMaterial(ior.Float()), nil
	default:
		return nil, fmt.Errorf("%w: unknown material type %q", ErrInvalidScene, kind)
	}
}

func parseObject(s *scene.Scene, node gjson.Result, materials map[string]material.Material, baseDir string) error {
	name := node.Get("material").String()
	mat, ok := materials[name]
	if !ok {
		return fmt.Errorf("%w: unknown material %q", ErrInvalidScene, name)
	}

	switch kind := node.Get("type").String(); kind {
	case "sphere":
		center, err := requiredVec3(node, "center")
		if err != nil {
			return err
		}
		radius := node.Get("radius")
		if !radius.Exists() || radius.Float() == 0 {
			return fmt.Errorf("%w: sphere needs a non-zero radius", ErrInvalidScene)
		}
		s.Sphere(center, radius.Float(), mat)
	case "triangle":
		vertices := node.Get("vertices").Array()
		if len(vertices) != 3 {
			return fmt.Errorf("%w: triangle needs 3 vertices, got %d", ErrInvalidScene, len(vertices))
		}
		var points [3]core.Point
		for i, v := range vertices {
			p, err := toVec3(v)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			points[i] = p
		}
		s.Triangle(points[0], points[1], points[2], mat)
	case "plane":
		point, err := requiredVec3(node, "point")
		if err != nil {
			return err
		}
		normal, err := requiredVec3(node, "normal")
		if err != nil {
			return err
		}
		if err := s.Plane(point, normal, mat); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
	case "mesh":
		return parseMesh(s, node, mat, baseDir)
	default:
		return fmt.Errorf("%w: unknown object type %q", ErrInvalidScene, kind)
	}
	return nil
}

func parseMesh(s *scene.Scene, node gjson.Result, mat material.Material, baseDir string) error {
	file := node.Get("file").String()
	if file == "" {
		return fmt.Errorf("%w: mesh needs a file", ErrInvalidScene)
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(baseDir, file)
	}

	data, err := LoadOBJ(file)
	if err != nil {
		return err
	}

	options := &geometry.TriangleMeshOptions{Scale: node.Get("scale").Float()}
	if options.Translate, err = optionalVec3(node, "translate", core.Vec3{}); err != nil {
		return err
	}
	if node.Get("rotate").Exists() {
		rotation, err := requiredVec3(node, "rotate")
		if err != nil {
			return err
		}
		options.Rotation = &rotation
	}

	return s.Mesh(data.Vertices, data.Faces, mat, options)
}

func parseRender(s *scene.Scene, node gjson.Result) {
	config := &s.SamplingConfig
	if v := node.Get("width"); v.Int() > 0 {
		config.Width = int(v.Int())
	}
	if v := node.Get("height"); v.Int() > 0 {
		config.Height = int(v.Int())
	}
	if v := node.Get("samplesPerPixel"); v.Int() > 0 {
		config.SamplesPerPixel = int(v.Int())
	}
	if v := node.Get("maxDepth"); v.Exists() && v.Int() >= 0 {
		config.MaxDepth = int(v.Int())
	}
}

func requiredVec3(node gjson.Result, key string) (core.Vec3, error) {
	value := node.Get(key)
	if !value.Exists() {
		return core.Vec3{}, fmt.Errorf("%w: missing %q", ErrInvalidScene, key)
	}
	v, err := toVec3(value)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func optionalVec3(node gjson.Result, key string, fallback core.Vec3) (core.Vec3, error) {
	if !node.Get(key).Exists() {
		return fallback, nil
	}
	return requiredVec3(node, key)
}

func toVec3(value gjson.Result) (core.Vec3, error) {
	parts := value.Array()
	if !value.IsArray() || len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: expected [x, y, z], got %s", ErrInvalidScene, value.Raw)
	}
	for _, p := range parts {
		if p.Type != gjson.Number {
			return core.Vec3{}, fmt.Errorf("%w: expected a number, got %s", ErrInvalidScene, p.Raw)
		}
	}
	return core.NewVec3(parts[0].Float(), parts[1].Float(), parts[2].Float()), nil
}
