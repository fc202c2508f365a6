package scene

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScene is returned when no preset has the requested name
var ErrUnknownScene = errors.New("unknown scene")

// Preset is a built-in scene that can be selected by name
type Preset struct {
	Name        string
	Description string
	Build       func() (*Scene, error)
}

var presets = map[string]Preset{}

func register(name, description string, build func() (*Scene, error)) {
	presets[name] = Preset{Name: name, Description: description, Build: build}
}

func init() {
	register("default", "Diffuse sphere resting on a large ground sphere", NewDefaultScene)
	register("materials", "Diffuse, metal, glass and hollow glass spheres", NewMaterialsScene)
	register("random", "Field of small random spheres around three large ones", NewRandomScene)
	register("plane", "Infinite checkered plane with a triangle pyramid and a mirror sphere", NewPlaneScene)
	register("mesh", "Generated icosphere meshes on a ground plane", NewMeshScene)
}

// Presets returns all built-in scenes sorted by name
func Presets() []Preset {
	list := make([]Preset, 0, len(presets))
	for _, p := range presets {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// NewPreset builds the built-in scene with the given name
func NewPreset(name string) (*Scene, error) {
	preset, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, name)
	}
	s, err := preset.Build()
	if err != nil {
		return nil, fmt.Errorf("building scene %q: %w", name, err)
	}
	s.Name = name
	return s, nil
}
