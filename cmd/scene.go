package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/bounce/pkg/loaders"
	"github.com/df07/bounce/pkg/scene"
	"github.com/urfave/cli"
)

// sceneSource is where a scene comes from: a JSON description file or a built-in preset
type sceneSource struct {
	Path   string // Empty for presets
	Preset string
}

func (src sceneSource) String() string {
	if src.Path != "" {
		return src.Path
	}
	return src.Preset
}

// Name is used for default output file names
func (src sceneSource) Name() string {
	if src.Path != "" {
		return strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}
	return src.Preset
}

// Load builds a fresh scene from the source
func (src sceneSource) Load() (*scene.Scene, error) {
	if src.Path != "" {
		return loaders.LoadSceneJSON(src.Path)
	}
	return scene.NewPreset(src.Preset)
}

// resolveSceneSource picks the scene from the first argument or the --scene flag. An argument
// naming an existing file is read as a JSON description; anything else is a preset name.
func resolveSceneSource(ctx *cli.Context) (sceneSource, error) {
	if ctx.NArg() > 1 {
		return sceneSource{}, fmt.Errorf("expected at most one scene argument, got %d", ctx.NArg())
	}

	name := ctx.Args().First()
	if name == "" {
		name = ctx.String("scene")
	}
	if name == "" {
		return sceneSource{}, fmt.Errorf("no scene given")
	}

	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return sceneSource{Path: name}, nil
	}
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return sceneSource{}, fmt.Errorf("scene file %s not found", name)
	}
	return sceneSource{Preset: name}, nil
}

// frameSize returns the image size from flags, falling back to the scene's own settings.
// When the size differs from the camera aspect ratio the camera is refitted to the image.
func frameSize(ctx *cli.Context, s *scene.Scene) (int, int, error) {
	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height
	if ctx.IsSet("width") {
		width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		height = ctx.Int("height")
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("image size must be positive, got %dx%d", width, height)
	}

	aspect := float64(width) / float64(height)
	if s.Camera != nil && s.CameraConfig.AspectRatio != aspect {
		config := s.CameraConfig
		config.AspectRatio = aspect
		if err := s.SetCamera(config); err != nil {
			return 0, 0, err
		}
	}
	return width, height, nil
}
