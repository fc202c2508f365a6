package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/df07/bounce/pkg/core"
	"github.com/df07/bounce/pkg/geometry"
	"github.com/df07/bounce/pkg/integrator"
)

// ErrInvalidSampling is returned for sampling settings that cannot produce an image
var ErrInvalidSampling = errors.New("invalid sampling configuration")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Workers         int   // Number of parallel workers (0 = use CPU count)
	TileSize        int   // Edge length of a square tile in pixels
	Seed            int64 // Base seed; tile i draws from seed + i
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Workers:         0,
		TileSize:        32,
		Seed:            42,
	}
}

// Validate checks the configuration before any work is scheduled
func (c SamplingConfig) Validate() error {
	switch {
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidSampling, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidSampling, c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidSampling, c.Workers)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidSampling, c.TileSize)
	}
	return nil
}

// Scene is what the raytracer needs from a scene
type Scene interface {
	integrator.Scene
	GetCamera() *geometry.Camera
	Preprocess() error
}

// ProgressFunc receives the number of finished pixels after each tile.
// Calls are serialized and done never decreases.
type ProgressFunc func(done, total int)

// Raytracer renders a scene into an Image using a pool of tile workers
type Raytracer struct {
	scene      Scene
	integrator integrator.Integrator
	config     SamplingConfig
	logger     core.Logger
	progress   ProgressFunc
}

// NewRaytracer creates a new raytracer using the path tracing integrator
func NewRaytracer(scene Scene, config SamplingConfig) *Raytracer {
	return &Raytracer{
		scene:      scene,
		integrator: integrator.NewPathTracingIntegrator(),
		config:     config,
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(i integrator.Integrator) {
	rt.integrator = i
}

// SetLogger sets the logger used for render summaries; nil disables logging
func (rt *Raytracer) SetLogger(logger core.Logger) {
	rt.logger = logger
}

// SetProgress installs a progress callback; nil disables progress reporting
func (rt *Raytracer) SetProgress(progress ProgressFunc) {
	rt.progress = progress
}

func (rt *Raytracer) logf(format string, args ...interface{}) {
	if rt.logger != nil {
		rt.logger.Printf(format, args...)
	}
}

// Render fills img with the rendered scene. The image, sampling settings and scene are
// validated before any worker starts. For a fixed seed and tile size the output is identical
// regardless of the number of workers.
func (rt *Raytracer) Render(ctx context.Context, img *Image) (RenderStats, error) {
	if err := img.Validate(); err != nil {
		return RenderStats{}, err
	}
	if err := rt.config.Validate(); err != nil {
		return RenderStats{}, err
	}
	if rt.scene == nil {
		return RenderStats{}, errors.New("raytracer has no scene")
	}
	if err := rt.scene.Preprocess(); err != nil {
		return RenderStats{}, fmt.Errorf("preparing scene: %w", err)
	}

	start := time.Now()
	tiles := NewTileGrid(img.Width, img.Height, rt.config.TileSize, rt.config.Seed)
	pool := NewWorkerPool(rt.config.Workers)
	tileRenderer := NewTileRenderer(rt.scene, rt.scene.GetCamera(), rt.integrator, rt.config)

	rt.logf("Rendering %dx%d at %d samples/pixel, depth %d (%d tiles, %d workers)\n",
		img.Width, img.Height, rt.config.SamplesPerPixel, rt.config.MaxDepth, len(tiles), pool.GetNumWorkers())

	totalPixels := img.Width * img.Height
	tileStats := make([]RenderStats, len(tiles))
	var mu sync.Mutex
	done := 0

	err := pool.Run(ctx, len(tiles), func(ctx context.Context, index int) error {
		tileStats[index] = tileRenderer.RenderTile(tiles[index], img)

		if rt.progress != nil {
			mu.Lock()
			done += tileStats[index].TotalPixels
			rt.progress(done, totalPixels)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return RenderStats{}, err
	}

	// Merged in tile order so the floating point sums do not depend on scheduling
	stats := RenderStats{Workers: pool.GetNumWorkers()}
	for _, ts := range tileStats {
		stats.merge(ts)
	}
	stats.Duration = time.Since(start)

	rt.logf("Render completed in %v (%d samples, %.0f samples/sec)\n",
		stats.Duration, stats.TotalSamples, stats.SamplesPerSecond())
	return stats, nil
}

// Render traces scene into img with the default worker and seed settings
func Render(scene Scene, img *Image, samplesPerPixel, maxDepth int) error {
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = samplesPerPixel
	config.MaxDepth = maxDepth
	_, err := NewRaytracer(scene, config).Render(context.Background(), img)
	return err
}
