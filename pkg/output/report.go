package output

import (
	"github.com/df07/bounce/pkg/renderer"
	"github.com/tidwall/sjson"
)

// RenderInfo is everything recorded about a finished render
type RenderInfo struct {
	Scene      string
	OutputPath string
	Image      *renderer.Image
	Sampling   renderer.SamplingConfig
	Stats      renderer.RenderStats
}

// Report encodes info as a JSON document
func Report(info RenderInfo) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	set := func(path string, value interface{}) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, value)
		}
	}

	set("scene", info.Scene)
	if info.OutputPath != "" {
		set("output", info.OutputPath)
	}
	if info.Image != nil {
		set("image.width", info.Image.Width)
		set("image.height", info.Image.Height)
		set("image.averageLuminance", info.Image.AverageLuminance())
	}

	set("sampling.samplesPerPixel", info.Sampling.SamplesPerPixel)
	set("sampling.maxDepth", info.Sampling.MaxDepth)
	set("sampling.workers", info.Stats.Workers)
	set("sampling.tileSize", info.Sampling.TileSize)
	set("sampling.seed", info.Sampling.Seed)

	set("stats.pixels", info.Stats.TotalPixels)
	set("stats.samples", info.Stats.TotalSamples)
	set("stats.tiles", info.Stats.Tiles)
	set("stats.durationMs", info.Stats.Duration.Milliseconds())
	set("stats.samplesPerSecond", info.Stats.SamplesPerSecond())
	set("stats.averageLuminance", info.Stats.AverageLuminance)
	set("stats.maxVariance", info.Stats.MaxVariance)

	if err != nil {
		return nil, err
	}
	return doc, nil
}
