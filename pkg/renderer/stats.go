package renderer

import (
	"math"
	"time"

	"github.com/df07/bounce/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of camera rays traced
	Tiles            int           // Number of tiles rendered
	Workers          int           // Number of workers used
	AverageLuminance float64       // Mean luminance of the linear (pre-gamma) pixel colors
	MaxVariance      float64       // Largest per-pixel luminance variance
	Duration         time.Duration // Wall time of the render
}

// SamplesPerSecond returns the sampling throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// merge folds the statistics of one tile into s
func (s *RenderStats) merge(tile RenderStats) {
	if s.TotalPixels+tile.TotalPixels > 0 {
		s.AverageLuminance = (s.AverageLuminance*float64(s.TotalPixels) +
			tile.AverageLuminance*float64(tile.TotalPixels)) / float64(s.TotalPixels+tile.TotalPixels)
	}
	s.TotalPixels += tile.TotalPixels
	s.TotalSamples += tile.TotalSamples
	s.Tiles++
	s.MaxVariance = math.Max(s.MaxVariance, tile.MaxVariance)
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the luminance variance of the samples
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	return math.Max(0, meanSq-mean*mean)
}
