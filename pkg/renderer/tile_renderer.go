package renderer

import (
	"image"
	"math"
	"math/rand"

	"github.com/df07/bounce/pkg/geometry"
	"github.com/df07/bounce/pkg/integrator"
)

// Tile is a rectangular block of pixels rendered by one worker with its own random source
type Tile struct {
	ID     int             // Unique tile identifier, row-major over the grid
	Bounds image.Rectangle // Pixel bounds in image coordinates (row 0 at the top)
	Random *rand.Rand      // Tile-specific random generator for deterministic results
}

// NewTile creates a tile whose random source is seeded with seed + id
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(seed + int64(id))),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	if tileSize <= 0 {
		tileSize = max(width, height)
	}

	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}

// TileRenderer samples the pixels of a tile with an integrator
type TileRenderer struct {
	scene      integrator.Scene
	camera     *geometry.Camera
	integrator integrator.Integrator
	config     SamplingConfig
}

// NewTileRenderer creates a new tile renderer
func NewTileRenderer(scene integrator.Scene, camera *geometry.Camera, integratorInst integrator.Integrator, config SamplingConfig) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		camera:     camera,
		integrator: integratorInst,
		config:     config,
	}
}

// RenderTile writes every pixel of the tile into img and returns the tile statistics.
// Tiles never overlap, so concurrent calls on distinct tiles may share img.
func (tr *TileRenderer) RenderTile(tile *Tile, img *Image) RenderStats {
	stats := RenderStats{TotalPixels: tile.Bounds.Dx() * tile.Bounds.Dy()}
	luminance := 0.0

	for row := tile.Bounds.Min.Y; row < tile.Bounds.Max.Y; row++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			var ps PixelStats
			tr.samplePixel(x, img.Height-1-row, img.Width, img.Height, &ps, tile.Random)

			avg := ps.GetColor()
			luminance += avg.Luminance()
			stats.TotalSamples += ps.SampleCount
			stats.MaxVariance = math.Max(stats.MaxVariance, ps.Variance())

			img.Set(x, row, avg.GammaCorrect(2.0))
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageLuminance = luminance / float64(stats.TotalPixels)
	}
	return stats
}

// samplePixel traces SamplesPerPixel jittered camera rays through pixel (x, y), where y
// counts up from the bottom row
func (tr *TileRenderer) samplePixel(x, y, width, height int, ps *PixelStats, random *rand.Rand) {
	// A one pixel wide or tall image still maps into [0,1]
	uScale := float64(max(width-1, 1))
	vScale := float64(max(height-1, 1))

	for sample := 0; sample < tr.config.SamplesPerPixel; sample++ {
		u := (float64(x) + random.Float64()) / uScale
		v := (float64(y) + random.Float64()) / vScale
		ray := tr.camera.GetRay(u, v, random)
		ps.AddSample(tr.integrator.RayColor(ray, tr.scene, random, tr.config.MaxDepth))
	}
}
