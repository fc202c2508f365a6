package renderer

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/df07/bounce/pkg/core"
)

func TestNewTileGrid_CoversImageOnce(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		wantTiles     int
	}{
		{"exact fit", 16, 16, 8, 4},
		{"partial edge tiles", 20, 11, 8, 6},
		{"tile larger than image", 5, 3, 64, 1},
		{"single pixel", 1, 1, 4, 1},
		{"zero tile size is one tile", 7, 9, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize, 42)
			if len(tiles) != tt.wantTiles {
				t.Fatalf("got %d tiles, want %d", len(tiles), tt.wantTiles)
			}

			covered := make([]int, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("tile %d has ID %d", i, tile.ID)
				}
				if !tile.Bounds.In(image.Rect(0, 0, tt.width, tt.height)) {
					t.Errorf("tile %d bounds %v outside image", i, tile.Bounds)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y*tt.width+x]++
					}
				}
			}
			for i, n := range covered {
				if n != 1 {
					t.Fatalf("pixel %d covered %d times", i, n)
				}
			}
		})
	}
}

func TestNewTile_SeededBySeedPlusID(t *testing.T) {
	a := NewTile(3, image.Rect(0, 0, 1, 1), 100)
	b := NewTile(0, image.Rect(0, 0, 1, 1), 103)
	c := NewTile(4, image.Rect(0, 0, 1, 1), 100)

	av, bv, cv := a.Random.Float64(), b.Random.Float64(), c.Random.Float64()
	if av != bv {
		t.Errorf("tiles with equal seed+id should share a sequence: %v vs %v", av, bv)
	}
	if av == cv {
		t.Errorf("neighbouring tiles should not share a sequence")
	}
}

func TestImage_RowMajorTopLeft(t *testing.T) {
	img, err := NewImage(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	img.Set(2, 1, core.NewColor(1, 0, 0))
	img.Set(0, 0, core.NewColor(0, 1, 0))

	if img.Pixels[5] != core.NewColor(1, 0, 0) {
		t.Errorf("(2,1) should be the last pixel, got %v", img.Pixels)
	}
	if img.Pixels[0] != core.NewColor(0, 1, 0) {
		t.Errorf("(0,0) should be the first pixel, got %v", img.Pixels)
	}
	if got := img.At(2, 1); got != core.NewColor(1, 0, 0) {
		t.Errorf("At(2,1) = %v", got)
	}
}

func TestNewImage_Invalid(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-3, 4}} {
		if _, err := NewImage(dims[0], dims[1]); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("NewImage(%d, %d) error = %v, want ErrInvalidImage", dims[0], dims[1], err)
		}
	}

	img := &Image{Width: 2, Height: 2, Pixels: make([]core.Color, 3)}
	if err := img.Validate(); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("mismatched buffer error = %v, want ErrInvalidImage", err)
	}
}

func TestImage_AverageLuminance(t *testing.T) {
	// Red, green, blue and black average to (0.2126 + 0.7152 + 0.0722) / 4
	img, _ := NewImage(2, 2)
	img.Set(0, 0, core.NewColor(1, 0, 0))
	img.Set(1, 0, core.NewColor(0, 1, 0))
	img.Set(0, 1, core.NewColor(0, 0, 1))

	avgLum := img.AverageLuminance()
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminance %f, got %f", expected, avgLum)
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) || ps.Variance() != 0 {
		t.Fatal("empty pixel stats should be black with zero variance")
	}

	ps.AddSample(core.NewColor(1, 1, 1))
	ps.AddSample(core.NewColor(0, 0, 0))

	if got := ps.GetColor(); got != core.NewColor(0.5, 0.5, 0.5) {
		t.Errorf("GetColor() = %v, want (0.5,0.5,0.5)", got)
	}
	if got := ps.Variance(); got < 0.2499 || got > 0.2501 {
		t.Errorf("Variance() = %v, want 0.25", got)
	}
}

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(3)
	seen := make([]int32, 50)

	err := pool.Run(context.Background(), len(seen), func(ctx context.Context, index int) error {
		atomic.AddInt32(&seen[index], 1)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("task %d ran %d times", i, n)
		}
	}
}

func TestWorkerPool_LimitsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)
	var running, peak int32
	var mu sync.Mutex

	err := pool.Run(context.Background(), 20, func(ctx context.Context, index int) error {
		n := atomic.AddInt32(&running, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		atomic.AddInt32(&running, -1)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if peak > 2 {
		t.Errorf("peak concurrency %d exceeds 2 workers", peak)
	}
}

func TestWorkerPool_FirstErrorWins(t *testing.T) {
	pool := NewWorkerPool(1)
	want := errors.New("tile failed")

	err := pool.Run(context.Background(), 10, func(ctx context.Context, index int) error {
		if index == 2 {
			return want
		}
		return nil
	})
	if !errors.Is(err, want) {
		t.Errorf("Run error = %v, want %v", err, want)
	}
}

func TestWorkerPool_DefaultsToCPUCount(t *testing.T) {
	if n := NewWorkerPool(0).GetNumWorkers(); n < 1 {
		t.Errorf("GetNumWorkers() = %d, want at least 1", n)
	}
}
