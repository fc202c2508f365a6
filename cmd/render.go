package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/bounce/pkg/log"
	"github.com/df07/bounce/pkg/output"
	"github.com/df07/bounce/pkg/renderer"
	"github.com/df07/bounce/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli"
)

// RenderFrame renders a scene to an image file. With --watch it keeps running and renders
// again every time the scene file changes.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	src, err := resolveSceneSource(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool("watch") && src.Path == "" {
		return errors.New("--watch needs a scene file, not a preset")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !ctx.Bool("watch") {
		return renderScene(runCtx, ctx, src)
	}

	watcher, err := newSceneWatcher(src.Path)
	if err != nil {
		return err
	}
	defer watcher.Close()

	// A broken scene file should not end the watch; report it and wait for the next edit
	if err := renderScene(runCtx, ctx, src); err != nil {
		logger.Errorf("render failed: %v", err)
	}
	return watcher.Run(runCtx, func() error {
		return renderScene(runCtx, ctx, src)
	})
}

// samplingConfig merges the scene's recommended settings with any flags given
func samplingConfig(ctx *cli.Context, s *scene.Scene) (renderer.SamplingConfig, error) {
	config := renderer.DefaultSamplingConfig()
	config.SamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	config.MaxDepth = s.SamplingConfig.MaxDepth

	if ctx.IsSet("spp") {
		config.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		config.MaxDepth = ctx.Int("depth")
	}
	if ctx.IsSet("workers") {
		config.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("tile") {
		config.TileSize = ctx.Int("tile")
	}
	if ctx.IsSet("seed") {
		config.Seed = ctx.Int64("seed")
	}

	if err := config.Validate(); err != nil {
		return renderer.SamplingConfig{}, err
	}
	return config, nil
}

func outputPath(ctx *cli.Context, src sceneSource) (string, output.Format, error) {
	path := ctx.String("out")
	if path == "" {
		path = filepath.Join("output", src.Name()+".png")
	}

	format := output.FormatFromPath(path)
	if name := ctx.String("format"); name != "" {
		format = output.Format(name)
		if format != output.PNG && format != output.PPM {
			return "", "", fmt.Errorf("%w: %q", output.ErrUnknownFormat, name)
		}
	}
	return path, format, nil
}

func renderScene(runCtx context.Context, ctx *cli.Context, src sceneSource) error {
	s, err := src.Load()
	if err != nil {
		return err
	}
	width, height, err := frameSize(ctx, s)
	if err != nil {
		return err
	}
	config, err := samplingConfig(ctx, s)
	if err != nil {
		return err
	}
	path, format, err := outputPath(ctx, src)
	if err != nil {
		return err
	}

	img, err := renderer.NewImage(width, height)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := s.Preprocess(); err != nil {
		return err
	}
	logger.Infof("scene %s: %d objects, BVH built in %v", src, s.PrimitiveCount(), time.Since(start))

	rt := renderer.NewRaytracer(s, config)
	rt.SetLogger(log.Printer{Logger: logger})

	var bar *progressbar.ProgressBar
	if !ctx.Bool("quiet") {
		bar = newProgressBar(width*height, src.String())
		rt.SetProgress(func(done, total int) {
			_ = bar.Set(done)
		})
	}

	stats, err := rt.Render(runCtx, img)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	if err := output.Save(path, img, format); err != nil {
		return err
	}
	logger.Noticef("render saved as %s", path)
	displayRenderStats(stats)

	if reportPath := ctx.String("report"); reportPath != "" {
		doc, err := output.Report(output.RenderInfo{
			Scene:      src.String(),
			OutputPath: path,
			Image:      img,
			Sampling:   config,
			Stats:      stats,
		})
		if err != nil {
			return fmt.Errorf("building render report: %w", err)
		}
		if err := os.WriteFile(reportPath, doc, 0o644); err != nil {
			return fmt.Errorf("writing render report: %w", err)
		}
	}
	return nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pixels", "Samples", "Tiles", "Workers", "Avg luminance", "Max variance", "Samples/sec"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalPixels),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%d", stats.Tiles),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%.4f", stats.AverageLuminance),
		fmt.Sprintf("%.4f", stats.MaxVariance),
		fmt.Sprintf("%.0f", stats.SamplesPerSecond()),
	})
	table.SetFooter([]string{"", "", "", "", "", "TOTAL", stats.Duration.String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
