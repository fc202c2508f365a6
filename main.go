package main

import (
	"fmt"
	"os"

	"github.com/df07/bounce/cmd"
	"github.com/urfave/cli"
)

var sceneFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "default",
		Usage: "preset scene name, used when no scene file argument is given",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "image width (defaults to the scene's setting)",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "image height (defaults to the scene's setting)",
	},
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bounce"
	app.Usage = "render scenes using CPU path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, notice, warning or error",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to an image file",
			Description: `
Render a preset scene or a JSON scene description. Sampling settings default to
the scene's recommendation and can be overridden with flags. The image is written
as PNG or PPM depending on the output file extension or --format.`,
			ArgsUsage: "[scene.json]",
			Flags: append(append([]cli.Flag{}, sceneFlags...),
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Usage: "maximum number of bounces per path",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Usage: "number of render workers (0 = one per CPU)",
				},
				cli.IntFlag{
					Name:  "tile",
					Value: 32,
					Usage: "tile edge length in pixels",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "random seed; equal seeds and tile sizes give identical images",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output image file (default output/<scene>.png)",
				},
				cli.StringFlag{
					Name:  "format, f",
					Usage: "output format: png or ppm (default from the file extension)",
				},
				cli.StringFlag{
					Name:  "report",
					Usage: "write a JSON render report to this file",
				},
				cli.BoolFlag{
					Name:  "watch",
					Usage: "render again whenever the scene file changes",
				},
				cli.BoolFlag{
					Name:  "quiet, q",
					Usage: "do not show a progress bar",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in preset scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "inspect",
			Usage: "inspect scene internals",
			Subcommands: []cli.Command{
				{
					Name:      "bvh",
					Usage:     "print BVH statistics",
					ArgsUsage: "[scene.json]",
					Flags: append(append([]cli.Flag{}, sceneFlags...),
						cli.BoolFlag{
							Name:  "tree",
							Usage: "also print every node of the tree",
						},
					),
					Action: cmd.InspectBVH,
				},
				{
					Name:      "pixel",
					Usage:     "report the object seen through a pixel",
					ArgsUsage: "[scene.json]",
					Flags: append(append([]cli.Flag{}, sceneFlags...),
						cli.IntFlag{
							Name:  "x",
							Usage: "pixel column",
						},
						cli.IntFlag{
							Name:  "y",
							Usage: "pixel row, counted from the top",
						},
					),
					Action: cmd.InspectPixel,
				},
			},
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
