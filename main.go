package main

import (
	"os"

	"github.com/achilleasa/octant/cmd"
	"github.com/urfave/cli"
)

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	methodFlag := cli.StringFlag{
		Name:  "method, m",
		Value: "stack",
		Usage: "ray tracing method (octree, stack, dda, brick)",
	}

	app := cli.NewApp()
	app.Name = "octant"
	app.Usage = "build, edit and ray trace sparse voxel octrees"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "generate a terrain scene and display storage statistics",
			Flags:  cmd.SceneFlags,
			Action: cmd.ShowSceneInfo,
		},
		{
			Name:  "render",
			Usage: "render a frame of the generated scene",
			Description: `
Generate a heightfield terrain, store it in an octree and a brick grid and
render a single frame using the selected tracing method. The frame is split
into row blocks that are traced in parallel.`,
			Flags: withFlags(cmd.SceneFlags, cmd.CameraFlags, []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 384,
					Usage: "frame height",
				},
				methodFlag,
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of parallel workers (defaults to the number of CPUs)",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "perfect",
					Usage: "block scheduler (naive, perfect)",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of frames to render; only the last one is saved",
				},
				cli.Float64Flag{
					Name:  "max-distance",
					Usage: "max tracing distance for DDA methods and fog (defaults to twice the scene size)",
				},
				cli.IntFlag{
					Name:  "ssaa",
					Value: 1,
					Usage: "supersampling factor per axis",
				},
				cli.BoolFlag{
					Name:  "overlay",
					Usage: "draw frame statistics on the output image",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "bench",
			Usage: "compare ray tracing methods on random rays",
			Flags: withFlags(cmd.SceneFlags, []cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of random rays",
				},
				cli.Int64Flag{
					Name:  "ray-seed",
					Value: 7,
					Usage: "random ray generator seed",
				},
			}),
			Action: cmd.Bench,
		},
		{
			Name:  "pick",
			Usage: "pick the voxel at the center of the view",
			Flags: withFlags(cmd.SceneFlags, cmd.CameraFlags, []cli.Flag{
				methodFlag,
				cli.BoolFlag{
					Name:  "place",
					Usage: "place a voxel next to the picked face",
				},
				cli.BoolFlag{
					Name:  "remove",
					Usage: "remove the picked voxel",
				},
			}),
			Action: cmd.Pick,
		},
		{
			Name:   "shell",
			Usage:  "edit and query the generated scene interactively",
			Flags:  cmd.SceneFlags,
			Action: cmd.Shell,
		},
	}

	app.Run(os.Args)
}
