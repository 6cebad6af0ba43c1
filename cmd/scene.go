package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/achilleasa/octant/brickgrid"
	"github.com/achilleasa/octant/octree"
	"github.com/achilleasa/octant/scene"
	"github.com/achilleasa/octant/tracer"
	"github.com/achilleasa/octant/types"
	"github.com/urfave/cli"
)

var (
	errInvalidSize   = errors.New("scene size must be a power of two no smaller than 8")
	errUnknownMethod = errors.New("unknown tracing method; supported methods are: octree, stack, dda, brick")
)

// Flags shared by all commands that generate a scene.
var SceneFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "size",
		Value: 64,
		Usage: "scene edge length in voxels (power of two)",
	},
	cli.Int64Flag{
		Name:  "seed",
		Value: 1,
		Usage: "terrain generator seed",
	},
	cli.Float64Flag{
		Name:  "frequency",
		Value: 0.05,
		Usage: "terrain noise frequency",
	},
	cli.Float64Flag{
		Name:  "amplitude",
		Value: 12,
		Usage: "terrain height variation",
	},
	cli.Float64Flag{
		Name:  "base",
		Usage: "base terrain height (defaults to a quarter of the scene size)",
	},
}

// Flags for positioning the camera.
var CameraFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "eye",
		Usage: "camera position as x,y,z (defaults to a corner above the terrain)",
	},
	cli.StringFlag{
		Name:  "look-at",
		Usage: "camera target as x,y,z (defaults to the scene center)",
	},
	cli.Float64Flag{
		Name:  "fov",
		Value: 60,
		Usage: "vertical field of view in degrees",
	},
	cli.Float64Flag{
		Name:  "yaw",
		Usage: "rotate the view around the up axis (degrees)",
	},
	cli.Float64Flag{
		Name:  "pitch",
		Usage: "rotate the view up or down (degrees)",
	},
}

type sceneOptions struct {
	Size      int
	Seed      int64
	Frequency float32
	Amplitude float32
	Base      float32
}

func sceneOptionsFromCtx(ctx *cli.Context) sceneOptions {
	opts := sceneOptions{
		Size:      ctx.Int("size"),
		Seed:      ctx.Int64("seed"),
		Frequency: float32(ctx.Float64("frequency")),
		Amplitude: float32(ctx.Float64("amplitude")),
		Base:      float32(ctx.Float64("base")),
	}
	if opts.Base == 0 {
		opts.Base = float32(opts.Size) / 4
	}
	return opts
}

// A generated scene stored both as an octree and as a brick grid.
type world struct {
	opts sceneOptions
	tree *octree.Tree
	grid *brickgrid.Grid
}

func buildWorld(opts sceneOptions) (*world, error) {
	if opts.Size < brickgrid.BrickSize || opts.Size > math.MaxInt32 || !octree.IsPowerOfTwo(uint32(opts.Size)) {
		return nil, errInvalidSize
	}

	w := &world{
		opts: opts,
		tree: octree.New(uint32(opts.Size), types.IVec3{}),
		grid: brickgrid.New(types.IVec3{}, opts.Size/brickgrid.BrickSize),
	}

	hf := scene.NewHeightfield(opts.Seed, opts.Frequency, opts.Amplitude, opts.Base)
	voxels := hf.Populate(w.tree, opts.Size)
	hf.Populate(scene.BrickInserter{Grid: w.grid}, opts.Size)

	logger.Infof("generated %d^3 scene with %d voxels (seed %d)", opts.Size, voxels, opts.Seed)
	return w, nil
}

// Create a tracer for the given method.
func (w *world) tracer(method string, maxDistance float32) (tracer.Tracer, error) {
	switch method {
	case "octree":
		return tracer.OctreeRecursive{Tree: w.tree}, nil
	case "stack":
		return tracer.OctreeStack{Tree: w.tree}, nil
	case "dda":
		return tracer.OctreeDDA{Tree: w.tree, MaxDistance: maxDistance}, nil
	case "brick":
		return tracer.BrickDDA{Grid: w.grid, MaxDistance: maxDistance}, nil
	}
	return nil, errUnknownMethod
}

// Position a camera using the camera flags or the scene defaults.
func (w *world) camera(ctx *cli.Context) (*scene.Camera, error) {
	size := float32(w.opts.Size)

	cam := scene.NewCamera(float32(ctx.Float64("fov")))
	cam.Position = types.XYZ(-0.2*size, 0.9*size, -0.2*size)
	cam.LookAt = types.XYZ(0.5*size, 0.25*size, 0.5*size)

	var err error
	if eye := ctx.String("eye"); eye != "" {
		if cam.Position, err = parseVec3(eye); err != nil {
			return nil, err
		}
	}
	if lookAt := ctx.String("look-at"); lookAt != "" {
		if cam.LookAt, err = parseVec3(lookAt); err != nil {
			return nil, err
		}
	}
	if cam.LookAt.Sub(cam.Position).IsZero() {
		return nil, errors.New("camera position and target must differ")
	}

	cam.Yaw = float32(ctx.Float64("yaw") * math.Pi / 180)
	cam.Pitch = float32(ctx.Float64("pitch") * math.Pi / 180)
	cam.Update()
	return cam, nil
}

// Parse a vector in x,y,z format.
func parseVec3(s string) (types.Vec3, error) {
	var v types.Vec3

	tokens := strings.Split(s, ",")
	if len(tokens) != 3 {
		return v, fmt.Errorf("invalid vector %q; expected x,y,z", s)
	}
	for axis, token := range tokens {
		f, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return v, fmt.Errorf("invalid vector %q: %v", s, err)
		}
		v[axis] = float32(f)
	}
	return v, nil
}

// Display generated scene statistics.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	w, err := buildWorld(sceneOptionsFromCtx(ctx))
	if err != nil {
		return err
	}

	logger.Noticef("octree statistics:\n%s", w.tree.Stats())
	logger.Noticef("brick grid statistics:\n%s", w.grid.Stats())
	return nil
}
