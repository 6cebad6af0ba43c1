package cmd

import (
	"errors"

	"github.com/achilleasa/octant/tracer"
	"github.com/achilleasa/octant/types"
	"github.com/urfave/cli"
)

var errNothingPicked = errors.New("the camera center ray does not hit any voxel")

// Cast the center ray of the camera and optionally edit the picked voxel.
func Pick(ctx *cli.Context) error {
	setupLogging(ctx)

	place, remove := ctx.Bool("place"), ctx.Bool("remove")
	if place && remove {
		return errors.New("--place and --remove are mutually exclusive")
	}

	w, err := buildWorld(sceneOptionsFromCtx(ctx))
	if err != nil {
		return err
	}

	cam, err := w.camera(ctx)
	if err != nil {
		return err
	}

	tr, err := w.tracer(ctx.String("method"), 4*float32(w.opts.Size))
	if err != nil {
		return err
	}

	dir := cam.LookAt.Sub(cam.Position).Normalize()
	hit, ok := tr.Trace(cam.Position, dir)
	if !ok {
		return errNothingPicked
	}
	logPick("picked", tr, hit)

	var edited types.IVec3
	switch {
	case place:
		if hit.Normal == (types.IVec3{}) {
			return errors.New("cannot place a voxel: the camera is inside a solid voxel")
		}
		edited = hit.Voxel.Add(hit.Normal)
		if !w.add(edited) {
			return errors.New("cannot place a voxel outside the scene")
		}
		logger.Noticef("placed voxel %v", edited)
	case remove:
		edited = hit.Voxel
		w.remove(edited)
		logger.Noticef("removed voxel %v", edited)
	default:
		return nil
	}

	if hit, ok = tr.Trace(cam.Position, dir); ok {
		logPick("after edit", tr, hit)
	} else {
		logger.Notice("after edit: center ray misses")
	}
	return nil
}

func logPick(prefix string, tr tracer.Tracer, hit tracer.Hit) {
	logger.Noticef(
		"%s: voxel %v at t=%.3f (point %.2f, normal %v) using %s",
		prefix, hit.Voxel, hit.T, hit.Point, hit.Normal, tr.Id(),
	)
}
