package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/achilleasa/octant/metrics"
	"github.com/achilleasa/octant/tracer"
	"github.com/achilleasa/octant/types"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
)

// Generate count rays that start outside the scene and aim at random points
// inside it.
func benchRays(size int, count int, seed int64) []types.Ray {
	rng := rand.New(rand.NewSource(seed))
	s := float32(size)

	rays := make([]types.Ray, count)
	for i := range rays {
		origin := types.XYZ(
			(rng.Float32()*3-1)*s,
			(rng.Float32()*2+0.5)*s,
			(rng.Float32()*3-1)*s,
		)
		target := types.XYZ(rng.Float32()*s, rng.Float32()*s, rng.Float32()*s)
		rays[i] = types.Ray{Origin: origin, Dir: target.Sub(origin).Normalize()}
	}
	return rays
}

// Results of comparing one tracer against the reference tracer.
type benchParity struct {
	tracer     string
	mismatches int
}

// Trace rays with every tracer and compare voxel hits against the first one.
func runBench(tracers []tracer.Tracer, rays []types.Ray) []benchParity {
	parity := make([]benchParity, len(tracers)-1)
	for i := range parity {
		parity[i].tracer = tracers[i+1].Id()
	}

	for _, ray := range rays {
		exp, expOk := tracers[0].Trace(ray.Origin, ray.Dir)
		for i, tr := range tracers[1:] {
			hit, ok := tr.Trace(ray.Origin, ray.Dir)
			if ok != expOk || (ok && hit.Voxel != exp.Voxel) {
				parity[i].mismatches++
			}
		}
	}
	return parity
}

// Benchmark all tracing methods against the generated scene.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	w, err := buildWorld(sceneOptionsFromCtx(ctx))
	if err != nil {
		return err
	}

	count := ctx.Int("rays")
	if count <= 0 {
		return fmt.Errorf("invalid ray count %d", count)
	}
	rays := benchRays(w.opts.Size, count, ctx.Int64("ray-seed"))

	var inBounds int
	sceneMax := types.XYZ(float32(w.opts.Size), float32(w.opts.Size), float32(w.opts.Size))
	for _, ray := range rays {
		if _, ok := ray.IntersectBox(types.Vec3{}, sceneMax); ok {
			inBounds++
		}
	}
	logger.Infof("%d/%d rays intersect the scene bounds", inBounds, count)

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	maxDistance := 4 * float32(w.opts.Size)
	var tracers []tracer.Tracer
	for _, method := range []string{"octree", "stack", "dda", "brick"} {
		tr, err := w.tracer(method, maxDistance)
		if err != nil {
			return err
		}
		tracers = append(tracers, collector.Instrument(tr))
	}

	start := time.Now()
	parity := runBench(tracers, rays)
	logger.Infof("traced %d rays with %d tracers in %s", count, len(tracers), time.Since(start))

	rows, err := collector.Summary(reg)
	if err != nil {
		return err
	}
	mismatches := make(map[string]int)
	for _, p := range parity {
		mismatches[p.tracer] = p.mismatches
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Queries", "Hits", "Mean latency", "Mismatches"})
	for _, row := range rows {
		mismatch := "-"
		if n, ok := mismatches[row.Tracer]; ok {
			mismatch = fmt.Sprintf("%d", n)
		}
		table.Append([]string{
			row.Tracer,
			fmt.Sprintf("%d", row.Queries),
			fmt.Sprintf("%d", row.Hits),
			row.MeanLatency.String(),
			mismatch,
		})
	}
	table.Render()
	logger.Noticef("benchmark results (reference: %s)\n%s", tracers[0].Id(), buf.String())

	// Both octree traversals visit the same nodes so any disagreement
	// between them is a bug. The DDA variants may disagree on rays that
	// graze voxel edges.
	if n := mismatches["stack"]; n != 0 {
		return fmt.Errorf("stack traversal disagrees with recursive traversal on %d rays", n)
	}
	return nil
}
