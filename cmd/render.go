package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/achilleasa/octant/renderer"
	"github.com/achilleasa/octant/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame of the generated scene.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.Options{
		FrameW:      uint32(ctx.Int("width")),
		FrameH:      uint32(ctx.Int("height")),
		Workers:     ctx.Int("workers"),
		MaxDistance: float32(ctx.Float64("max-distance")),
		Supersample: uint32(ctx.Int("ssaa")),
		Overlay:     ctx.Bool("overlay"),
	}

	frames := ctx.Int("frames")
	if frames < 1 {
		return errors.New("at least one frame must be rendered")
	}

	scheduler, err := blockScheduler(ctx.String("scheduler"))
	if err != nil {
		return err
	}

	w, err := buildWorld(sceneOptionsFromCtx(ctx))
	if err != nil {
		return err
	}

	if opts.MaxDistance <= 0 {
		opts.MaxDistance = 2 * float32(w.opts.Size)
		logger.Infof("using max tracing distance %.1f", opts.MaxDistance)
	}

	tr, err := w.tracer(ctx.String("method"), opts.MaxDistance)
	if err != nil {
		return err
	}

	cam, err := w.camera(ctx)
	if err != nil {
		return err
	}

	r, err := renderer.New(tr, cam, scheduler, opts)
	if err != nil {
		return err
	}

	// Later frames let the perfect scheduler rebalance blocks using the
	// timings of the previous frame.
	for frame := 1; frame < frames; frame++ {
		if _, err = r.Render(); err != nil {
			return err
		}
		logger.Debugf("warm-up frame %d/%d rendered in %s", frame, frames, r.Stats().RenderTime)
	}

	img, err := r.Render()
	if err != nil {
		return err
	}

	displayFrameStats(r.Stats())

	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = png.Encode(f, img); err != nil {
		return fmt.Errorf("error encoding png file: %v", err)
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)

	return nil
}

func blockScheduler(name string) (tracer.BlockScheduler, error) {
	switch name {
	case "naive":
		return tracer.NaiveScheduler(), nil
	case "perfect":
		return tracer.PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("unknown block scheduler %q; supported schedulers are: naive, perfect", name)
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Id),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}

	var hitPercent float64
	if stats.Rays > 0 {
		hitPercent = 100 * float64(stats.Hits) / float64(stats.Rays)
	}
	table.SetFooter([]string{
		stats.Tracer,
		fmt.Sprintf("%d rays", stats.Rays),
		fmt.Sprintf("%02.1f %% hits", hitPercent),
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef("frame %s statistics\n%s", stats.Id, buf.String())
}
