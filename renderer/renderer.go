package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/octant/log"
	"github.com/achilleasa/octant/scene"
	"github.com/achilleasa/octant/tracer"
	"github.com/achilleasa/octant/types"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

var logger = log.New("renderer")

type Renderer interface {
	// Render frame.
	Render() (*image.RGBA, error)

	// Get render statistics for the last frame.
	Stats() FrameStats
}

var (
	skyTop     = types.XYZ(0.45, 0.65, 0.95)
	skyHorizon = types.XYZ(0.85, 0.9, 1.0)
	sunDir     = types.XYZ(0.4, 0.8, 0.3).Normalize()
)

// A renderer that casts one primary ray per (sub)pixel on the CPU. Row
// blocks are traced in parallel; the tracer and its voxel store must not be
// mutated while a frame is being rendered.
type cpuRenderer struct {
	tracer    tracer.Tracer
	camera    *scene.Camera
	scheduler tracer.BlockScheduler
	options   Options

	lastBlocks []tracer.BlockStats
	stats      FrameStats
}

// Create a new CPU renderer using the specified tracer and block scheduler.
func New(tr tracer.Tracer, cam *scene.Camera, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if tr == nil {
		return nil, ErrNoTracer
	}
	if cam == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrame
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	return &cpuRenderer{
		tracer:    tr,
		camera:    cam,
		scheduler: scheduler,
		options:   opts,
	}, nil
}

func (r *cpuRenderer) Stats() FrameStats {
	return r.stats
}

func (r *cpuRenderer) Render() (*image.RGBA, error) {
	start := time.Now()

	frameW := r.options.FrameW * r.options.Supersample
	frameH := r.options.FrameH * r.options.Supersample
	frame := image.NewRGBA(image.Rect(0, 0, int(frameW), int(frameH)))
	frustum := r.camera.Frustum(float32(frameW) / float32(frameH))

	blockAssignment := r.scheduler.Schedule(r.options.Workers, frameH, r.lastBlocks)
	blocks := make([]tracer.BlockStats, len(blockAssignment))
	hits := make([]uint64, len(blockAssignment))

	var wg sync.WaitGroup
	var blockY uint32
	for idx, blockH := range blockAssignment {
		wg.Add(1)
		go func(idx int, blockY, blockH uint32) {
			defer wg.Done()
			blockStart := time.Now()
			hits[idx] = r.renderBlock(frame, frustum, blockY, blockH)
			blocks[idx] = tracer.BlockStats{BlockH: blockH, BlockTime: time.Since(blockStart)}
		}(idx, blockY, blockH)
		blockY += blockH
	}
	wg.Wait()

	if r.options.Supersample > 1 {
		frame = toRGBA(resize.Resize(uint(r.options.FrameW), uint(r.options.FrameH), frame, resize.Bilinear))
	}

	r.lastBlocks = blocks
	r.stats = FrameStats{
		Id:         uuid.NewString(),
		Tracer:     r.tracer.Id(),
		Workers:    make([]WorkerStat, len(blocks)),
		Rays:       uint64(frameW) * uint64(frameH),
		RenderTime: time.Since(start),
	}
	for idx, block := range blocks {
		r.stats.Hits += hits[idx]
		r.stats.Workers[idx] = WorkerStat{
			Id:           idx,
			BlockH:       block.BlockH,
			FramePercent: 100.0 * float32(block.BlockH) / float32(frameH),
			RenderTime:   block.BlockTime,
		}
	}

	if r.options.Overlay {
		drawOverlay(frame, r.stats)
	}

	logger.Debugf("rendered frame %s (%dx%d, %s) in %d ms", r.stats.Id, frameW, frameH, r.stats.Tracer, r.stats.RenderTime.Nanoseconds()/1000000)
	return frame, nil
}

// Trace rows [blockY, blockY+blockH) and return the number of hits.
func (r *cpuRenderer) renderBlock(frame *image.RGBA, frustum scene.Frustum, blockY, blockH uint32) uint64 {
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	origin := r.camera.Position

	var hits uint64
	for y := int(blockY); y < int(blockY+blockH); y++ {
		for x := 0; x < w; x++ {
			dir := frustum.Ray(x, y, w, h)
			hit, ok := r.tracer.Trace(origin, dir)
			if ok {
				hits++
			}
			frame.SetRGBA(x, y, toColor(r.shade(hit, ok, dir)))
		}
	}
	return hits
}

func (r *cpuRenderer) shade(hit tracer.Hit, ok bool, dir types.Vec3) types.Vec3 {
	// Sky gradient based on ray elevation.
	t := 0.5 * (dir[1] + 1)
	sky := skyHorizon.Mul(1 - t).Add(skyTop.Mul(t))
	if !ok {
		return sky
	}

	albedo := unpackColor(scene.CheckerColor(hit.Voxel))
	diffuse := float32(1)
	if hit.Normal != (types.IVec3{}) {
		n := hit.Normal.Vec3()
		diffuse = 0.3 + 0.7*float32(math.Max(0, float64(n.Dot(sunDir))))
	}
	lit := albedo.Mul(diffuse)

	if r.options.MaxDistance <= 0 {
		return lit
	}
	fog := hit.T / r.options.MaxDistance
	if fog > 1 {
		fog = 1
	}
	return lit.Mul(1 - fog).Add(sky.Mul(fog))
}

func unpackColor(c uint32) types.Vec3 {
	return types.XYZ(
		float32((c>>16)&0xff)/255,
		float32((c>>8)&0xff)/255,
		float32(c&0xff)/255,
	)
}

func toColor(v types.Vec3) color.RGBA {
	channel := func(f float32) uint8 {
		switch {
		case f <= 0:
			return 0
		case f >= 1:
			return 255
		}
		return uint8(f*255 + 0.5)
	}
	return color.RGBA{channel(v[0]), channel(v[1]), channel(v[2]), 255}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
