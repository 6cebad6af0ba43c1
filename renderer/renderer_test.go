package renderer

import (
	"testing"

	"github.com/achilleasa/octant/octree"
	"github.com/achilleasa/octant/scene"
	"github.com/achilleasa/octant/tracer"
	"github.com/achilleasa/octant/types"
	"github.com/stretchr/testify/require"
)

func floorTree() *octree.Tree {
	tree := octree.New(16, types.IVec3{})
	for x := int32(0); x < 16; x++ {
		for z := int32(0); z < 16; z++ {
			for y := int32(0); y < 4; y++ {
				tree.AddBlock(types.IVec3{x, y, z})
			}
		}
	}
	return tree
}

func topDownCamera(lookAtY float32) *scene.Camera {
	cam := scene.NewCamera(60)
	cam.Position = types.XYZ(8, 12, 8)
	cam.LookAt = types.XYZ(8, lookAtY, 8)
	cam.Up = types.XYZ(0, 0, -1)
	return cam
}

func TestNewValidatesArguments(t *testing.T) {
	tr := tracer.OctreeRecursive{Tree: floorTree()}
	cam := topDownCamera(0)

	type spec struct {
		tr     tracer.Tracer
		cam    *scene.Camera
		opts   Options
		expErr error
	}
	specs := []spec{
		{nil, cam, Options{FrameW: 4, FrameH: 4}, ErrNoTracer},
		{tr, nil, Options{FrameW: 4, FrameH: 4}, ErrCameraNotDefined},
		{tr, cam, Options{FrameW: 0, FrameH: 4}, ErrInvalidFrame},
		{tr, cam, Options{FrameW: 4, FrameH: 0}, ErrInvalidFrame},
		{tr, cam, Options{FrameW: 4, FrameH: 4}, nil},
	}

	for index, s := range specs {
		_, err := New(s.tr, s.cam, nil, s.opts)
		if err != s.expErr {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestRenderHitsAndMisses(t *testing.T) {
	tree := floorTree()

	r, err := New(tracer.OctreeStack{Tree: tree}, topDownCamera(0), tracer.NaiveScheduler(), Options{FrameW: 16, FrameH: 12, Workers: 3})
	require.NoError(t, err)

	frame, err := r.Render()
	require.NoError(t, err)
	require.Equal(t, 16, frame.Rect.Dx())
	require.Equal(t, 12, frame.Rect.Dy())

	stats := r.Stats()
	require.Equal(t, "stack", stats.Tracer)
	require.NotEmpty(t, stats.Id)
	require.Equal(t, uint64(16*12), stats.Rays)
	require.Equal(t, stats.Rays, stats.Hits)
	require.Len(t, stats.Workers, 3)

	var rows uint32
	for _, w := range stats.Workers {
		rows += w.BlockH
	}
	require.Equal(t, uint32(12), rows)

	// Looking away from the terrain only the sky is visible.
	r, err = New(tracer.OctreeStack{Tree: tree}, topDownCamera(20), tracer.NaiveScheduler(), Options{FrameW: 16, FrameH: 12})
	require.NoError(t, err)
	_, err = r.Render()
	require.NoError(t, err)
	require.Zero(t, r.Stats().Hits)
}

func TestRenderIsIndependentOfWorkerCount(t *testing.T) {
	tree := floorTree()
	tree.RemoveBlock(types.IVec3{8, 3, 8})
	cam := topDownCamera(0)
	cam.LookAt = types.XYZ(9, 0, 7)

	render := func(tr tracer.Tracer, workers int, sch tracer.BlockScheduler) []uint8 {
		r, err := New(tr, cam, sch, Options{FrameW: 20, FrameH: 15, Workers: workers, MaxDistance: 32})
		require.NoError(t, err)
		frame, err := r.Render()
		require.NoError(t, err)
		return frame.Pix
	}

	exp := render(tracer.OctreeRecursive{Tree: tree}, 1, tracer.NaiveScheduler())
	require.Equal(t, exp, render(tracer.OctreeRecursive{Tree: tree}, 4, tracer.NaiveScheduler()))
	require.Equal(t, exp, render(tracer.OctreeStack{Tree: tree}, 7, tracer.PerfectScheduler()))
}

func TestRenderWithPerfectSchedulerAcrossFrames(t *testing.T) {
	r, err := New(tracer.OctreeRecursive{Tree: floorTree()}, topDownCamera(0), tracer.PerfectScheduler(), Options{FrameW: 8, FrameH: 32, Workers: 4})
	require.NoError(t, err)

	for frame := 0; frame < 3; frame++ {
		_, err = r.Render()
		require.NoError(t, err)

		var rows uint32
		for _, w := range r.Stats().Workers {
			rows += w.BlockH
		}
		require.Equal(t, uint32(32), rows, "frame %d", frame)
	}
}

func TestRenderSupersampleAndOverlay(t *testing.T) {
	tree := floorTree()
	cam := topDownCamera(20)

	plain, err := New(tracer.OctreeRecursive{Tree: tree}, cam, nil, Options{FrameW: 64, FrameH: 48})
	require.NoError(t, err)
	plainFrame, err := plain.Render()
	require.NoError(t, err)

	r, err := New(tracer.OctreeRecursive{Tree: tree}, cam, nil, Options{FrameW: 64, FrameH: 48, Supersample: 2, Overlay: true})
	require.NoError(t, err)
	frame, err := r.Render()
	require.NoError(t, err)

	require.Equal(t, 64, frame.Rect.Dx())
	require.Equal(t, 48, frame.Rect.Dy())
	require.Equal(t, uint64(128*96), r.Stats().Rays)

	// The overlay backdrop darkens the top-left corner.
	require.True(t, frame.RGBAAt(1, 1).B < plainFrame.RGBAAt(1, 1).B)
}
