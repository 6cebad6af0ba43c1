package tracer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/octant/brickgrid"
	"github.com/achilleasa/octant/octree"
	"github.com/achilleasa/octant/types"
	"github.com/stretchr/testify/require"
)

func populate(rng *rand.Rand, size int, count int) (*octree.Tree, *brickgrid.Grid) {
	tree := octree.New(uint32(size), types.IVec3{})
	grid := brickgrid.New(types.IVec3{}, size/brickgrid.BrickSize)

	for i := 0; i < count; i++ {
		pos := types.IVec3{int32(rng.Intn(size)), int32(rng.Intn(size)), int32(rng.Intn(size))}
		tree.AddBlock(pos)
		grid.Set(pos, brickgrid.Voxel{Data: 1})
	}
	// Add a solid slab so that coalesced leaves of several sizes exist.
	for x := int32(0); x < 16; x++ {
		for z := int32(0); z < 16; z++ {
			for y := int32(0); y < 4; y++ {
				pos := types.IVec3{x, y, z}
				tree.AddBlock(pos)
				grid.Set(pos, brickgrid.Voxel{Data: 1})
			}
		}
	}
	return tree, grid
}

func allTracers(tree *octree.Tree, grid *brickgrid.Grid) []Tracer {
	inf := float32(math.Inf(1))
	return []Tracer{
		OctreeRecursive{Tree: tree},
		OctreeStack{Tree: tree},
		OctreeDDA{Tree: tree, MaxDistance: inf},
		BrickDDA{Grid: grid, MaxDistance: inf},
	}
}

func TestTracersConcreteScenario(t *testing.T) {
	tree := octree.New(16, types.IVec3{})
	tree.AddBlock(types.IVec3{0, 0, 0})
	tree.AddBlock(types.IVec3{1, 0, 0})
	grid := brickgrid.New(types.IVec3{}, 2)
	grid.Set(types.IVec3{0, 0, 0}, brickgrid.Voxel{Data: 1})
	grid.Set(types.IVec3{1, 0, 0}, brickgrid.Voxel{Data: 1})

	origin, dir := types.XYZ(-1, 0.5, 0.5), types.XYZ(1, 0, 0)
	for _, tr := range allTracers(tree, grid) {
		hit, ok := tr.Trace(origin, dir)
		require.True(t, ok, tr.Id())
		require.Equal(t, types.IVec3{0, 0, 0}, hit.Voxel, tr.Id())
		require.Equal(t, types.IVec3{-1, 0, 0}, hit.Normal, tr.Id())
		require.InDelta(t, 1.0, hit.T, 1e-5, tr.Id())
		require.InDelta(t, 0.0, hit.Point[0], 1e-5, tr.Id())
	}

	tree.RemoveBlock(types.IVec3{0, 0, 0})
	grid.Clear(types.IVec3{0, 0, 0})
	for _, tr := range allTracers(tree, grid) {
		hit, ok := tr.Trace(origin, dir)
		require.True(t, ok, tr.Id())
		require.Equal(t, types.IVec3{1, 0, 0}, hit.Voxel, tr.Id())
		require.InDelta(t, 2.0, hit.T, 1e-5, tr.Id())
	}

	// Aimed entirely outside the volume.
	for _, tr := range allTracers(tree, grid) {
		_, ok := tr.Trace(types.XYZ(-1, 20, 0.5), dir)
		require.False(t, ok, tr.Id())
		_, ok = tr.Trace(types.XYZ(-1, 0.5, 0.5), types.XYZ(-1, 0.1, 0))
		require.False(t, ok, tr.Id())
	}
}

func TestLeafHitOnLargeLeaf(t *testing.T) {
	tree := octree.NewFull(16, types.IVec3{})

	// Entering the full root through its +y face.
	hit, ok := OctreeRecursive{Tree: tree}.Trace(types.XYZ(3.5, 20, 7.25), types.XYZ(0, -1, 0))
	require.True(t, ok)
	require.Equal(t, types.IVec3{3, 15, 7}, hit.Voxel)
	require.Equal(t, types.IVec3{0, 1, 0}, hit.Normal)
	require.InDelta(t, 4.0, hit.T, 1e-5)

	// Starting inside.
	hit, ok = OctreeStack{Tree: tree}.Trace(types.XYZ(3.5, 2.5, 7.25), types.XYZ(0, -1, 0))
	require.True(t, ok)
	require.Equal(t, types.IVec3{3, 2, 7}, hit.Voxel)
	require.Equal(t, types.IVec3{}, hit.Normal)
	require.Zero(t, hit.T)
}

func TestTracerParity(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	tree, grid := populate(rng, 32, 1200)
	tracers := allTracers(tree, grid)

	var hits int
	for i := 0; i < 2000; i++ {
		var origin, dir types.Vec3
		for axis := 0; axis < 3; axis++ {
			origin[axis] = rng.Float32()*48 - 8
			dir[axis] = rng.Float32()*2 - 1
		}

		ref, refOk := tracers[0].Trace(origin, dir)
		if refOk {
			hits++
		}
		for _, tr := range tracers[1:] {
			hit, ok := tr.Trace(origin, dir)
			if ok != refOk {
				t.Fatalf("[ray %d] origin %v dir %v: %s hit=%t; %s hit=%t", i, origin, dir, tracers[0].Id(), refOk, tr.Id(), ok)
			}
			if !ok {
				continue
			}
			if hit.Voxel != ref.Voxel {
				t.Fatalf("[ray %d] origin %v dir %v: %s hit %v; %s hit %v", i, origin, dir, tracers[0].Id(), ref.Voxel, tr.Id(), hit.Voxel)
			}
			if math.Abs(float64(hit.T-ref.T)) > 1e-3 {
				t.Fatalf("[ray %d] %s t=%f; %s t=%f", i, tracers[0].Id(), ref.T, tr.Id(), hit.T)
			}
			if hit.Normal != ref.Normal {
				t.Fatalf("[ray %d] %s normal %v; %s normal %v", i, tracers[0].Id(), ref.Normal, tr.Id(), hit.Normal)
			}
		}
	}

	require.True(t, hits > 200, "expected a reasonable number of hits; got %d", hits)
}
