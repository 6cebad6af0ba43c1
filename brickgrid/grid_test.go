package brickgrid

import (
	"testing"

	"github.com/achilleasa/octant/types"
	"github.com/stretchr/testify/require"
)

func TestNewPanicsForInvalidCells(t *testing.T) {
	require.Panics(t, func() { New(types.IVec3{}, 0) })
	require.Panics(t, func() { New(types.IVec3{}, -2) })
}

func TestLazyAllocation(t *testing.T) {
	g := New(types.IVec3{-16, -16, -16}, 4)
	require.Equal(t, 32, g.Size())
	require.Empty(t, g.Bricks())
	for _, slot := range g.Lookup() {
		require.Equal(t, Absent, slot)
	}

	// Reads and clears never allocate.
	_, ok := g.Get(types.IVec3{0, 0, 0})
	require.True(t, ok)
	require.True(t, g.Clear(types.IVec3{0, 0, 0}))
	require.Empty(t, g.Bricks())

	require.True(t, g.Set(types.IVec3{0, 0, 0}, Voxel{Data: 1, Color: 0xff00ff}))
	require.True(t, g.Set(types.IVec3{7, 7, 7}, Voxel{Data: 2}))
	require.Len(t, g.Bricks(), 1, "voxels in the same cell share a brick")

	require.True(t, g.Set(types.IVec3{-16, 15, 8}, Voxel{Data: 1}))
	require.Len(t, g.Bricks(), 2)

	v, ok := g.Get(types.IVec3{0, 0, 0})
	require.True(t, ok)
	require.Equal(t, Voxel{Data: 1, Color: 0xff00ff}, v)
	require.True(t, g.IsSolidAt(types.IVec3{7, 7, 7}))
	require.False(t, g.IsSolidAt(types.IVec3{1, 0, 0}))

	require.True(t, g.Clear(types.IVec3{7, 7, 7}))
	require.False(t, g.IsSolidAt(types.IVec3{7, 7, 7}))
	require.Len(t, g.Bricks(), 2, "bricks are never freed individually")
}

func TestBounds(t *testing.T) {
	g := New(types.IVec3{8, 0, 0}, 2)

	type spec struct {
		pos    types.IVec3
		inside bool
	}
	specs := []spec{
		{types.IVec3{8, 0, 0}, true},
		{types.IVec3{23, 15, 15}, true},
		{types.IVec3{7, 0, 0}, false},
		{types.IVec3{24, 0, 0}, false},
		{types.IVec3{8, -1, 0}, false},
		{types.IVec3{8, 0, 16}, false},
	}

	for index, s := range specs {
		if got := g.Contains(s.pos); got != s.inside {
			t.Fatalf("[spec %d] expected Contains(%v) to be %t; got %t", index, s.pos, s.inside, got)
		}
		if got := g.Set(s.pos, Voxel{Data: 1}); got != s.inside {
			t.Fatalf("[spec %d] expected Set(%v) to return %t; got %t", index, s.pos, s.inside, got)
		}
		if got := g.IsSolidAt(s.pos); got != s.inside {
			t.Fatalf("[spec %d] expected IsSolidAt(%v) to be %t; got %t", index, s.pos, s.inside, got)
		}
	}
}

func TestLookupLayout(t *testing.T) {
	g := New(types.IVec3{}, 3)
	g.Set(types.IVec3{8, 16, 0}, Voxel{Data: 1})

	// Cell (1, 2, 0) in x-major order.
	require.Equal(t, uint32(0), g.Lookup()[(1*3+2)*3+0])
	require.Equal(t, Voxel{Data: 1}, g.Bricks()[0][0][0][0])
}

func TestStats(t *testing.T) {
	g := New(types.IVec3{}, 2)
	for x := int32(0); x < 10; x++ {
		g.Set(types.IVec3{x, 0, 0}, Voxel{Data: 1})
	}
	g.Set(types.IVec3{1, 1, 1}, Voxel{Color: 7})

	stats := g.Stats()
	require.Equal(t, Stats{
		Cells:       8,
		Allocated:   2,
		SolidVoxels: 10,
		BrickBytes:  2 * 512 * 8,
	}, stats)
	require.Contains(t, stats.String(), "Allocated bricks")
}
