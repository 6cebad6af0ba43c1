package dda

import (
	"math"
	"testing"

	"github.com/achilleasa/octant/octree"
	"github.com/achilleasa/octant/types"
	"github.com/stretchr/testify/require"
)

func solidAt(voxels ...types.IVec3) OccupancyFunc {
	set := make(map[types.IVec3]struct{}, len(voxels))
	for _, v := range voxels {
		set[v] = struct{}{}
	}
	return func(pos types.IVec3) bool {
		_, ok := set[pos]
		return ok
	}
}

func TestCast(t *testing.T) {
	occ := solidAt(types.IVec3{5, 0, 0}, types.IVec3{1, 0, 0}, types.IVec3{-3, -2, 4})

	type spec struct {
		origin    types.Vec3
		dir       types.Vec3
		expHit    bool
		expVoxel  types.IVec3
		expT      float32
		expNormal types.IVec3
	}
	specs := []spec{
		{types.XYZ(2.5, 0.5, 0.5), types.XYZ(1, 0, 0), true, types.IVec3{5, 0, 0}, 2.5, types.IVec3{-1, 0, 0}},
		{types.XYZ(9.5, 0.5, 0.5), types.XYZ(-1, 0, 0), true, types.IVec3{5, 0, 0}, 3.5, types.IVec3{1, 0, 0}},
		{types.XYZ(9.5, 0.5, 0.5), types.XYZ(-2, 0, 0), true, types.IVec3{5, 0, 0}, 1.75, types.IVec3{1, 0, 0}},
		// Diagonal; x boundary is crossed first
		{types.XYZ(0.5, 0.2, 0.5), types.XYZ(1, 1, 0), true, types.IVec3{1, 0, 0}, 0.5, types.IVec3{-1, 0, 0}},
		// Negative coordinates are floored
		{types.XYZ(-2.5, -1.5, 4.5), types.XYZ(0, -1, 0), true, types.IVec3{-3, -2, 4}, 0, types.IVec3{}},
		{types.XYZ(-2.5, 3.5, 4.5), types.XYZ(0, -1, 0), true, types.IVec3{-3, -2, 4}, 4.5, types.IVec3{0, 1, 0}},
		// Starting inside a solid voxel
		{types.XYZ(5.2, 0.3, 0.9), types.XYZ(0, 1, 0), true, types.IVec3{5, 0, 0}, 0, types.IVec3{}},
		// Zero direction in empty space
		{types.XYZ(3.5, 0.5, 0.5), types.XYZ(0, 0, 0), false, types.IVec3{}, 0, types.IVec3{}},
		// Target beyond the max distance
		{types.XYZ(-40.5, 0.5, 0.5), types.XYZ(1, 0, 0), false, types.IVec3{}, 0, types.IVec3{}},
	}

	for index, s := range specs {
		hit, ok := Cast(s.origin, s.dir, 20, occ, nil)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, ok)
		}
		if !ok {
			continue
		}
		if hit.Voxel != s.expVoxel {
			t.Fatalf("[spec %d] expected voxel %v; got %v", index, s.expVoxel, hit.Voxel)
		}
		if math.Abs(float64(hit.T-s.expT)) > 1e-5 {
			t.Fatalf("[spec %d] expected t=%f; got %f", index, s.expT, hit.T)
		}
		if hit.Normal != s.expNormal {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, s.expNormal, hit.Normal)
		}
		if exp := s.origin.Add(s.dir.Mul(s.expT)); hit.Point.Sub(exp).Len() > 1e-4 {
			t.Fatalf("[spec %d] expected hit point %v; got %v", index, exp, hit.Point)
		}
	}
}

func TestStep(t *testing.T) {
	occ := solidAt(types.IVec3{0, 3, 0})

	voxel, point, ok := Step(types.XYZ(0.5, 0.5, 0.5), types.XYZ(0, 1, 0), 10, occ)
	require.True(t, ok)
	require.Equal(t, types.IVec3{0, 3, 0}, voxel)
	require.InDelta(t, 3.0, point[1], 1e-5)

	_, _, ok = Step(types.XYZ(0.5, 0.5, 0.5), types.XYZ(0, -1, 0), 10, occ)
	require.False(t, ok)
}

func TestCastBounded(t *testing.T) {
	bounds := &Bounds{Max: types.IVec3{8, 8, 8}}
	empty := OccupancyFunc(func(types.IVec3) bool { return false })
	inf := float32(math.Inf(1))

	// Leaving the bounds terminates the walk even without a distance limit.
	_, ok := Cast(types.XYZ(3.5, 3.5, 3.5), types.XYZ(0.3, -0.7, 1), inf, empty, bounds)
	require.False(t, ok)

	// Outside and moving away.
	_, ok = Cast(types.XYZ(-5.5, 0.5, 0.5), types.XYZ(-1, 0, 0), inf, empty, bounds)
	require.False(t, ok)

	// Outside on an axis the ray is parallel to.
	_, ok = Cast(types.XYZ(1.5, 9.5, 0.5), types.XYZ(1, 0, 0), inf, empty, bounds)
	require.False(t, ok)

	// Entering the bounds from outside.
	hit, ok := Cast(types.XYZ(-3.5, 0.5, 0.5), types.XYZ(1, 0, 0), inf, solidAt(types.IVec3{2, 0, 0}), bounds)
	require.True(t, ok)
	require.Equal(t, types.IVec3{2, 0, 0}, hit.Voxel)
	require.InDelta(t, 5.5, hit.T, 1e-5)
}

func TestCastAgainstOctree(t *testing.T) {
	tree := octree.New(16, types.IVec3{})
	tree.AddBlock(types.IVec3{0, 0, 0})
	tree.AddBlock(types.IVec3{1, 0, 0})

	origin, dir := types.XYZ(-1, 0.5, 0.5), types.XYZ(1, 0, 0)
	bounds := &Bounds{Max: types.IVec3{16, 16, 16}}

	hit, ok := Cast(origin, dir, 64, tree, bounds)
	require.True(t, ok)
	require.Equal(t, types.IVec3{0, 0, 0}, hit.Voxel)
	require.InDelta(t, 1.0, hit.T, 1e-5)

	tree.RemoveBlock(types.IVec3{0, 0, 0})
	hit, ok = Cast(origin, dir, 64, tree, bounds)
	require.True(t, ok)
	require.Equal(t, types.IVec3{1, 0, 0}, hit.Voxel)
	require.InDelta(t, 2.0, hit.T, 1e-5)

	// A ray that never reaches the tree volume.
	_, ok = Cast(types.XYZ(-1, 20, 0.5), dir, 64, tree, bounds)
	require.False(t, ok)
}
