package octree

import "github.com/achilleasa/octant/types"

// Octants are indexed by three bits, one per axis. A set bit selects the
// upper half of the node along that axis. Subdivision, point lookup and the
// ray traversal's mirroring mask and successor table all use this encoding.
const (
	octantX = 4
	octantY = 2
	octantZ = 1

	// Returned by nextOctant when the ray leaves the parent node.
	octantExit = 8
)

// Unit offsets of each octant's min corner from its parent's min corner.
var octantOffset = [8]types.IVec3{
	{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
	{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
}

// Successor octant for each (octant, exit plane) pair where the exit plane
// is 0 for YZ (x exit), 1 for XZ (y exit) and 2 for XY (z exit). Only valid
// for rays travelling in the non-negative octant.
var octantNext = [8][3]int{
	{4, 2, 1},
	{5, 3, octantExit},
	{6, octantExit, 3},
	{7, octantExit, octantExit},
	{octantExit, 6, 5},
	{octantExit, 7, octantExit},
	{octantExit, octantExit, 7},
	{octantExit, octantExit, octantExit},
}

// Select the octant of a node (min corner nodePos, edge size) containing pos.
// The caller guarantees that pos lies inside the node.
func octantOf(nodePos types.IVec3, size uint32, pos types.IVec3) int {
	half := int32(size / 2)
	rel := pos.Sub(nodePos)

	octant := 0
	if rel[0] >= half {
		octant |= octantX
	}
	if rel[1] >= half {
		octant |= octantY
	}
	if rel[2] >= half {
		octant |= octantZ
	}
	return octant
}

// Pick the entry octant of a node given its entry parameters and mid-plane
// parameters. The axis with the largest entry parameter is the entry plane.
func firstOctant(tx0, ty0, tz0, txm, tym, tzm float32) int {
	octant := 0
	switch {
	case tx0 > ty0 && tx0 > tz0:
		// YZ plane
		if tym < tx0 {
			octant |= octantY
		}
		if tzm < tx0 {
			octant |= octantZ
		}
	case ty0 > tz0:
		// XZ plane
		if txm < ty0 {
			octant |= octantX
		}
		if tzm < ty0 {
			octant |= octantZ
		}
	default:
		// XY plane
		if txm < tz0 {
			octant |= octantX
		}
		if tym < tz0 {
			octant |= octantY
		}
	}
	return octant
}

// Get the next octant the ray enters after leaving the current one through
// the plane with the smallest exit parameter.
func nextOctant(current int, tx1, ty1, tz1 float32) int {
	exitPlane := 2
	if tx1 < ty1 {
		if tx1 < tz1 {
			exitPlane = 0
		}
	} else if ty1 < tz1 {
		exitPlane = 1
	}
	return octantNext[current][exitPlane]
}
