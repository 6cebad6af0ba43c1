package octree

import (
	"math"

	"github.com/achilleasa/octant/types"
)

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// The closest full leaf intersected by a ray.
type Hit struct {
	// Arena index of the hit leaf. Use Tree.Node to inspect it.
	Node int32

	// Ray parameter of the entry point into the leaf, or 0 if the ray
	// origin lies inside it.
	T float32
}

// Get the world-space hit point for the ray that produced this hit.
func (h Hit) Point(origin, dir types.Vec3) types.Vec3 {
	return origin.Add(dir.Mul(h.T))
}

// Diagnostics collected while traversing the tree.
type TraversalStats struct {
	// Number of nodes popped or entered, including culled ones.
	NodesVisited int

	// Deepest tree level reached (root is 0).
	MaxDepth int

	// Peak number of pending frames; only set by the stack traversal.
	MaxStack int
}

func (s *TraversalStats) visit(depth int) {
	if s == nil {
		return
	}
	s.NodesVisited++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
}

// Per-ray state shared by every node of a traversal. The ray is mirrored so
// that it travels in the non-negative octant; mask records the mirrored axes
// using the octant bit encoding.
type rayState struct {
	start    types.Vec3
	mask     int
	parallel [3]bool
}

var axisBit = [3]int{octantX, octantY, octantZ}

// Set up the mirrored ray and compute the root entry/exit parameters.
// Returns false if the ray misses the tree volume.
func (t *Tree) setupRay(origin, dir types.Vec3) (rs rayState, t0, t1 types.Vec3, ok bool) {
	if dir.IsZero() {
		return rs, t0, t1, false
	}

	root := &t.nodes[RootIndex]
	size := float32(root.Size)
	rs.start = origin

	for axis := 0; axis < 3; axis++ {
		lo := float32(root.Position[axis])
		hi := lo + size
		d := dir[axis]

		if d < 0 {
			rs.start[axis] = 2*lo + size - origin[axis]
			rs.mask |= axisBit[axis]
		}

		if d == 0 {
			rs.parallel[axis] = true
			s := rs.start[axis]
			switch {
			case s < lo:
				t0[axis], t1[axis] = posInf, posInf
			case s >= hi:
				t0[axis], t1[axis] = negInf, negInf
			default:
				t0[axis], t1[axis] = negInf, posInf
			}
			continue
		}

		inv := 1 / float32(math.Abs(float64(d)))
		t0[axis] = (lo - rs.start[axis]) * inv
		t1[axis] = (hi - rs.start[axis]) * inv
	}

	tEnter := maxComponent(t0)
	tExit := minComponent(t1)
	if tEnter >= tExit {
		return rs, t0, t1, false
	}
	return rs, t0, t1, true
}

// Compute the mid-plane parameters of a node. For axes parallel to the ray
// the midpoint is +Inf when the ray runs below the node's mid-plane and
// -Inf otherwise so that octant selection never sees a NaN.
func (rs *rayState) midpoints(node *Node, t0, t1 types.Vec3) (tm types.Vec3) {
	for axis := 0; axis < 3; axis++ {
		if !rs.parallel[axis] {
			tm[axis] = 0.5 * (t0[axis] + t1[axis])
			continue
		}

		mid := float32(node.Position[axis]) + float32(node.Size)/2
		if rs.start[axis] < mid {
			tm[axis] = posInf
		} else {
			tm[axis] = negInf
		}
	}
	return tm
}

// Get the parameter span of a (mirrored) octant.
func childSpan(octant int, t0, tm, t1 types.Vec3) (c0, c1 types.Vec3) {
	for axis := 0; axis < 3; axis++ {
		if octant&axisBit[axis] != 0 {
			c0[axis], c1[axis] = tm[axis], t1[axis]
		} else {
			c0[axis], c1[axis] = t0[axis], tm[axis]
		}
	}
	return c0, c1
}

// Check whether the node lies behind the ray origin along any axis.
func behind(t1 types.Vec3) bool {
	return t1[0] < 0 || t1[1] < 0 || t1[2] < 0
}

// The entry parameter of a leaf; 0 if the origin is inside it.
func entryParam(t0 types.Vec3) float32 {
	tEnter := maxComponent(t0)
	if tEnter < 0 {
		return 0
	}
	return tEnter
}

func maxComponent(v types.Vec3) float32 {
	out := v[0]
	if v[1] > out {
		out = v[1]
	}
	if v[2] > out {
		out = v[2]
	}
	return out
}

func minComponent(v types.Vec3) float32 {
	out := v[0]
	if v[1] < out {
		out = v[1]
	}
	if v[2] < out {
		out = v[2]
	}
	return out
}

// Find the closest full leaf along the ray origin + t*dir, t >= 0, using
// recursive parametric traversal. dir does not need to be normalized;
// Hit.T is expressed in multiples of dir.
func (t *Tree) RayHit(origin, dir types.Vec3) (Hit, bool) {
	return t.RayHitStats(origin, dir, nil)
}

// Same as RayHit but records traversal diagnostics into stats (may be nil).
func (t *Tree) RayHitStats(origin, dir types.Vec3, stats *TraversalStats) (Hit, bool) {
	rs, t0, t1, ok := t.setupRay(origin, dir)
	if !ok {
		return Hit{}, false
	}
	return t.procSubtree(&rs, RootIndex, t0, t1, 0, stats)
}

func (t *Tree) procSubtree(rs *rayState, index int32, t0, t1 types.Vec3, depth int, stats *TraversalStats) (Hit, bool) {
	stats.visit(depth)
	if behind(t1) {
		return Hit{}, false
	}

	node := &t.nodes[index]
	if !node.HasChildren {
		if !node.IsFull {
			return Hit{}, false
		}
		return Hit{Node: index, T: entryParam(t0)}, true
	}

	tm := rs.midpoints(node, t0, t1)
	octant := firstOctant(t0[0], t0[1], t0[2], tm[0], tm[1], tm[2])
	for octant < octantExit {
		c0, c1 := childSpan(octant, t0, tm, t1)
		if hit, ok := t.procSubtree(rs, node.Children[octant^rs.mask], c0, c1, depth+1, stats); ok {
			return hit, true
		}
		octant = nextOctant(octant, c1[0], c1[1], c1[2])
	}

	return Hit{}, false
}
