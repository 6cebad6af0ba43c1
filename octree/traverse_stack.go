package octree

import "github.com/achilleasa/octant/types"

type traversalFrame struct {
	index  int32
	t0, t1 types.Vec3
	depth  int
}

// Find the closest full leaf along the ray using an explicit stack instead
// of native recursion. Results are identical to RayHit.
func (t *Tree) RayHitStack(origin, dir types.Vec3) (Hit, bool) {
	return t.RayHitStackStats(origin, dir, nil)
}

// Same as RayHitStack but records traversal diagnostics into stats (may be nil).
func (t *Tree) RayHitStackStats(origin, dir types.Vec3, stats *TraversalStats) (Hit, bool) {
	rs, t0, t1, ok := t.setupRay(origin, dir)
	if !ok {
		return Hit{}, false
	}

	var buf [96]traversalFrame
	stack := append(buf[:0], traversalFrame{index: RootIndex, t0: t0, t1: t1})

	for len(stack) > 0 {
		if stats != nil && len(stack) > stats.MaxStack {
			stats.MaxStack = len(stack)
		}

		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.visit(frame.depth)
		if behind(frame.t1) {
			continue
		}

		node := &t.nodes[frame.index]
		if !node.HasChildren {
			if node.IsFull {
				return Hit{Node: frame.index, T: entryParam(frame.t0)}, true
			}
			continue
		}

		// A ray crosses at most 4 octants of a node.
		var (
			order [4]int
			count int
		)
		tm := rs.midpoints(node, frame.t0, frame.t1)
		octant := firstOctant(frame.t0[0], frame.t0[1], frame.t0[2], tm[0], tm[1], tm[2])
		for octant < octantExit {
			order[count] = octant
			count++
			_, c1 := childSpan(octant, frame.t0, tm, frame.t1)
			octant = nextOctant(octant, c1[0], c1[1], c1[2])
		}

		// Push in reverse so that popping restores ray order.
		for i := count - 1; i >= 0; i-- {
			c0, c1 := childSpan(order[i], frame.t0, tm, frame.t1)
			stack = append(stack, traversalFrame{
				index: node.Children[order[i]^rs.mask],
				t0:    c0,
				t1:    c1,
				depth: frame.depth + 1,
			})
		}
	}

	return Hit{}, false
}
