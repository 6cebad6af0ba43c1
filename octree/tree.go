package octree

import "github.com/achilleasa/octant/types"

// The arena index of the root node.
const RootIndex int32 = 0

// Octree node definition. Nodes are stored by value in the tree arena and
// refer to their children by arena index.
//
// A node is in exactly one of three states: a full leaf (IsFull), an empty
// leaf (neither flag set) or a mixed node (HasChildren) with 8 children of
// half its size.
type Node struct {
	// Children indices in octant order. Only valid when HasChildren is set.
	// Children of a node always occupy 8 consecutive arena slots.
	Children [8]int32

	// Edge length in voxels; always a power of two.
	Size uint32

	// The node min corner.
	Position types.IVec3

	IsFull      bool
	HasChildren bool
}

// Check whether pos lies inside the node volume.
func (n *Node) Contains(pos types.IVec3) bool {
	size := int32(n.Size)
	for axis := 0; axis < 3; axis++ {
		if pos[axis] < n.Position[axis] || pos[axis] >= n.Position[axis]+size {
			return false
		}
	}
	return true
}

// Get the node's bounding box.
func (n *Node) Bounds() (min, max types.Vec3) {
	min = n.Position.Vec3()
	size := float32(n.Size)
	return min, min.Add(types.Vec3{size, size, size})
}

// Tree is a sparse occupancy index over a cube of side 2^k. Nodes live in an
// arena; blocks of 8 child slots released by coalescing are recycled through
// a free list.
//
// A tree is not safe for concurrent mutation. Read-only queries may run
// concurrently on a tree that is not being mutated.
type Tree struct {
	nodes []Node

	// Start indices of released 8-slot child blocks.
	free []int32
}

// Check whether n is a power of two.
func IsPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

// Create an empty tree covering [origin, origin+size) along each axis.
// Panics if size is not a power of two.
func New(size uint32, origin types.IVec3) *Tree {
	return newTree(size, origin, false)
}

// Create a tree whose whole volume is occupied.
// Panics if size is not a power of two.
func NewFull(size uint32, origin types.IVec3) *Tree {
	return newTree(size, origin, true)
}

func newTree(size uint32, origin types.IVec3, full bool) *Tree {
	if !IsPowerOfTwo(size) {
		panic(ErrSizeNotPowerOfTwo)
	}

	return &Tree{
		nodes: []Node{
			{Size: size, Position: origin, IsFull: full},
		},
	}
}

// Get the edge length of the tree volume.
func (t *Tree) Size() uint32 {
	return t.nodes[RootIndex].Size
}

// Get the tree volume min corner.
func (t *Tree) Origin() types.IVec3 {
	return t.nodes[RootIndex].Position
}

// Get a copy of the root node.
func (t *Tree) Root() Node {
	return t.nodes[RootIndex]
}

// Check whether pos lies inside the tree volume.
func (t *Tree) Contains(pos types.IVec3) bool {
	return t.nodes[RootIndex].Contains(pos)
}

// Get a copy of the node at the given arena index.
func (t *Tree) Node(index int32) Node {
	return t.nodes[index]
}

// Get the number of allocated arena slots, including released ones.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get the number of released 8-slot blocks waiting for reuse.
func (t *Tree) FreeBlocks() int {
	return len(t.free)
}

// Get a copy of the node arena. Slots belonging to released blocks are
// included but never referenced by a reachable node.
func (t *Tree) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Create a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	clone := &Tree{
		nodes: t.Nodes(),
		free:  make([]int32, len(t.free)),
	}
	copy(clone.free, t.free)
	return clone
}

// Visit all nodes reachable from the root in depth-first order. Returning
// false from the callback skips the node's children.
func (t *Tree) Walk(visit func(index int32, n Node) bool) {
	var walk func(index int32)
	walk = func(index int32) {
		n := t.nodes[index]
		if !visit(index, n) || !n.HasChildren {
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(RootIndex)
}
