package octree

import "github.com/achilleasa/octant/types"

// Mark the voxel at pos as occupied. Returns false without modifying the
// tree if pos lies outside the tree volume.
//
// Mixed nodes whose children all become full are coalesced into a full leaf.
func (t *Tree) AddBlock(pos types.IVec3) bool {
	if !t.Contains(pos) {
		return false
	}

	t.addBlock(RootIndex, pos)
	return true
}

func (t *Tree) addBlock(index int32, pos types.IVec3) {
	node := &t.nodes[index]

	switch {
	case node.Size == 1:
		node.IsFull = true
		return
	case node.IsFull:
		return
	case !node.HasChildren:
		// Empty leaf; a single voxel cannot fill all 8 new children so no
		// merge check is required after descending.
		t.subdivide(index, false)
		t.addBlock(t.childFor(index, pos), pos)
		return
	}

	t.addBlock(t.childFor(index, pos), pos)

	// The arena may have grown while descending; re-read the node.
	node = &t.nodes[index]
	for _, child := range node.Children {
		if !t.nodes[child].IsFull {
			return
		}
	}

	node.IsFull = true
	node.HasChildren = false
	t.release(node.Children[0])
}

// Mark the voxel at pos as empty. Returns false without modifying the tree
// if pos lies outside the tree volume.
//
// Mixed nodes whose children all become empty leaves are coalesced into an
// empty leaf.
func (t *Tree) RemoveBlock(pos types.IVec3) bool {
	if !t.Contains(pos) {
		return false
	}

	t.removeBlock(RootIndex, pos)
	return true
}

func (t *Tree) removeBlock(index int32, pos types.IVec3) {
	node := &t.nodes[index]

	switch {
	case node.Size == 1:
		node.IsFull = false
		return
	case !node.HasChildren && !node.IsFull:
		return
	case node.IsFull:
		// Full leaf; split into 8 full children and clear one voxel below.
		t.subdivide(index, true)
		t.nodes[index].IsFull = false
		t.removeBlock(t.childFor(index, pos), pos)
		return
	}

	t.removeBlock(t.childFor(index, pos), pos)

	node = &t.nodes[index]
	for _, child := range node.Children {
		if c := &t.nodes[child]; c.IsFull || c.HasChildren {
			return
		}
	}

	node.HasChildren = false
	t.release(node.Children[0])
}

// Get the arena index of the child of a mixed node containing pos.
func (t *Tree) childFor(index int32, pos types.IVec3) int32 {
	node := &t.nodes[index]
	return node.Children[octantOf(node.Position, node.Size, pos)]
}

// Split a leaf into 8 leaves of half its size, each full or empty.
func (t *Tree) subdivide(index int32, full bool) {
	first := t.allocate()

	node := &t.nodes[index]
	half := node.Size / 2
	for octant := 0; octant < 8; octant++ {
		offset := octantOffset[octant]
		child := first + int32(octant)
		t.nodes[child] = Node{
			Size: half,
			Position: types.IVec3{
				node.Position[0] + offset[0]*int32(half),
				node.Position[1] + offset[1]*int32(half),
				node.Position[2] + offset[2]*int32(half),
			},
			IsFull: full,
		}
		node.Children[octant] = child
	}
	node.HasChildren = true
}

// Reserve 8 consecutive arena slots and return the first index. Released
// blocks are reused before the arena grows.
func (t *Tree) allocate() int32 {
	if n := len(t.free); n > 0 {
		first := t.free[n-1]
		t.free = t.free[:n-1]
		return first
	}

	first := int32(len(t.nodes))
	t.nodes = append(t.nodes, make([]Node, 8)...)
	return first
}

// Return a block of 8 child slots to the free list. The slots are left in
// place but are no longer referenced.
func (t *Tree) release(first int32) {
	t.free = append(t.free, first)
}
