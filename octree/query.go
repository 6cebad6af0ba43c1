package octree

import "github.com/achilleasa/octant/types"

// Check whether the voxel at pos is occupied. Positions outside the tree
// volume are reported as empty.
func (t *Tree) IsSolidAt(pos types.IVec3) bool {
	if !t.Contains(pos) {
		return false
	}

	index := RootIndex
	for {
		node := &t.nodes[index]
		if node.IsFull {
			return true
		}
		if !node.HasChildren || node.Size == 1 {
			return false
		}
		index = node.Children[octantOf(node.Position, node.Size, pos)]
	}
}

// Get the arena index of the leaf containing pos, or -1 if pos lies
// outside the tree volume.
func (t *Tree) LeafAt(pos types.IVec3) int32 {
	if !t.Contains(pos) {
		return -1
	}

	index := RootIndex
	for t.nodes[index].HasChildren {
		index = t.childFor(index, pos)
	}
	return index
}
