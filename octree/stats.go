package octree

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Stats summarizes the structure of a tree.
type Stats struct {
	// Allocated arena slots, including released ones.
	Nodes int

	// Nodes reachable from the root.
	Reachable int

	FreeBlocks  int
	FullLeaves  int
	EmptyLeaves int
	Mixed       int
	MaxDepth    int

	// Number of occupied unit voxels.
	Voxels uint64
}

// Collect structural statistics for the tree.
func (t *Tree) Stats() Stats {
	stats := Stats{
		Nodes:      len(t.nodes),
		FreeBlocks: len(t.free),
	}

	rootSize := t.Size()
	t.Walk(func(_ int32, n Node) bool {
		stats.Reachable++

		depth := 0
		for s := rootSize; s > n.Size; s >>= 1 {
			depth++
		}
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}

		switch {
		case n.HasChildren:
			stats.Mixed++
		case n.IsFull:
			stats.FullLeaves++
			size := uint64(n.Size)
			stats.Voxels += size * size * size
		default:
			stats.EmptyLeaves++
		}
		return true
	})

	return stats
}

// Build a tabular representation of the tree statistics.
func (s Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Category", "Metric", "Value"})
	table.Append([]string{"Arena", "---", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"", "Reachable", fmt.Sprintf("%d", s.Reachable)})
	table.Append([]string{"", "Free blocks", fmt.Sprintf("%d", s.FreeBlocks)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Nodes", "---", fmt.Sprintf("%d", s.FullLeaves+s.EmptyLeaves+s.Mixed)})
	table.Append([]string{"", "Full leaves", fmt.Sprintf("%d", s.FullLeaves)})
	table.Append([]string{"", "Empty leaves", fmt.Sprintf("%d", s.EmptyLeaves)})
	table.Append([]string{"", "Mixed", fmt.Sprintf("%d", s.Mixed)})
	table.Append([]string{"", "Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.SetFooter([]string{"Voxels", " ", fmt.Sprintf("%d", s.Voxels)})

	table.Render()
	return buf.String()
}
