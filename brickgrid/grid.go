package brickgrid

import (
	"bytes"
	"fmt"
	"math"

	"github.com/achilleasa/octant/types"
	"github.com/olekukonko/tablewriter"
)

const (
	// Edge length of a brick in voxels.
	BrickSize = 8

	// Lookup table value for cells without an allocated brick.
	Absent uint32 = math.MaxUint32
)

// A single voxel. Data != 0 marks the voxel as occupied; Color is an opaque
// payload which is stored but never interpreted.
type Voxel struct {
	Data  uint32
	Color uint32
}

// Check whether the voxel is occupied.
func (v Voxel) IsSolid() bool {
	return v.Data != 0
}

// A dense 8x8x8 block of voxels indexed as [x][y][z].
type Brick [BrickSize][BrickSize][BrickSize]Voxel

// Grid is a flat two-level voxel store. A cells^3 lookup table maps each
// coarse cell to a brick index or Absent; bricks are allocated on the first
// write into their cell and are only released by discarding the grid.
type Grid struct {
	origin types.IVec3
	cells  int

	lookup []uint32
	bricks []Brick
}

// Create a grid covering cells*BrickSize voxels along each axis starting at
// origin. Panics if cells is not positive.
func New(origin types.IVec3, cells int) *Grid {
	if cells <= 0 {
		panic(fmt.Sprintf("brickgrid: invalid cell count %d", cells))
	}

	lookup := make([]uint32, cells*cells*cells)
	for i := range lookup {
		lookup[i] = Absent
	}

	return &Grid{
		origin: origin,
		cells:  cells,
		lookup: lookup,
	}
}

// Get the grid min corner.
func (g *Grid) Origin() types.IVec3 {
	return g.origin
}

// Get the edge length of the grid volume in voxels.
func (g *Grid) Size() int {
	return g.cells * BrickSize
}

// Get the number of coarse cells along each axis.
func (g *Grid) Cells() int {
	return g.cells
}

// Check whether pos lies inside the grid volume.
func (g *Grid) Contains(pos types.IVec3) bool {
	size := int32(g.Size())
	for axis := 0; axis < 3; axis++ {
		rel := pos[axis] - g.origin[axis]
		if rel < 0 || rel >= size {
			return false
		}
	}
	return true
}

// Split pos into a lookup table slot and the local coordinates inside the
// brick. The caller must check Contains first.
func (g *Grid) locate(pos types.IVec3) (slot int, local [3]int) {
	var cell [3]int
	for axis := 0; axis < 3; axis++ {
		rel := int(pos[axis] - g.origin[axis])
		cell[axis] = rel / BrickSize
		local[axis] = rel % BrickSize
	}
	return (cell[0]*g.cells+cell[1])*g.cells + cell[2], local
}

// Store a voxel at pos, allocating the containing brick if required.
// Returns false if pos lies outside the grid.
func (g *Grid) Set(pos types.IVec3, v Voxel) bool {
	if !g.Contains(pos) {
		return false
	}

	slot, local := g.locate(pos)
	brickIndex := g.lookup[slot]
	if brickIndex == Absent {
		brickIndex = uint32(len(g.bricks))
		g.bricks = append(g.bricks, Brick{})
		g.lookup[slot] = brickIndex
	}

	g.bricks[brickIndex][local[0]][local[1]][local[2]] = v
	return true
}

// Get the voxel at pos. The second result is false if pos lies outside the
// grid. Voxels in unallocated bricks are reported as the zero Voxel.
func (g *Grid) Get(pos types.IVec3) (Voxel, bool) {
	if !g.Contains(pos) {
		return Voxel{}, false
	}

	slot, local := g.locate(pos)
	brickIndex := g.lookup[slot]
	if brickIndex == Absent {
		return Voxel{}, true
	}
	return g.bricks[brickIndex][local[0]][local[1]][local[2]], true
}

// Clear the voxel at pos. Clearing never allocates a brick. Returns false if
// pos lies outside the grid.
func (g *Grid) Clear(pos types.IVec3) bool {
	if !g.Contains(pos) {
		return false
	}

	slot, local := g.locate(pos)
	if brickIndex := g.lookup[slot]; brickIndex != Absent {
		g.bricks[brickIndex][local[0]][local[1]][local[2]] = Voxel{}
	}
	return true
}

// Check whether the voxel at pos is occupied. Positions outside the grid
// are reported as empty.
func (g *Grid) IsSolidAt(pos types.IVec3) bool {
	v, _ := g.Get(pos)
	return v.IsSolid()
}

// Get the raw lookup table (x-major order). The returned slice aliases the
// grid storage and must be treated as read-only.
func (g *Grid) Lookup() []uint32 {
	return g.lookup
}

// Get the raw brick storage. The returned slice aliases the grid storage
// and must be treated as read-only.
func (g *Grid) Bricks() []Brick {
	return g.bricks
}

// Stats summarizes grid occupancy.
type Stats struct {
	Cells       int
	Allocated   int
	SolidVoxels uint64
	BrickBytes  uint64
}

// Collect occupancy statistics.
func (g *Grid) Stats() Stats {
	stats := Stats{
		Cells:      len(g.lookup),
		Allocated:  len(g.bricks),
		BrickBytes: uint64(len(g.bricks)) * BrickSize * BrickSize * BrickSize * 8,
	}

	for i := range g.bricks {
		for x := 0; x < BrickSize; x++ {
			for y := 0; y < BrickSize; y++ {
				for z := 0; z < BrickSize; z++ {
					if g.bricks[i][x][y][z].IsSolid() {
						stats.SolidVoxels++
					}
				}
			}
		}
	}
	return stats
}

// Build a tabular representation of the grid statistics.
func (s Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Cells", fmt.Sprintf("%d", s.Cells)})
	table.Append([]string{"Allocated bricks", fmt.Sprintf("%d", s.Allocated)})
	table.Append([]string{"Brick storage", fmtBytes(s.BrickBytes)})
	table.SetFooter([]string{"Voxels", fmt.Sprintf("%d", s.SolidVoxels)})

	table.Render()
	return buf.String()
}

func fmtBytes(n uint64) string {
	switch {
	case n < 1e3:
		return fmt.Sprintf("%3d bytes", n)
	case n < 1e6:
		return fmt.Sprintf("%3.1f kb", float64(n)/1e3)
	default:
		return fmt.Sprintf("%3.1f mb", float64(n)/1e6)
	}
}
