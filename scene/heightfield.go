package scene

import (
	"math"
	"math/rand"
	"time"

	"github.com/achilleasa/octant/brickgrid"
	"github.com/achilleasa/octant/log"
	"github.com/achilleasa/octant/types"
)

var logger = log.New("scene")

const latticeSize = 256

// Inserter is implemented by voxel stores that can be populated one voxel
// at a time. octree.Tree satisfies it directly.
type Inserter interface {
	AddBlock(pos types.IVec3) bool
}

// BrickInserter adapts a brick grid to the Inserter interface. Inserted
// voxels are tagged with a checkerboard color.
type BrickInserter struct {
	Grid *brickgrid.Grid
}

func (b BrickInserter) AddBlock(pos types.IVec3) bool {
	return b.Grid.Set(pos, brickgrid.Voxel{Data: 1, Color: CheckerColor(pos)})
}

const (
	colorRed   uint32 = 0x1ff << 16
	colorGreen uint32 = 0x3f << 8
)

// Get the color of a voxel in a checkerboard of 8^3 blocks.
func CheckerColor(pos types.IVec3) uint32 {
	odd := func(v int32) bool {
		return (v>>3)&1 == 1
	}
	if odd(pos[0]) != odd(pos[1]) != odd(pos[2]) {
		return colorRed | colorGreen
	}
	return colorRed
}

// Heightfield generates terrain columns from seeded 2D value noise.
type Heightfield struct {
	Seed int64

	// Lattice cells per voxel.
	Frequency float32

	// Terrain height is Base + Amplitude * noise where noise lies in [-1, 1].
	Amplitude float32
	Base      float32

	lattice []float32
	perm    []int
}

// Create a heightfield with the given seed and parameters.
func NewHeightfield(seed int64, frequency, amplitude, base float32) *Heightfield {
	hf := &Heightfield{
		Seed:      seed,
		Frequency: frequency,
		Amplitude: amplitude,
		Base:      base,
	}
	hf.init()
	return hf
}

func (hf *Heightfield) init() {
	rng := rand.New(rand.NewSource(hf.Seed))
	hf.lattice = make([]float32, latticeSize)
	for i := range hf.lattice {
		hf.lattice[i] = rng.Float32()*2 - 1
	}
	hf.perm = rng.Perm(latticeSize)
}

func (hf *Heightfield) latticeValue(x, z int) float32 {
	ix := x & (latticeSize - 1)
	iz := z & (latticeSize - 1)
	return hf.lattice[hf.perm[(hf.perm[ix]+iz)&(latticeSize-1)]]
}

// Sample the noise function at (x, z). The result lies in [-1, 1].
func (hf *Heightfield) noise(x, z float32) float32 {
	fx := float32(math.Floor(float64(x)))
	fz := float32(math.Floor(float64(z)))
	x0, z0 := int(fx), int(fz)

	sx := smoothstep(x - fx)
	sz := smoothstep(z - fz)

	top := lerp1(hf.latticeValue(x0, z0), hf.latticeValue(x0+1, z0), sx)
	bottom := lerp1(hf.latticeValue(x0, z0+1), hf.latticeValue(x0+1, z0+1), sx)
	return lerp1(top, bottom, sz)
}

func smoothstep(t float32) float32 {
	return t * t * (3 - 2*t)
}

func lerp1(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Get the terrain height of column (x, z). The result is never negative.
func (hf *Heightfield) Height(x, z int) float32 {
	if hf.lattice == nil {
		hf.init()
	}

	h := hf.Base + hf.Amplitude*hf.noise(float32(x)*hf.Frequency, float32(z)*hf.Frequency)
	if h < 0 {
		return 0
	}
	return h
}

// Fill columns x, z in [0, size) with voxels from y = 0 up to (excluding)
// the column height clamped to size. Returns the number of inserted voxels.
func (hf *Heightfield) Populate(dst Inserter, size int) int {
	start := time.Now()

	var inserted int
	for x := 0; x < size; x++ {
		for z := 0; z < size; z++ {
			maxY := hf.Height(x, z)
			if maxY > float32(size) {
				maxY = float32(size)
			}
			for y := 0; float32(y) < maxY; y++ {
				if dst.AddBlock(types.IVec3{int32(x), int32(y), int32(z)}) {
					inserted++
				}
			}
		}
	}

	logger.Debugf("populated %d voxels (%dx%d columns) in %d ms", inserted, size, size, time.Since(start).Nanoseconds()/1000000)
	return inserted
}
