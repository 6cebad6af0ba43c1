package tracer

import (
	"github.com/achilleasa/octant/brickgrid"
	"github.com/achilleasa/octant/dda"
	"github.com/achilleasa/octant/octree"
	"github.com/achilleasa/octant/types"
)

// The closest solid voxel along a ray.
type Hit struct {
	Voxel types.IVec3

	// World-space point where the ray enters the voxel.
	Point types.Vec3

	// Ray parameter of Point in multiples of the ray direction.
	T float32

	// Outward normal of the entered face; zero if the ray started inside
	// a solid voxel.
	Normal types.IVec3
}

// Tracer is implemented by all ray query methods. Implementations must be
// safe to call concurrently as long as the underlying store is not mutated.
type Tracer interface {
	// Get tracer id.
	Id() string

	// Find the closest solid voxel along origin + t*dir, t >= 0.
	Trace(origin, dir types.Vec3) (Hit, bool)
}

// Traces rays against an octree using recursive parametric traversal.
type OctreeRecursive struct {
	Tree *octree.Tree
}

func (tr OctreeRecursive) Id() string { return "octree" }

func (tr OctreeRecursive) Trace(origin, dir types.Vec3) (Hit, bool) {
	hit, ok := tr.Tree.RayHit(origin, dir)
	if !ok {
		return Hit{}, false
	}
	return leafHit(tr.Tree.Node(hit.Node), hit.T, origin, dir), true
}

// Traces rays against an octree using the explicit stack traversal.
type OctreeStack struct {
	Tree *octree.Tree
}

func (tr OctreeStack) Id() string { return "stack" }

func (tr OctreeStack) Trace(origin, dir types.Vec3) (Hit, bool) {
	hit, ok := tr.Tree.RayHitStack(origin, dir)
	if !ok {
		return Hit{}, false
	}
	return leafHit(tr.Tree.Node(hit.Node), hit.T, origin, dir), true
}

// Traces rays against an octree by stepping through its unit voxels.
type OctreeDDA struct {
	Tree *octree.Tree

	// Rays are abandoned once their parameter exceeds this value. The walk
	// also ends when the ray leaves the tree volume.
	MaxDistance float32
}

func (tr OctreeDDA) Id() string { return "dda" }

func (tr OctreeDDA) Trace(origin, dir types.Vec3) (Hit, bool) {
	size := int32(tr.Tree.Size())
	min := tr.Tree.Origin()
	bounds := dda.Bounds{Min: min, Max: min.Add(types.IVec3{size, size, size})}
	return cast(origin, dir, tr.MaxDistance, tr.Tree, &bounds)
}

// Traces rays against a brick grid by stepping through its voxels.
type BrickDDA struct {
	Grid        *brickgrid.Grid
	MaxDistance float32
}

func (tr BrickDDA) Id() string { return "brick" }

func (tr BrickDDA) Trace(origin, dir types.Vec3) (Hit, bool) {
	size := int32(tr.Grid.Size())
	min := tr.Grid.Origin()
	bounds := dda.Bounds{Min: min, Max: min.Add(types.IVec3{size, size, size})}
	return cast(origin, dir, tr.MaxDistance, tr.Grid, &bounds)
}

func cast(origin, dir types.Vec3, maxDistance float32, occ dda.Occupancy, bounds *dda.Bounds) (Hit, bool) {
	hit, ok := dda.Cast(origin, dir, maxDistance, occ, bounds)
	if !ok {
		return Hit{}, false
	}
	return Hit(hit), true
}

// Convert an octree leaf hit into the unit voxel and face where the ray
// enters the leaf.
func leafHit(leaf octree.Node, t float32, origin, dir types.Vec3) Hit {
	point := origin.Add(dir.Mul(t))
	min, max := leaf.Bounds()

	hit := Hit{Point: point, T: t}
	voxel := point.Floor()
	for axis := 0; axis < 3; axis++ {
		v := voxel[axis]
		if lo := leaf.Position[axis]; v < lo {
			v = lo
		}
		if hi := leaf.Position[axis] + int32(leaf.Size) - 1; v > hi {
			v = hi
		}
		hit.Voxel[axis] = v
	}

	if t == 0 {
		return hit
	}

	// The entry face is the one the hit point lies closest to among the
	// faces the ray can enter through.
	best := float32(-1)
	for axis := 0; axis < 3; axis++ {
		var dist float32
		var normal int32
		switch {
		case dir[axis] > 0:
			dist, normal = point[axis]-min[axis], -1
		case dir[axis] < 0:
			dist, normal = max[axis]-point[axis], 1
		default:
			continue
		}
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < best {
			best = dist
			hit.Normal = types.IVec3{}
			hit.Normal[axis] = normal
		}
	}
	return hit
}
