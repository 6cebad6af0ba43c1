// Package dda implements incremental voxel traversal (Amanatides & Woo) over
// any point occupancy query.
package dda

import (
	"math"

	"github.com/achilleasa/octant/types"
)

var posInf = float32(math.Inf(1))

// Occupancy is implemented by voxel stores that can answer point queries.
// Both octree.Tree and brickgrid.Grid satisfy it.
type Occupancy interface {
	IsSolidAt(pos types.IVec3) bool
}

// The OccupancyFunc type is an adapter to allow the use of ordinary
// functions as occupancy queries.
type OccupancyFunc func(pos types.IVec3) bool

// IsSolidAt calls f(pos).
func (f OccupancyFunc) IsSolidAt(pos types.IVec3) bool {
	return f(pos)
}

// Bounds is a half-open voxel range [Min, Max).
type Bounds struct {
	Min types.IVec3
	Max types.IVec3
}

// Check whether a walk stepping by step from voxel can never re-enter the
// bounds.
func (b *Bounds) leaving(voxel, step types.IVec3) bool {
	for axis := 0; axis < 3; axis++ {
		if voxel[axis] < b.Min[axis] && step[axis] <= 0 {
			return true
		}
		if voxel[axis] >= b.Max[axis] && step[axis] >= 0 {
			return true
		}
	}
	return false
}

// The first solid voxel found by a walk.
type Hit struct {
	Voxel types.IVec3

	// Point where the ray enters the voxel.
	Point types.Vec3

	// Ray parameter of Point in multiples of the ray direction.
	T float32

	// Outward normal of the face the ray entered through. Zero if the ray
	// starts inside a solid voxel.
	Normal types.IVec3
}

// Walk the ray origin + t*dir voxel by voxel and return the first solid
// voxel together with the point where the ray enters it. The walk gives up
// once t exceeds maxDistance, which must be finite.
func Step(origin, dir types.Vec3, maxDistance float32, occ Occupancy) (types.IVec3, types.Vec3, bool) {
	hit, ok := Cast(origin, dir, maxDistance, occ, nil)
	if !ok {
		return types.IVec3{}, types.Vec3{}, false
	}
	return hit.Voxel, hit.Point, true
}

// Walk the ray like Step and also report the hit parameter and entry face.
// If bounds is not nil the walk also stops as soon as the current voxel lies
// outside bounds and the ray moves away from them, in which case maxDistance
// may be +Inf.
func Cast(origin, dir types.Vec3, maxDistance float32, occ Occupancy, bounds *Bounds) (Hit, bool) {
	voxel := origin.Floor()
	if occ.IsSolidAt(voxel) {
		return Hit{Voxel: voxel, Point: origin}, true
	}
	if dir.IsZero() {
		return Hit{}, false
	}

	var (
		step   types.IVec3
		tDelta types.Vec3
		tMax   types.Vec3
	)
	for axis := 0; axis < 3; axis++ {
		d := dir[axis]
		if d == 0 {
			tDelta[axis], tMax[axis] = posInf, posInf
			continue
		}

		tDelta[axis] = 1 / float32(math.Abs(float64(d)))
		floor := float32(voxel[axis])
		if d > 0 {
			step[axis] = 1
			tMax[axis] = tDelta[axis] * (1 - origin[axis] + floor)
		} else {
			step[axis] = -1
			tMax[axis] = tDelta[axis] * (origin[axis] - floor)
		}
	}

	if bounds != nil && bounds.leaving(voxel, step) {
		return Hit{}, false
	}

	for {
		// Ties advance z before y before x.
		var axis int
		if tMax[0] < tMax[1] {
			if tMax[0] < tMax[2] {
				axis = 0
			} else {
				axis = 2
			}
		} else if tMax[1] < tMax[2] {
			axis = 1
		} else {
			axis = 2
		}

		traveled := tMax[axis]
		if traveled > maxDistance {
			return Hit{}, false
		}

		voxel[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		if bounds != nil && bounds.leaving(voxel, step) {
			return Hit{}, false
		}

		if occ.IsSolidAt(voxel) {
			var normal types.IVec3
			normal[axis] = -step[axis]
			return Hit{
				Voxel:  voxel,
				Point:  origin.Add(dir.Mul(traveled)),
				T:      traveled,
				Normal: normal,
			}, true
		}
	}
}
