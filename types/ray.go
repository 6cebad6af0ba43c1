package types

import "math"

// A half-line starting at Origin. Dir is not required to be normalized;
// all ray parameters t are measured in multiples of Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Get the point at parameter t.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Intersect the ray with an axis aligned box using the slab test. It returns
// the entry parameter clamped to 0 when the origin lies inside the box.
//
// Zero direction components are handled without producing NaNs: a ray
// parallel to a slab either lies within it for all t or misses the box.
func (r Ray) IntersectBox(min, max Vec3) (float32, bool) {
	tEnter := float32(math.Inf(-1))
	tExit := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Dir[axis]
		if d == 0 {
			if o < min[axis] || o >= max[axis] {
				return 0, false
			}
			continue
		}

		inv := 1 / d
		t0 := (min[axis] - o) * inv
		t1 := (max[axis] - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
	}

	if tExit < tEnter || tExit <= 0 {
		return 0, false
	}
	if tEnter < 0 {
		tEnter = 0
	}
	return tEnter, true
}
