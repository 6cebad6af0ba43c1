package types

import (
	"math"

	"golang.org/x/image/math/f32"
)

const floatCmpEpsilon = 1e-6

type Vec3 f32.Vec3

// An integer lattice coordinate. Voxel (x, y, z) covers [x, x+1) along each axis.
type IVec3 [3]int32

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Define an integer lattice coordinate.
func IXYZ(x, y, z int32) IVec3 {
	return IVec3{x, y, z}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Get 3 component vector length.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

// Normalize 3 component vector. A zero length vector normalizes to the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < floatCmpEpsilon {
		return Vec3{}
	}
	l = 1.0 / l
	return Vec3{v[0] * l, v[1] * l, v[2] * l}
}

// Calculate dot product of 2 vectors
func (v Vec3) Dot(v2 Vec3) float32 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Check whether all components are zero.
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Get the lattice cell that contains this point.
func (v Vec3) Floor() IVec3 {
	return IVec3{
		int32(math.Floor(float64(v[0]))),
		int32(math.Floor(float64(v[1]))),
		int32(math.Floor(float64(v[2]))),
	}
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc max component from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}

// Add a lattice offset.
func (v IVec3) Add(v2 IVec3) IVec3 {
	return IVec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a lattice offset.
func (v IVec3) Sub(v2 IVec3) IVec3 {
	return IVec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Convert to a float vector pointing at the cell's min corner.
func (v IVec3) Vec3() Vec3 {
	return Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Get the point at the center of the cell.
func (v IVec3) Center() Vec3 {
	return Vec3{float32(v[0]) + 0.5, float32(v[1]) + 0.5, float32(v[2]) + 0.5}
}
