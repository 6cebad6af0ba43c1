package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/octant/types"
)

// Stores the ray directions at the four corners of the camera frustum in
// TL, TR, BL, BR order. Per pixel rays are generated by interpolating the
// corner rays.
type Frustum [4]types.Vec3

func (fr Frustum) String() string {
	return fmt.Sprintf(
		"Frustum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// Get the normalized ray direction through the center of pixel (x, y) of a
// w x h frame. Pixel (0, 0) is the top-left corner.
func (fr Frustum) Ray(x, y, w, h int) types.Vec3 {
	px := (float32(x) + 0.5) / float32(w)
	py := (float32(y) + 0.5) / float32(h)

	top := lerp(fr[0], fr[1], px)
	bottom := lerp(fr[2], fr[3], px)
	return lerp(top, bottom, py).Normalize()
}

func lerp(a, b types.Vec3, t float32) types.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Pending rotations (radians) applied by Update.
	Pitch float32
	Yaw   float32

	// Vertical field of view in degrees.
	FOV float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// Apply pending pitch/yaw rotations to the look-at point and reset them.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	pitchAxis := dir.Cross(c.Up)
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
	yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()

	// Update direction
	dir = orientQuat.Rotate(dir)
	c.LookAt = c.Position.Add(dir)
	c.Pitch, c.Yaw = 0, 0
}

// Calculate the corner rays of the view frustum for the given aspect ratio
// (width / height).
func (c *Camera) Frustum(aspect float32) Frustum {
	forward := c.LookAt.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	halfH := float32(math.Tan(float64(c.FOV) * math.Pi / 360))
	halfW := halfH * aspect
	r := right.Mul(halfW)
	u := up.Mul(halfH)

	return Frustum{
		forward.Sub(r).Add(u),
		forward.Add(r).Add(u),
		forward.Sub(r).Sub(u),
		forward.Add(r).Sub(u),
	}
}

// Get the ray direction through pixel (x, y) of a w x h frame.
func (c *Camera) Ray(x, y, w, h int) types.Vec3 {
	return c.Frustum(float32(w)/float32(h)).Ray(x, y, w, h)
}
