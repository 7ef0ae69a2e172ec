// Package gesture turns hand landmark sets into scene transform
// targets: wrist position drives rotation, pinch distance drives zoom,
// calibrated wrist offsets drive pan. A State steps the displayed
// transform toward the targets each frame.
package gesture

import "cogentcore.org/core/math32"

// Transform is the full scene transform: pan offset, Euler XYZ
// rotation in radians and a uniform zoom scale.
type Transform struct {
	Pan      math32.Vector3 `json:"pan"`
	Rotation math32.Vector3 `json:"rotation"`
	Zoom     float32        `json:"zoom"`
}

// Identity returns the neutral transform the scene starts and resets to.
func Identity() Transform {
	return Transform{Zoom: 1}
}

// Quat returns the rotation as a quaternion (XYZ Euler order).
func (t Transform) Quat() math32.Quat {
	q := math32.Quat{}
	q.SetFromEuler(t.Rotation)
	return q
}

func lerp(a, b, f float32) float32 {
	return a + (b-a)*f
}

func lerpVec(a, b math32.Vector3, f float32) math32.Vector3 {
	return math32.Vec3(lerp(a.X, b.X, f), lerp(a.Y, b.Y, f), lerp(a.Z, b.Z, f))
}
