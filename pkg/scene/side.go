package scene

import "cogentcore.org/core/math32"

// Side is the face of the scene group currently pointed at the camera.
// Each side selects its own musical scale in the audio mapper.
type Side int

const (
	SideCenter Side = iota
	SideFront
	SideBack
	SideLeft
	SideRight
	SideTop
	SideBottom
)

var sideNames = [...]string{"center", "front", "back", "left", "right", "top", "bottom"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return "center"
	}
	return sideNames[s]
}

// sideNormals are the six axis-aligned face normals in group space,
// with +z facing the default camera.
var sideNormals = [6]struct {
	side   Side
	normal math32.Vector3
}{
	{SideFront, math32.Vec3(0, 0, 1)},
	{SideBack, math32.Vec3(0, 0, -1)},
	{SideRight, math32.Vec3(1, 0, 0)},
	{SideLeft, math32.Vec3(-1, 0, 0)},
	{SideTop, math32.Vec3(0, 1, 0)},
	{SideBottom, math32.Vec3(0, -1, 0)},
}

// DefaultCenterThreshold is the minimum alignment a face needs before
// it counts as facing the camera; below it the scene reads as edge-on
// and the neutral center scale plays.
const DefaultCenterThreshold = 0.6

// Facing rotates the six face normals by the group rotation (Euler
// XYZ) and returns the side whose normal best aligns with the
// direction from the group position toward the camera. Alignment below
// threshold returns SideCenter.
func Facing(rotation, groupPos, camPos math32.Vector3, threshold float32) Side {
	dir := camPos.Sub(groupPos)
	if dir.Length() == 0 {
		return SideCenter
	}
	dir = dir.Normal()

	q := math32.Quat{}
	q.SetFromEuler(rotation)

	best := SideCenter
	bestDot := threshold
	for _, sn := range sideNormals {
		d := sn.normal.MulQuat(q).Dot(dir)
		if d > bestDot {
			best = sn.side
			bestDot = d
		}
	}
	return best
}
