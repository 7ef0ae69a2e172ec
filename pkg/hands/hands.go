// Package hands provides hand landmark detection for gesture control.
//
// Landmarks follow the MediaPipe 21-point convention: normalized
// x,y in [0,1] relative to the frame, z roughly normalized depth with
// the wrist near zero and negative values toward the camera.
package hands

import "github.com/chewxy/math32"

// Hand landmark indices following the MediaPipe convention.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels reported by the detector. An empty label means the
// model did not produce a confident side.
const (
	LabelLeft  = "Left"
	LabelRight = "Right"
)

// Point is a single landmark position.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Dist returns the 3D Euclidean distance to q.
func (p Point) Dist(q Point) float32 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Hand is one detected hand: 21 landmarks plus metadata.
// A fresh set is produced every processed frame; there is no identity
// across frames beyond slice order.
type Hand struct {
	Points [NumLandmarks]Point `json:"points"`
	Label  string              `json:"label,omitempty"`
	Score  float32             `json:"score"`
}

// WristPos returns the wrist landmark.
func (h *Hand) WristPos() Point {
	return h.Points[Wrist]
}

// PinchDistance returns the 3D distance between the thumb tip and the
// index fingertip, the primary pinch gesture measure.
func (h *Hand) PinchDistance() float32 {
	return h.Points[ThumbTip].Dist(h.Points[IndexTip])
}

// IsLeft reports whether the hand is labeled "Left".
func (h *Hand) IsLeft() bool { return h.Label == LabelLeft }

// IsRight reports whether the hand is labeled "Right".
func (h *Hand) IsRight() bool { return h.Label == LabelRight }

// connections lists the landmark index pairs forming the hand skeleton,
// used by Draw and by debug tooling.
var connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}
