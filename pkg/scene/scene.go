// Package scene holds the 3D content the gestures steer: a procedural
// scatter of primitives over a ground grid, plus the camera and the
// facing-side computation shared by the audio mapper.
package scene

import "cogentcore.org/core/math32"

// Kind identifies a primitive shape.
type Kind string

const (
	KindCube     Kind = "cube"
	KindSphere   Kind = "sphere"
	KindCylinder Kind = "cylinder"
	KindCone     Kind = "cone"
)

// Asset is one generated primitive.
type Asset struct {
	Kind     Kind           `json:"kind"`
	Position math32.Vector3 `json:"position"`
	Scale    float32        `json:"scale"`
	Rotation math32.Vector3 `json:"rotation"`
	Color    string         `json:"color"`
}

// Segment is one ground-grid line.
type Segment struct {
	From math32.Vector3 `json:"from"`
	To   math32.Vector3 `json:"to"`
}

// Scene is the generated content. It is immutable after generation;
// the session applies the live transform at render time instead of
// mutating the assets.
type Scene struct {
	Seed   int64     `json:"seed"`
	Assets []Asset   `json:"assets"`
	Grid   []Segment `json:"grid"`
}

// Camera frames the scene.
type Camera struct {
	Position math32.Vector3
	LookAt   math32.Vector3
	Up       math32.Vector3
	// FOV is the vertical field of view in degrees.
	FOV  float32
	Near float32
	Far  float32
}

// DefaultCamera looks at the origin from above and in front, on the
// +z side.
func DefaultCamera() Camera {
	return Camera{
		Position: math32.Vec3(0, 4, 10),
		LookAt:   math32.Vec3(0, 1, 0),
		Up:       math32.Vec3(0, 1, 0),
		FOV:      40,
		Near:     0.5,
		Far:      100,
	}
}
