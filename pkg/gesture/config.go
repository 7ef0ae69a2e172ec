package gesture

import (
	"math"

	"cogentcore.org/core/math32"
)

// Config holds the gesture mapping constants. The defaults are the
// tuned demo values; tests construct reduced configs where convenient.
type Config struct {
	// WarmupFrames is how many wrist samples a calibration anchor
	// averages before offsets become active.
	WarmupFrames int

	// OffsetScale multiplies (wrist - anchor) per axis to produce the
	// pan offset. Y is negative so raising the hand pans the scene up.
	OffsetScale math32.Vector3

	// RotXRange maps vertical wrist position (0..1 around center 0.5)
	// onto x-rotation; π gives a ±π/2 swing.
	RotXRange float32
	// RotYRange maps horizontal wrist position onto y-rotation; 2π
	// gives a ±π swing.
	RotYRange float32
	// PinchRotZScale converts the rotation hand's pinch distance to
	// z-rotation.
	PinchRotZScale float32

	// ZoomBase and ZoomScale map the zoom hand's pinch distance to the
	// zoom target: base + distance*scale. The result is unclamped; a
	// wide pinch is allowed to push the camera inside the scene.
	ZoomBase  float32
	ZoomScale float32

	// PanBlend is the exponential blend factor applied to the pan
	// target itself each update.
	PanBlend float32
	// StepBlend is the per-frame factor the displayed transform moves
	// toward its target.
	StepBlend float32

	// Auto-rotation used when no hand controls the scene.
	SpinRate float32
	TiltRate float32
	TiltAmp  float32
}

// DefaultConfig returns the demo tuning.
func DefaultConfig() Config {
	return Config{
		WarmupFrames:   10,
		OffsetScale:    math32.Vec3(10, -10, 5),
		RotXRange:      math.Pi,
		RotYRange:      2 * math.Pi,
		PinchRotZScale: 10,
		ZoomBase:       0.5,
		ZoomScale:      12.5,
		PanBlend:       0.1,
		StepBlend:      0.1,
		SpinRate:       0.3,
		TiltRate:       0.5,
		TiltAmp:        0.15,
	}
}
