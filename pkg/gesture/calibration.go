package gesture

import "cogentcore.org/core/math32"

// Anchor is one hand role's calibration reference: a running average
// of the wrist position over the warm-up window. Once the window is
// full the anchor freezes and offsets become active.
type Anchor struct {
	sum     math32.Vector3
	samples int
}

// Observe feeds one wrist sample. Samples past the warm-up window are
// ignored so the anchor stays where calibration finished.
func (a *Anchor) Observe(wrist math32.Vector3, warmup int) {
	if a.samples >= warmup {
		return
	}
	a.sum.SetAdd(wrist)
	a.samples++
}

// Ready reports whether the warm-up window is full.
func (a *Anchor) Ready(warmup int) bool {
	return a.samples >= warmup
}

// Value returns the averaged anchor position. Zero before any sample.
func (a *Anchor) Value() math32.Vector3 {
	if a.samples == 0 {
		return math32.Vector3{}
	}
	return a.sum.DivScalar(float32(a.samples))
}

// Offset returns the scaled pan offset for the given wrist position.
// During warm-up the offset is exactly zero, so a newly acquired hand
// cannot yank the scene.
func (a *Anchor) Offset(wrist math32.Vector3, scale math32.Vector3, warmup int) math32.Vector3 {
	if !a.Ready(warmup) {
		return math32.Vector3{}
	}
	d := wrist.Sub(a.Value())
	return math32.Vec3(d.X*scale.X, d.Y*scale.Y, d.Z*scale.Z)
}

// Reset clears the anchor, forcing a fresh warm-up.
func (a *Anchor) Reset() {
	a.sum = math32.Vector3{}
	a.samples = 0
}
