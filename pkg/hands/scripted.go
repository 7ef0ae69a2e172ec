package hands

import (
	"time"

	"github.com/chewxy/math32"
)

// ScriptedDetector synthesizes one hand tracing a slow circle with an
// oscillating pinch. It ignores frame content and never fails, which
// makes it useful for demos without a model file and for exercising
// the full pipeline in tests.
type ScriptedDetector struct {
	start time.Time
}

// NewScriptedDetector returns a detector whose script starts at the
// first Detect call.
func NewScriptedDetector() *ScriptedDetector {
	return &ScriptedDetector{}
}

// Detect returns one synthetic right hand positioned by elapsed time.
func (d *ScriptedDetector) Detect(frame []byte, timestamp time.Time) ([]Hand, error) {
	if d.start.IsZero() {
		d.start = timestamp
	}
	t := float32(timestamp.Sub(d.start).Seconds())

	cx := 0.5 + 0.2*math32.Cos(t*0.6)
	cy := 0.5 + 0.15*math32.Sin(t*0.6)
	pinch := 0.03 + 0.05*(0.5+0.5*math32.Sin(t*1.3))

	var h Hand
	h.Label = LabelRight
	h.Score = 0.99
	h.Points[Wrist] = Point{X: cx, Y: cy + 0.12}
	h.Points[ThumbTip] = Point{X: cx - pinch/2, Y: cy}
	h.Points[IndexTip] = Point{X: cx + pinch/2, Y: cy}

	// Fill the remaining joints with a plausible splay so overlays
	// and bounding boxes look like a hand rather than three dots.
	for l := 0; l < NumLandmarks; l++ {
		if l == Wrist || l == ThumbTip || l == IndexTip {
			continue
		}
		a := float32(l) / NumLandmarks * math32.Pi
		r := 0.04 + 0.03*float32(l%4)/4
		h.Points[l] = Point{X: cx + r*math32.Cos(a), Y: cy - r*math32.Sin(a)*0.8}
	}

	return []Hand{h}, nil
}

// Close is a no-op.
func (d *ScriptedDetector) Close() error { return nil }
