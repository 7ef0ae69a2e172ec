// Package audio maps scene motion to sound: movement speeds feed
// oscillator channels, the facing side of the scene picks the melody
// scale, and everything is gated so a still scene stays quiet.
package audio

import (
	"cogentcore.org/core/math32"

	"github.com/lumascene/handwave/pkg/gesture"
)

// Speeds are the per-frame movement rates, in units per second.
type Speeds struct {
	Rotation float32
	Pan      float32
	Zoom     float32
}

// Total sums the three rates.
func (s Speeds) Total() float32 {
	return s.Rotation + s.Pan + s.Zoom
}

// ComputeSpeeds derives movement rates from two consecutive
// transforms. Rotation sums absolute per-axis deltas, pan takes the
// Euclidean distance, zoom the absolute delta, each divided by the
// elapsed seconds. A zero or negative dt yields all-zero speeds.
func ComputeSpeeds(prev, cur gesture.Transform, dt float32) Speeds {
	if dt <= 0 {
		return Speeds{}
	}
	dr := cur.Rotation.Sub(prev.Rotation)
	return Speeds{
		Rotation: (math32.Abs(dr.X) + math32.Abs(dr.Y) + math32.Abs(dr.Z)) / dt,
		Pan:      cur.Pan.Sub(prev.Pan).Length() / dt,
		Zoom:     math32.Abs(cur.Zoom-prev.Zoom) / dt,
	}
}
