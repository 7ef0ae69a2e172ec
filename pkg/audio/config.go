package audio

import (
	"time"

	"github.com/lumascene/handwave/pkg/scene"
)

// Config tunes the motion-to-sound mapping.
type Config struct {
	// Smoothing is the per-channel EMA factor applied to raw speeds.
	Smoothing float32
	// Debounce is the minimum gap between retriggers of one channel.
	Debounce time.Duration
	// MinTotalSpeed gates the whole engine: below it the scene counts
	// as still and every channel is silenced.
	MinTotalSpeed float32
	// MelodySpeed is the extra movement needed before the facing
	// side's note sequence starts looping.
	MelodySpeed float32
	// CenterThreshold is the facing-side alignment cutoff.
	CenterThreshold float32

	// Per-channel linear frequency mappings: freq = Base + speed*Scale.
	RotationFreqBase  float64
	RotationFreqScale float64
	PanFreqBase       float64
	PanFreqScale      float64
	ZoomFreqBase      float64
	ZoomFreqScale     float64

	// Volume mapping: db = FloorDB + speed*ScaleDB, clipped at 0 so a
	// violent gesture can reach but never exceed unity gain.
	FloorDB float64
	ScaleDB float64
}

// DefaultConfig returns the demo tuning.
func DefaultConfig() Config {
	return Config{
		Smoothing:         0.15,
		Debounce:          100 * time.Millisecond,
		MinTotalSpeed:     0.05,
		MelodySpeed:       0.25,
		CenterThreshold:   scene.DefaultCenterThreshold,
		RotationFreqBase:  180,
		RotationFreqScale: 80,
		PanFreqBase:       140,
		PanFreqScale:      60,
		ZoomFreqBase:      90,
		ZoomFreqScale:     50,
		FloorDB:           -36,
		ScaleDB:           24,
	}
}
