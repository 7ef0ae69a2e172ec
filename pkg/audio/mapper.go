package audio

import (
	"time"

	"cogentcore.org/core/math32"

	"github.com/lumascene/handwave/pkg/gesture"
	"github.com/lumascene/handwave/pkg/scene"
	"github.com/lumascene/handwave/pkg/synth"
)

// Engine is the synthesizer surface the mapper drives. *synth.Engine
// satisfies it; tests substitute a recorder.
type Engine interface {
	SetEnabled(on bool)
	SetChannel(ch synth.Channel, freq, db float64)
	TriggerNote(freq float64)
	StartSequence(name string)
	StopSequence()
}

// movement channels the mapper meters. The melody channel is driven
// by side detection instead and has no meter slot.
const (
	meterRotation = 0
	meterPan      = 1
	meterZoom     = 2
	numMeters     = 3
)

// Mapper converts motion into engine commands. It keeps per-channel
// EMA meters and last-trigger times in fixed arrays; the channel set
// never grows. Owned by the session loop goroutine.
type Mapper struct {
	cfg    Config
	engine Engine

	smoothed    [numMeters]float32
	lastTrigger [numMeters]time.Time

	tracking bool
	side     scene.Side
	melodyOn bool
}

// NewMapper wires the mapper to an engine.
func NewMapper(cfg Config, engine Engine) *Mapper {
	return &Mapper{cfg: cfg, engine: engine, side: scene.SideCenter}
}

// SetTracking tells the mapper whether a session is actively tracking
// hands. Sound is hard-gated off while not tracking.
func (m *Mapper) SetTracking(on bool) {
	m.tracking = on
	if !on {
		m.engine.SetEnabled(false)
		m.engine.StopSequence()
		m.melodyOn = false
	}
}

// Side returns the last facing side, for status reporting.
func (m *Mapper) Side() scene.Side {
	return m.side
}

// Update processes one frame of motion: smooth the speeds, gate the
// engine, push channel settings respecting the per-channel debounce,
// and keep the facing side's melody running while movement lasts.
func (m *Mapper) Update(prev, cur gesture.Transform, dt float32, cam scene.Camera, now time.Time) {
	raw := ComputeSpeeds(prev, cur, dt)

	m.smoothed[meterRotation] += (raw.Rotation - m.smoothed[meterRotation]) * m.cfg.Smoothing
	m.smoothed[meterPan] += (raw.Pan - m.smoothed[meterPan]) * m.cfg.Smoothing
	m.smoothed[meterZoom] += (raw.Zoom - m.smoothed[meterZoom]) * m.cfg.Smoothing

	total := m.smoothed[meterRotation] + m.smoothed[meterPan] + m.smoothed[meterZoom]
	enabled := m.tracking && total > m.cfg.MinTotalSpeed
	m.engine.SetEnabled(enabled)

	if enabled {
		m.pushChannel(meterRotation, synth.ChanRotation, m.cfg.RotationFreqBase, m.cfg.RotationFreqScale, now)
		m.pushChannel(meterPan, synth.ChanPan, m.cfg.PanFreqBase, m.cfg.PanFreqScale, now)
		m.pushChannel(meterZoom, synth.ChanZoom, m.cfg.ZoomFreqBase, m.cfg.ZoomFreqScale, now)
	}

	// The group sits at the origin; pan happens inside the render
	// transform, so side detection always measures from there.
	m.side = scene.Facing(cur.Rotation, math32.Vector3{}, cam.Position, m.cfg.CenterThreshold)

	wantMelody := enabled && total > m.cfg.MelodySpeed
	switch {
	case wantMelody:
		// StartSequence is a no-op for the already-playing side and
		// replaces the sequence when the side switched.
		m.engine.StartSequence(m.side.String())
		m.melodyOn = true
	case m.melodyOn:
		m.engine.StopSequence()
		m.melodyOn = false
	}
}

// pushChannel maps one meter to its channel, honoring the debounce.
func (m *Mapper) pushChannel(meter int, ch synth.Channel, base, scale float64, now time.Time) {
	if now.Sub(m.lastTrigger[meter]) < m.cfg.Debounce {
		return
	}
	speed := float64(m.smoothed[meter])
	freq := base + speed*scale
	db := m.cfg.FloorDB + speed*m.cfg.ScaleDB
	if db > 0 {
		db = 0
	}
	m.engine.SetChannel(ch, freq, db)
	m.lastTrigger[meter] = now
}

// Reset clears meters and debounce state on session stop.
func (m *Mapper) Reset() {
	m.smoothed = [numMeters]float32{}
	m.lastTrigger = [numMeters]time.Time{}
	m.side = scene.SideCenter
	m.SetTracking(false)
}
