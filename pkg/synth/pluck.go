package synth

import (
	"math"

	"github.com/faiface/beep"
)

// pluckDecay is the seconds the envelope takes to fall to 1/e.
const pluckDecay = 0.18

// Pluck is the melody voice: a sine burst with a fast attack and an
// exponential decay, retriggered per note. Between notes it streams
// silence, so it can sit in the mixer permanently.
type Pluck struct {
	sr    beep.SampleRate
	freq  float64
	phase float64

	env       float64
	attacking bool
	attack    float64
	decay     float64
}

// NewPluck sizes the envelope for the sample rate.
func NewPluck(sr beep.SampleRate) *Pluck {
	attackSamples := float64(sr) * 0.005
	return &Pluck{
		sr:     sr,
		attack: 1 / attackSamples,
		decay:  math.Exp(-1 / (pluckDecay * float64(sr))),
	}
}

// Trigger starts a new note at freq, restarting the envelope.
func (p *Pluck) Trigger(freq float64) {
	p.freq = freq
	p.attacking = true
}

// Stream advances the envelope and waveform.
func (p *Pluck) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if p.attacking {
			p.env += p.attack
			if p.env >= 1 {
				p.env = 1
				p.attacking = false
			}
		} else {
			p.env *= p.decay
		}

		var v float64
		if p.env > 1e-4 {
			p.phase += p.freq / float64(p.sr)
			if p.phase >= 1 {
				p.phase -= 1
			}
			// A touch of second harmonic keeps the pluck from
			// sounding like a bare test tone.
			v = p.env * (math.Sin(2*math.Pi*p.phase) + 0.3*math.Sin(4*math.Pi*p.phase)) / 1.3
		}
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

// Err is always nil.
func (p *Pluck) Err() error { return nil }

// Active reports whether the envelope is still audible.
func (p *Pluck) Active() bool {
	return p.attacking || p.env > 1e-4
}
