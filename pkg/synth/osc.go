// Package synth is the sound engine behind the gesture audio: three
// continuous oscillator channels plus a plucked melody voice, mixed on
// beep and tappable for recording.
package synth

import (
	"math"

	"github.com/faiface/beep"
)

// Waveform selects an oscillator shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
)

// Oscillator is a beep.Streamer producing one continuous waveform.
// Frequency changes glide over a short window so gesture jitter sounds
// like vibrato instead of clicks. Mutate only under speaker.Lock.
type Oscillator struct {
	sr    beep.SampleRate
	wave  Waveform
	freq  float64
	cur   float64
	glide float64
	phase float64
}

// NewOscillator starts silent-phase at the given frequency.
func NewOscillator(sr beep.SampleRate, wave Waveform, freq float64) *Oscillator {
	return &Oscillator{
		sr:    sr,
		wave:  wave,
		freq:  freq,
		cur:   freq,
		glide: 0.002,
	}
}

// SetFreq sets the glide target frequency.
func (o *Oscillator) SetFreq(f float64) {
	o.freq = f
}

// Stream fills samples with the waveform, gliding the instantaneous
// frequency toward the target each sample.
func (o *Oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		o.cur += (o.freq - o.cur) * o.glide
		o.phase += o.cur / float64(o.sr)
		if o.phase >= 1 {
			o.phase -= 1
		}
		v := sample(o.wave, o.phase)
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

// Err is always nil; oscillators cannot fail.
func (o *Oscillator) Err() error { return nil }

// sample evaluates one waveform at phase p in [0,1).
func sample(w Waveform, p float64) float64 {
	switch w {
	case WaveTriangle:
		return 1 - 4*math.Abs(p-0.5)
	case WaveSaw:
		return 2*p - 1
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
