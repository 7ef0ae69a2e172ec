package synth

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// Channel identifies one fixed mixer slot. The set is closed, so
// per-channel state lives in fixed arrays.
type Channel int

const (
	ChanRotation Channel = iota
	ChanPan
	ChanZoom
	ChanMelody
	NumChannels
)

var channelNames = [NumChannels]string{"rotation", "pan", "zoom", "melody"}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return "unknown"
	}
	return channelNames[c]
}

// Config tunes the engine.
type Config struct {
	// SampleRate for every streamer; 48kHz matches the opus encoder
	// on the recording path.
	SampleRate int
	// MasterDB is the headroom on the summed mix.
	MasterDB float64
	// SilenceFloorDB is the level at or below which a channel is
	// muted outright instead of played very quietly.
	SilenceFloorDB float64
	// NoteInterval is the melody sequencer spacing.
	NoteInterval time.Duration
}

// DefaultConfig returns the demo tuning.
func DefaultConfig() Config {
	return Config{
		SampleRate:     48000,
		MasterDB:       -6,
		SilenceFloorDB: -60,
		NoteInterval:   400 * time.Millisecond,
	}
}

// channelState is one mixer slot: a generator behind a volume stage.
type channelState struct {
	osc    *Oscillator
	pluck  *Pluck
	vol    *effects.Volume
	lastDB float64
}

// Engine mixes the fixed channels into a master volume stage. All
// mutation goes through speaker.Lock so the audio goroutine never sees
// a torn update; the lock degrades to a plain mutex when no speaker is
// running (tests, -mute).
type Engine struct {
	cfg      Config
	channels [NumChannels]*channelState
	mixer    *beep.Mixer
	master   *effects.Volume
	enabled  bool
	seq      *sequence
}

// NewEngine builds the mixer graph: sine for rotation, triangle for
// pan, sawtooth for zoom, pluck for melody.
func NewEngine(cfg Config) *Engine {
	sr := beep.SampleRate(cfg.SampleRate)
	e := &Engine{cfg: cfg, mixer: &beep.Mixer{}}

	waves := [NumChannels]Waveform{WaveSine, WaveTriangle, WaveSaw, WaveSine}
	for ch := Channel(0); ch < NumChannels; ch++ {
		st := &channelState{lastDB: cfg.SilenceFloorDB}
		var src beep.Streamer
		if ch == ChanMelody {
			st.pluck = NewPluck(sr)
			src = st.pluck
		} else {
			st.osc = NewOscillator(sr, waves[ch], 220)
			src = st.osc
		}
		st.vol = &effects.Volume{Streamer: src, Base: 10, Volume: cfg.SilenceFloorDB / 20, Silent: true}
		e.channels[ch] = st
		e.mixer.Add(st.vol)
	}

	e.master = &effects.Volume{Streamer: e.mixer, Base: 10, Volume: cfg.MasterDB / 20}
	return e
}

// Output is the stream to hand to the speaker, usually through the
// recorder tap first.
func (e *Engine) Output() beep.Streamer {
	return e.master
}

// SampleRate reports the engine rate for speaker initialization.
func (e *Engine) SampleRate() beep.SampleRate {
	return beep.SampleRate(e.cfg.SampleRate)
}

// SetEnabled gates all sound. Disabling silences every channel but
// keeps their settings, so re-enabling restores the previous mix.
func (e *Engine) SetEnabled(on bool) {
	speaker.Lock()
	defer speaker.Unlock()
	if e.enabled == on {
		return
	}
	e.enabled = on
	for _, st := range e.channels {
		st.vol.Silent = !on || st.lastDB <= e.cfg.SilenceFloorDB
	}
}

// Enabled reports the gate state.
func (e *Engine) Enabled() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return e.enabled
}

// SetChannel updates a channel's frequency and level. The melody
// channel ignores freq; its pitch comes from TriggerNote. Levels are
// decibels and are expected to be clipped at 0 by the caller.
func (e *Engine) SetChannel(ch Channel, freq, db float64) {
	if ch < 0 || ch >= NumChannels {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	st := e.channels[ch]
	if st.osc != nil {
		st.osc.SetFreq(freq)
	}
	st.lastDB = db
	st.vol.Volume = db / 20
	st.vol.Silent = !e.enabled || db <= e.cfg.SilenceFloorDB
}

// TriggerNote plucks the melody voice at freq.
func (e *Engine) TriggerNote(freq float64) {
	speaker.Lock()
	defer speaker.Unlock()
	e.channels[ChanMelody].pluck.Trigger(freq)
}

// Close stops the sequencer. Streamers need no teardown.
func (e *Engine) Close() error {
	e.StopSequence()
	return nil
}
