package synth

import (
	"context"
	"time"

	"github.com/faiface/beep/speaker"
)

// sequence is a running melody loop.
type sequence struct {
	name   string
	cancel context.CancelFunc
}

// StartSequence loops the named scale on the melody voice, one note
// per NoteInterval starting immediately. Starting the scale that is
// already playing is a no-op; starting a different one replaces it.
func (e *Engine) StartSequence(name string) {
	speaker.Lock()
	if e.seq != nil && e.seq.name == name {
		speaker.Unlock()
		return
	}
	e.stopSequenceLocked()

	ctx, cancel := context.WithCancel(context.Background())
	e.seq = &sequence{name: name, cancel: cancel}
	speaker.Unlock()

	go e.runSequence(ctx, ScaleByName(name))
}

// StopSequence halts the melody loop. The current pluck rings out.
func (e *Engine) StopSequence() {
	speaker.Lock()
	e.stopSequenceLocked()
	speaker.Unlock()
}

func (e *Engine) stopSequenceLocked() {
	if e.seq != nil {
		e.seq.cancel()
		e.seq = nil
	}
}

// CurrentSequence returns the playing scale name, or empty.
func (e *Engine) CurrentSequence() string {
	speaker.Lock()
	defer speaker.Unlock()
	if e.seq == nil {
		return ""
	}
	return e.seq.name
}

func (e *Engine) runSequence(ctx context.Context, scale Scale) {
	if len(scale.Notes) == 0 {
		return
	}

	e.TriggerNote(scale.Notes[0])
	idx := 1

	ticker := time.NewTicker(e.cfg.NoteInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.TriggerNote(scale.Notes[idx%len(scale.Notes)])
			idx++
		}
	}
}
