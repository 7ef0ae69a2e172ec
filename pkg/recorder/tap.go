package recorder

import (
	"sync"

	"github.com/faiface/beep"
)

// pcmSink receives tapped audio. WritePCM runs on the speaker
// goroutine, so implementations keep it short.
type pcmSink interface {
	WritePCM(samples [][2]float64)
	Close() error
}

// Tap is the persistent capture point between the synthesizer and the
// speaker. It exists once per process; recording sessions swap their
// sink in and out while the stream keeps flowing. With no sink set the
// tap is a pure pass-through.
type Tap struct {
	mu   sync.Mutex
	sink pcmSink
}

// NewTap returns an unconnected tap.
func NewTap() *Tap {
	return &Tap{}
}

// Attach wraps the source so everything streamed through it is also
// offered to the current sink. Call once at startup with the engine
// output and hand the result to the speaker.
func (t *Tap) Attach(src beep.Streamer) beep.Streamer {
	return &tapStream{tap: t, src: src}
}

// setSink swaps the destination. Passing nil disconnects. The previous
// sink is returned so the caller can close it; once setSink returns no
// further samples reach it.
func (t *Tap) setSink(s pcmSink) pcmSink {
	t.mu.Lock()
	defer t.mu.Unlock()
	old := t.sink
	t.sink = s
	return old
}

func (t *Tap) forward(samples [][2]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sink != nil {
		t.sink.WritePCM(samples)
	}
}

type tapStream struct {
	tap *Tap
	src beep.Streamer
}

func (s *tapStream) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.src.Stream(samples)
	if n > 0 {
		s.tap.forward(samples[:n])
	}
	return n, ok
}

func (s *tapStream) Err() error {
	return s.src.Err()
}
