package recorder

import (
	"testing"

	"github.com/faiface/beep"
)

// constStreamer emits a fixed value forever.
type constStreamer float64

var _ beep.Streamer = constStreamer(0)

func (c constStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i][0] = float64(c)
		samples[i][1] = float64(c)
	}
	return len(samples), true
}

func (c constStreamer) Err() error { return nil }

// collectSink records everything the tap forwards.
type collectSink struct {
	samples int
	closed  bool
}

func (s *collectSink) WritePCM(samples [][2]float64) { s.samples += len(samples) }
func (s *collectSink) Close() error                  { s.closed = true; return nil }

func TestTapPassesAudioThrough(t *testing.T) {
	tap := NewTap()
	out := tap.Attach(constStreamer(0.25))

	buf := make([][2]float64, 512)
	n, ok := out.Stream(buf)
	if !ok || n != 512 {
		t.Fatalf("tap should stream transparently, got n=%d ok=%v", n, ok)
	}
	for i := range buf {
		if buf[i][0] != 0.25 || buf[i][1] != 0.25 {
			t.Fatalf("tap altered sample %d: %+v", i, buf[i])
		}
	}
}

func TestTapForwardsToSinkOnlyWhileConnected(t *testing.T) {
	tap := NewTap()
	out := tap.Attach(constStreamer(0.1))
	buf := make([][2]float64, 256)

	// No sink: samples flow but nothing is captured.
	out.Stream(buf)

	sink := &collectSink{}
	tap.setSink(sink)
	out.Stream(buf)
	out.Stream(buf)
	if sink.samples != 512 {
		t.Errorf("sink should have 512 samples, got %d", sink.samples)
	}

	old := tap.setSink(nil)
	if old != sink {
		t.Error("setSink should return the previous sink")
	}
	out.Stream(buf)
	if sink.samples != 512 {
		t.Errorf("disconnected sink received %d extra samples", sink.samples-512)
	}
}
