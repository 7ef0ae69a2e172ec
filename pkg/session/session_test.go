package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lumascene/handwave/pkg/camera"
	"github.com/lumascene/handwave/pkg/gesture"
	"github.com/lumascene/handwave/pkg/hands"
	"github.com/lumascene/handwave/pkg/protocol"
	"github.com/lumascene/handwave/pkg/scene"
)

// fakeSource feeds the loop without touching a real device. Snapshot
// never yields a frame so no image buffers are allocated.
type fakeSource struct {
	seq    atomic.Uint64
	err    error
	closed atomic.Bool
}

func (f *fakeSource) Run(ctx context.Context)        { <-ctx.Done() }
func (f *fakeSource) Snapshot() (camera.Frame, bool) { return camera.Frame{}, false }
func (f *fakeSource) Seq() uint64                    { return f.seq.Load() }
func (f *fakeSource) Err() error                     { return f.err }
func (f *fakeSource) Close() error                   { f.closed.Store(true); return nil }

type fakeSound struct {
	mu       sync.Mutex
	tracking []bool
	updates  int
	resets   int
}

func (f *fakeSound) SetTracking(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracking = append(f.tracking, on)
}

func (f *fakeSound) Update(prev, cur gesture.Transform, dt float32, cam scene.Camera, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
}

func (f *fakeSound) Side() scene.Side { return scene.SideCenter }

func (f *fakeSound) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
}

func (f *fakeSound) trackingCalls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.tracking...)
}

type fakePublisher struct {
	mu       sync.Mutex
	scenes   int
	statuses int
}

func (f *fakePublisher) PublishPreview(jpeg []byte) {}

func (f *fakePublisher) PublishScene(t protocol.Transform) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes++
}

func (f *fakePublisher) PublishStatus(st protocol.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses++
}

func (f *fakePublisher) sceneCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scenes
}

type stubDetector struct{}

func (stubDetector) Detect(frame []byte, ts time.Time) ([]hands.Hand, error) { return nil, nil }
func (stubDetector) Close() error                                            { return nil }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RenderInterval = 2 * time.Millisecond
	cfg.DetectInterval = 2 * time.Millisecond
	cfg.StatusEvery = 5
	return cfg
}

func newTestSession(src Source, openErr error) (*Session, *fakeSound, *fakePublisher) {
	sound := &fakeSound{}
	pub := &fakePublisher{}
	sc := scene.Generate(scene.DefaultGenConfig(), 7)
	s := New(testConfig(), sc, Deps{
		Detector: stubDetector{},
		Sound:    sound,
		Publish:  pub,
		Open: func(cfg camera.Config) (Source, error) {
			if openErr != nil {
				return nil, openErr
			}
			return src, nil
		},
	})
	return s, sound, pub
}

func waitForState(t *testing.T, s *Session, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", s.State(), want)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to State
		ok       bool
	}{
		{StateIdle, StateCameraPending, true},
		{StateIdle, StateActive, false},
		{StateIdle, StateStopped, false},
		{StateCameraPending, StateActive, true},
		{StateCameraPending, StateStopped, true},
		{StateCameraPending, StateIdle, false},
		{StateActive, StateStopped, true},
		{StateActive, StateCameraPending, false},
		{StateStopped, StateCameraPending, true},
		{StateStopped, StateActive, false},
		{StateStopped, StateIdle, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.ok {
			t.Errorf("%v -> %v = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestStateStrings(t *testing.T) {
	names := map[State]string{
		StateIdle:          "idle",
		StateCameraPending: "camera_pending",
		StateActive:        "active",
		StateStopped:       "stopped",
	}
	for st, want := range names {
		if st.String() != want {
			t.Errorf("%d.String() = %q, want %q", st, st.String(), want)
		}
	}
}

func TestStopWhenIdleRejected(t *testing.T) {
	s, _, _ := newTestSession(&fakeSource{}, nil)
	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop on idle = %v, want ErrNotRunning", err)
	}
	if s.State() != StateIdle {
		t.Errorf("state changed to %v on rejected stop", s.State())
	}
}

func TestStartWhileRunningRejected(t *testing.T) {
	src := &fakeSource{}
	s, _, _ := newTestSession(src, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start = %v, want ErrAlreadyRunning", err)
	}
}

func TestCameraOpenFailure(t *testing.T) {
	s, _, _ := newTestSession(nil, errors.New("device busy"))
	err := s.Start(context.Background())
	if err == nil {
		t.Fatal("expected Start to fail")
	}
	if s.State() != StateStopped {
		t.Errorf("state = %v, want StateStopped", s.State())
	}
	st := s.Status()
	if st.Status == "" || st.Status == "idle" {
		t.Errorf("status text not surfaced: %q", st.Status)
	}
}

func TestRestartAfterStop(t *testing.T) {
	src := &fakeSource{}
	s, _, _ := newTestSession(src, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	s.Stop()
}

func TestActivatesOnFirstFrame(t *testing.T) {
	src := &fakeSource{}
	src.seq.Store(1)
	s, sound, pub := newTestSession(src, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForState(t, s, StateActive)

	// Let a few render ticks pass so transforms get published.
	deadline := time.Now().Add(time.Second)
	for pub.sceneCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if pub.sceneCount() < 3 {
		t.Errorf("only %d scene transforms published", pub.sceneCount())
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.State() != StateStopped {
		t.Errorf("state = %v after stop", s.State())
	}
	if !src.closed.Load() {
		t.Error("camera not closed on stop")
	}

	calls := sound.trackingCalls()
	if len(calls) < 2 || calls[0] != true || calls[len(calls)-1] != false {
		t.Errorf("tracking calls = %v, want true then false", calls)
	}

	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("double Stop = %v, want ErrNotRunning", err)
	}
}

func TestCameraErrorStopsSession(t *testing.T) {
	src := &fakeSource{err: errors.New("read failed 30 times")}
	src.seq.Store(1)
	s, _, _ := newTestSession(src, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForState(t, s, StateStopped)

	st := s.Status()
	if st.Status == "" || st.Status == "tracking" {
		t.Errorf("failure status not surfaced: %q", st.Status)
	}
}

func twoHands() []hands.Hand {
	mk := func(label string, x, y float32) hands.Hand {
		var h hands.Hand
		h.Label = label
		for i := range h.Points {
			h.Points[i] = hands.Point{X: x, Y: y}
		}
		return h
	}
	return []hands.Hand{mk(hands.LabelLeft, 0.4, 0.5), mk(hands.LabelRight, 0.6, 0.5)}
}

func TestStaleEpochDiscarded(t *testing.T) {
	s, _, _ := newTestSession(&fakeSource{}, nil)
	s.state = StateActive

	s.applyDetection(detection{epoch: 1, hands: twoHands()}, 2)
	if s.mapper.Targets().Controlled {
		t.Error("stale result from an earlier run was applied")
	}

	s.applyDetection(detection{epoch: 2, hands: twoHands()}, 2)
	if !s.mapper.Targets().Controlled {
		t.Error("current result was not applied")
	}
	if s.Status().Hands != 2 {
		t.Errorf("hand count = %d, want 2", s.Status().Hands)
	}
}

func TestResultAfterLeavingActiveDiscarded(t *testing.T) {
	s, _, _ := newTestSession(&fakeSource{}, nil)
	s.state = StateStopped

	s.applyDetection(detection{epoch: 1, hands: twoHands()}, 1)
	if s.mapper.Targets().Controlled {
		t.Error("result applied after session left active")
	}
	if s.Status().Hands != 0 {
		t.Errorf("hand count = %d, want 0", s.Status().Hands)
	}
}

func TestDetectionErrorSkipsFrame(t *testing.T) {
	s, _, _ := newTestSession(&fakeSource{}, nil)
	s.state = StateActive

	s.inFlight = true
	s.applyDetection(detection{epoch: 1, err: errors.New("bad tensor")}, 1)
	if s.mapper.Targets().Controlled {
		t.Error("errored detection mutated targets")
	}
	if s.inFlight {
		t.Error("inFlight not cleared after errored detection")
	}
}
