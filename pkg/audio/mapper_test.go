package audio

import (
	"math"
	"testing"
	"time"

	"cogentcore.org/core/math32"

	"github.com/lumascene/handwave/pkg/gesture"
	"github.com/lumascene/handwave/pkg/scene"
	"github.com/lumascene/handwave/pkg/synth"
)

type channelCall struct {
	ch   synth.Channel
	freq float64
	db   float64
}

// mockEngine records every command the mapper issues.
type mockEngine struct {
	enabled      bool
	enabledCalls int
	channelCalls []channelCall
	notes        []float64
	started      []string
	stopCalls    int
}

func (m *mockEngine) SetEnabled(on bool) {
	m.enabled = on
	m.enabledCalls++
}

func (m *mockEngine) SetChannel(ch synth.Channel, freq, db float64) {
	m.channelCalls = append(m.channelCalls, channelCall{ch, freq, db})
}

func (m *mockEngine) TriggerNote(freq float64) { m.notes = append(m.notes, freq) }
func (m *mockEngine) StartSequence(name string) {
	if len(m.started) == 0 || m.started[len(m.started)-1] != name {
		m.started = append(m.started, name)
	}
}
func (m *mockEngine) StopSequence() { m.stopCalls++ }

func transformAt(ry float32) gesture.Transform {
	tr := gesture.Identity()
	tr.Rotation.Y = ry
	return tr
}

func TestComputeSpeeds(t *testing.T) {
	prev := gesture.Identity()
	cur := gesture.Identity()
	cur.Rotation = math32.Vec3(0.1, -0.2, 0.3)
	cur.Pan = math32.Vec3(3, 4, 0)
	cur.Zoom = 2

	got := ComputeSpeeds(prev, cur, 0.5)

	if math.Abs(float64(got.Rotation)-1.2) > 1e-5 {
		t.Errorf("rotation speed: got %f, want 1.2", got.Rotation)
	}
	if math.Abs(float64(got.Pan)-10) > 1e-5 {
		t.Errorf("pan speed: got %f, want 10", got.Pan)
	}
	if math.Abs(float64(got.Zoom)-2) > 1e-5 {
		t.Errorf("zoom speed: got %f, want 2", got.Zoom)
	}
}

func TestComputeSpeedsZeroDT(t *testing.T) {
	prev := gesture.Identity()
	cur := gesture.Identity()
	cur.Pan = math32.Vec3(100, 100, 100)

	if got := ComputeSpeeds(prev, cur, 0); got != (Speeds{}) {
		t.Errorf("zero dt must give zero speeds, got %+v", got)
	}
	if got := ComputeSpeeds(prev, cur, -0.1); got != (Speeds{}) {
		t.Errorf("negative dt must give zero speeds, got %+v", got)
	}
}

func TestUpdateGatesOnStillness(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)
	m.SetTracking(true)

	idle := gesture.Identity()
	m.Update(idle, idle, 1.0/30, scene.DefaultCamera(), time.Now())

	if eng.enabled {
		t.Error("still scene should keep the engine disabled")
	}
	if len(eng.channelCalls) != 0 {
		t.Errorf("still scene should push no channel updates, got %d", len(eng.channelCalls))
	}
}

func TestUpdateEnablesOnMovement(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)
	m.SetTracking(true)

	now := time.Now()
	prev := transformAt(0)
	cur := transformAt(0.2)
	for i := 0; i < 10; i++ {
		m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now.Add(time.Duration(i)*33*time.Millisecond))
	}

	if !eng.enabled {
		t.Error("sustained movement should enable the engine")
	}
	if len(eng.channelCalls) == 0 {
		t.Fatal("movement should push channel updates")
	}
}

func TestUpdateNotTrackingStaysSilent(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)

	prev := transformAt(0)
	cur := transformAt(1.0)
	m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), time.Now())

	if eng.enabled {
		t.Error("engine must stay disabled while not tracking")
	}
}

func TestEMAApproachesRawSpeed(t *testing.T) {
	cfg := DefaultConfig()
	eng := &mockEngine{}
	m := NewMapper(cfg, eng)
	m.SetTracking(true)

	prev := transformAt(0)
	cur := transformAt(0.1)
	raw := ComputeSpeeds(prev, cur, 1.0/30)

	now := time.Now()
	m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now)
	first := m.smoothed[meterRotation]
	wantFirst := raw.Rotation * cfg.Smoothing
	if math.Abs(float64(first-wantFirst)) > 1e-4 {
		t.Errorf("first EMA step: got %f, want %f", first, wantFirst)
	}

	for i := 1; i < 200; i++ {
		m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now.Add(time.Duration(i)*33*time.Millisecond))
	}
	if math.Abs(float64(m.smoothed[meterRotation]-raw.Rotation)) > float64(raw.Rotation)*0.02 {
		t.Errorf("EMA should converge on the raw speed, got %f want %f", m.smoothed[meterRotation], raw.Rotation)
	}
}

func TestChannelDebounce(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)
	m.SetTracking(true)

	prev := transformAt(0)
	cur := transformAt(0.5)
	now := time.Now()

	// Two updates 10ms apart: the second must not retrigger.
	m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now)
	afterFirst := len(eng.channelCalls)
	m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now.Add(10*time.Millisecond))
	if len(eng.channelCalls) != afterFirst {
		t.Errorf("updates within the debounce window must not retrigger, got %d new calls",
			len(eng.channelCalls)-afterFirst)
	}

	// Past the window they do.
	m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now.Add(150*time.Millisecond))
	if len(eng.channelCalls) == afterFirst {
		t.Error("updates past the debounce window should retrigger")
	}
}

func TestVolumeClippedAtZeroDB(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)
	m.SetTracking(true)

	// A violent motion drives the linear mapping far past 0dB.
	prev := transformAt(0)
	cur := transformAt(50)
	now := time.Now()
	for i := 0; i < 10; i++ {
		m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now.Add(time.Duration(i)*200*time.Millisecond))
	}

	if len(eng.channelCalls) == 0 {
		t.Fatal("expected channel updates")
	}
	for _, c := range eng.channelCalls {
		if c.db > 0 {
			t.Fatalf("volume must never exceed 0dB, got %f on %s", c.db, c.ch)
		}
	}
}

func TestMelodyFollowsFacingSide(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)
	m.SetTracking(true)

	// Strong movement with identity rotation: front melody.
	now := time.Now()
	prev := transformAt(0)
	cur := transformAt(0.8)
	cur.Rotation.Y = 0 // keep facing front, move via pan instead
	cur.Pan = math32.Vec3(2, 0, 0)
	for i := 0; i < 5; i++ {
		m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now.Add(time.Duration(i)*200*time.Millisecond))
	}

	if len(eng.started) == 0 || eng.started[0] != "front" {
		t.Fatalf("expected the front melody to start, got %v", eng.started)
	}
	if m.Side() != scene.SideFront {
		t.Errorf("expected front side, got %s", m.Side())
	}
}

func TestMelodySwitchesWithSide(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)
	m.SetTracking(true)

	now := time.Now()
	front := gesture.Identity()
	front.Pan = math32.Vec3(3, 0, 0)
	m.Update(gesture.Identity(), front, 1.0/30, scene.DefaultCamera(), now)

	// Quarter turn: the left face now points at the camera.
	left := front
	left.Rotation.Y = math32.Pi / 2
	for i := 1; i < 5; i++ {
		m.Update(front, left, 1.0/30, scene.DefaultCamera(), now.Add(time.Duration(i)*200*time.Millisecond))
	}

	foundLeft := false
	for _, s := range eng.started {
		if s == "left" {
			foundLeft = true
		}
	}
	if !foundLeft {
		t.Errorf("expected the melody to switch to left, got %v", eng.started)
	}
}

func TestMelodyStopsWhenMovementFades(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)
	m.SetTracking(true)

	now := time.Now()
	prev := transformAt(0)
	cur := transformAt(1.0)
	m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), now)
	if len(eng.started) == 0 {
		t.Fatal("expected a melody to start")
	}

	// Stillness decays the meters until the melody gate closes.
	idle := cur
	for i := 1; i < 120; i++ {
		m.Update(idle, idle, 1.0/30, scene.DefaultCamera(), now.Add(time.Duration(i)*33*time.Millisecond))
	}

	if eng.stopCalls == 0 {
		t.Error("fading movement should stop the melody")
	}
}

func TestSetTrackingFalseSilencesImmediately(t *testing.T) {
	eng := &mockEngine{}
	m := NewMapper(DefaultConfig(), eng)
	m.SetTracking(true)

	prev := transformAt(0)
	cur := transformAt(1.0)
	m.Update(prev, cur, 1.0/30, scene.DefaultCamera(), time.Now())

	m.SetTracking(false)
	if eng.enabled {
		t.Error("tracking off must disable the engine at once")
	}
	if eng.stopCalls == 0 {
		t.Error("tracking off must stop the melody")
	}
}
