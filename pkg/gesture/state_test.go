package gesture

import (
	"testing"
	"time"

	"cogentcore.org/core/math32"
)

func TestStepEasesTowardTargets(t *testing.T) {
	epoch := time.Now()
	s := NewState(DefaultConfig(), epoch)

	targets := Targets{
		Pan:        math32.Vec3(2, 0, 0),
		Rotation:   math32.Vec3(0, 1, 0),
		Zoom:       3,
		Controlled: true,
	}

	first := s.Step(targets, epoch)
	if math32.Abs(first.Pan.X-0.2) > 1e-5 {
		t.Errorf("first step should cover 10%% of the pan gap, got %f", first.Pan.X)
	}
	if math32.Abs(first.Zoom-1.2) > 1e-5 {
		t.Errorf("first step zoom: got %f, want 1.2", first.Zoom)
	}

	var cur Transform
	for i := 0; i < 300; i++ {
		cur = s.Step(targets, epoch.Add(time.Duration(i)*33*time.Millisecond))
	}
	if math32.Abs(cur.Pan.X-2) > 0.01 || math32.Abs(cur.Zoom-3) > 0.01 || math32.Abs(cur.Rotation.Y-1) > 0.01 {
		t.Errorf("state should converge on targets, got %+v", cur)
	}
}

func TestStepAutoRotatesWhenUncontrolled(t *testing.T) {
	cfg := DefaultConfig()
	epoch := time.Now()
	s := NewState(cfg, epoch)

	targets := NeutralTargets()

	at2 := s.Step(targets, epoch.Add(2*time.Second))
	wantRY := 2 * cfg.SpinRate
	if math32.Abs(at2.Rotation.Y-wantRY) > 1e-4 {
		t.Errorf("auto-rotation ry at 2s: got %f, want %f", at2.Rotation.Y, wantRY)
	}
	wantRX := math32.Sin(2*cfg.TiltRate) * cfg.TiltAmp
	if math32.Abs(at2.Rotation.X-wantRX) > 1e-4 {
		t.Errorf("auto-rotation tilt at 2s: got %f, want %f", at2.Rotation.X, wantRX)
	}
}

func TestStepControlOverridesAutoRotation(t *testing.T) {
	epoch := time.Now()
	s := NewState(DefaultConfig(), epoch)

	controlled := Targets{Rotation: math32.Vec3(0.5, 0.5, 0), Zoom: 1, Controlled: true}
	for i := 0; i < 100; i++ {
		s.Step(controlled, epoch.Add(time.Duration(i)*time.Second))
	}

	// Despite a large elapsed time the rotation must track the hand,
	// not the spin clock.
	cur := s.Current()
	if math32.Abs(cur.Rotation.X-0.5) > 0.01 || math32.Abs(cur.Rotation.Y-0.5) > 0.01 {
		t.Errorf("controlled rotation should track the target, got %+v", cur.Rotation)
	}
}

func TestResetReturnsToIdentity(t *testing.T) {
	epoch := time.Now()
	s := NewState(DefaultConfig(), epoch)

	s.Step(Targets{Pan: math32.Vec3(5, 5, 5), Zoom: 9, Controlled: true}, epoch)
	s.Reset(epoch.Add(time.Minute))

	if s.Current() != Identity() {
		t.Errorf("reset should restore identity, got %+v", s.Current())
	}

	// The spin clock restarts too: stepping right at the new epoch
	// gives no accumulated rotation.
	got := s.Step(NeutralTargets(), epoch.Add(time.Minute))
	if math32.Abs(got.Rotation.Y) > 1e-5 {
		t.Errorf("spin clock should restart on reset, got ry %f", got.Rotation.Y)
	}
}
