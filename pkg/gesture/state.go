package gesture

import (
	"time"

	"cogentcore.org/core/math32"
)

// State owns the displayed transform and steps it toward the current
// targets. Like Mapper it belongs to the session loop goroutine.
type State struct {
	cfg     Config
	current Transform
	epoch   time.Time
}

// NewState starts at the identity transform with the auto-rotation
// clock anchored at epoch.
func NewState(cfg Config, epoch time.Time) *State {
	return &State{cfg: cfg, current: Identity(), epoch: epoch}
}

// Current returns the displayed transform.
func (s *State) Current() Transform {
	return s.current
}

// Step advances the displayed transform one frame. Pan and zoom always
// ease toward their targets. Rotation eases toward the target while a
// hand is in control; otherwise it follows a time-based spin with a
// sinusoidal tilt so an idle scene still drifts pleasantly.
func (s *State) Step(t Targets, now time.Time) Transform {
	f := s.cfg.StepBlend
	s.current.Pan = lerpVec(s.current.Pan, t.Pan, f)
	s.current.Zoom = lerp(s.current.Zoom, t.Zoom, f)

	if t.Controlled {
		s.current.Rotation = lerpVec(s.current.Rotation, t.Rotation, f)
	} else {
		elapsed := float32(now.Sub(s.epoch).Seconds())
		s.current.Rotation.Y = elapsed * s.cfg.SpinRate
		s.current.Rotation.X = math32.Sin(elapsed*s.cfg.TiltRate) * s.cfg.TiltAmp
		s.current.Rotation.Z = lerp(s.current.Rotation.Z, 0, f)
	}
	return s.current
}

// Reset snaps back to identity and restarts the auto-rotation clock.
func (s *State) Reset(epoch time.Time) {
	s.current = Identity()
	s.epoch = epoch
}
