package gesture

import (
	"cogentcore.org/core/math32"

	"github.com/lumascene/handwave/pkg/hands"
)

// Hand roles. The role set is closed, so anchors live in a fixed
// two-slot array rather than a map.
const (
	RoleRotation = 0
	RoleZoom     = 1
	numRoles     = 2
)

// Targets is the transform the scene should head toward, produced
// fresh by every Update call.
type Targets struct {
	Pan      math32.Vector3
	Rotation math32.Vector3
	Zoom     float32
	// Controlled is true while at least one hand steers the scene;
	// when false the display loop auto-rotates instead of following
	// Rotation.
	Controlled bool
}

// NeutralTargets is the no-hand state: everything at rest, zoom 1.
func NeutralTargets() Targets {
	return Targets{Zoom: 1}
}

// Mapper converts per-frame hand sets into transform targets. It is
// not safe for concurrent use; the session loop owns it.
type Mapper struct {
	cfg     Config
	anchors [numRoles]Anchor
	targets Targets
}

// NewMapper returns a mapper with neutral targets.
func NewMapper(cfg Config) *Mapper {
	return &Mapper{cfg: cfg, targets: NeutralTargets()}
}

// Update maps one frame's hands to new targets.
//
// Hand selection: with handedness labels, "Left" drives rotation and
// "Right" drives zoom; without labels the first hand rotates and the
// second zooms. A single hand drives rotation and pan, and the zoom
// target falls back to 1.
func (m *Mapper) Update(detected []hands.Hand) Targets {
	if len(detected) == 0 {
		// Losing all hands clears calibration so a returning hand
		// warms up from scratch instead of inheriting a stale anchor.
		for i := range m.anchors {
			m.anchors[i].Reset()
		}
		m.targets = NeutralTargets()
		return m.targets
	}

	rotHand, zoomHand := selectHands(detected)

	// (wrist - 0.5) spans ±0.5, so RotXRange=π yields a ±π/2 swing
	// and RotYRange=2π a full ±π swing.
	w := wristVec(rotHand)
	m.targets.Rotation = math32.Vec3(
		(w.Y-0.5)*m.cfg.RotXRange,
		(w.X-0.5)*m.cfg.RotYRange,
		rotHand.PinchDistance()*m.cfg.PinchRotZScale,
	)

	if zoomHand != nil {
		m.targets.Zoom = m.cfg.ZoomBase + zoomHand.PinchDistance()*m.cfg.ZoomScale
	} else {
		m.targets.Zoom = 1
	}

	m.anchors[RoleRotation].Observe(w, m.cfg.WarmupFrames)
	offset := m.anchors[RoleRotation].Offset(w, m.cfg.OffsetScale, m.cfg.WarmupFrames)
	if zoomHand != nil {
		zw := wristVec(zoomHand)
		m.anchors[RoleZoom].Observe(zw, m.cfg.WarmupFrames)
		zo := m.anchors[RoleZoom].Offset(zw, m.cfg.OffsetScale, m.cfg.WarmupFrames)
		offset = offset.Add(zo).MulScalar(0.5)
	}
	m.targets.Pan = lerpVec(m.targets.Pan, offset, m.cfg.PanBlend)

	m.targets.Controlled = true
	return m.targets
}

// Targets returns the last computed targets without recomputing.
func (m *Mapper) Targets() Targets {
	return m.targets
}

// Anchor exposes a role's calibration state for status reporting.
func (m *Mapper) Anchor(role int) *Anchor {
	return &m.anchors[role]
}

// Calibrating reports whether a controlling hand is still inside its
// warm-up window.
func (m *Mapper) Calibrating() bool {
	return m.targets.Controlled && !m.anchors[RoleRotation].Ready(m.cfg.WarmupFrames)
}

// Reset clears targets and calibration, used on session stop.
func (m *Mapper) Reset() {
	for i := range m.anchors {
		m.anchors[i].Reset()
	}
	m.targets = NeutralTargets()
}

func wristVec(h *hands.Hand) math32.Vector3 {
	p := h.WristPos()
	return math32.Vec3(p.X, p.Y, p.Z)
}

// selectHands assigns detected hands to the rotation and zoom roles.
func selectHands(detected []hands.Hand) (rot, zoom *hands.Hand) {
	if len(detected) == 1 {
		return &detected[0], nil
	}

	var left, right *hands.Hand
	for i := range detected {
		switch {
		case detected[i].IsLeft() && left == nil:
			left = &detected[i]
		case detected[i].IsRight() && right == nil:
			right = &detected[i]
		}
	}
	if left != nil && right != nil {
		return left, right
	}
	return &detected[0], &detected[1]
}
