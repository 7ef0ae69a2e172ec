package session

// State is the session lifecycle state.
type State int

const (
	// StateIdle indicates the session has never been started.
	StateIdle State = iota
	// StateCameraPending indicates the camera is open and the session
	// is waiting for its first frame.
	StateCameraPending
	// StateActive indicates frames are flowing and the loop is running.
	StateActive
	// StateStopped indicates the session was stopped or failed.
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCameraPending:
		return "camera_pending"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// validNext lists the allowed lifecycle edges. Anything not listed is
// rejected without a state change.
var validNext = map[State][]State{
	StateIdle:          {StateCameraPending},
	StateCameraPending: {StateActive, StateStopped},
	StateActive:        {StateStopped},
	StateStopped:       {StateCameraPending},
}

// CanTransition reports whether the edge s -> to is allowed.
func (s State) CanTransition(to State) bool {
	for _, n := range validNext[s] {
		if n == to {
			return true
		}
	}
	return false
}
