// Package protocol defines the websocket message envelope and payloads
// shared by the dashboard server and its clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumascene/handwave/pkg/gesture"
)

// Message types carried in the envelope.
const (
	TypeTransform = "transform"
	TypeStatus    = "status"
	TypeRecording = "recording"
)

// Envelope wraps every JSON websocket message: a type tag, a unix
// millisecond timestamp and the typed payload.
type Envelope struct {
	Type string          `json:"type"`
	TS   int64           `json:"ts"`
	Data json.RawMessage `json:"data"`
}

// NewEnvelope marshals payload into a stamped envelope.
func NewEnvelope(msgType string, ts time.Time, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", msgType, err)
	}
	return Envelope{Type: msgType, TS: ts.UnixMilli(), Data: data}, nil
}

// Parse decodes raw bytes into an envelope.
func Parse(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse envelope: %w", err)
	}
	return e, nil
}

// Decode unpacks the payload into v.
func (e *Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

// Vec3 is the wire form of a vector.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Transform is the live scene transform pushed on /ws/scene.
type Transform struct {
	Pan         Vec3    `json:"pan"`
	Rotation    Vec3    `json:"rotation"`
	Zoom        float32 `json:"zoom"`
	Side        string  `json:"side"`
	Hands       int     `json:"hands"`
	Calibrating bool    `json:"calibrating"`
}

// TransformFrom flattens the gesture state into the wire form.
func TransformFrom(t gesture.Transform, side string, hands int, calibrating bool) Transform {
	return Transform{
		Pan:         Vec3{t.Pan.X, t.Pan.Y, t.Pan.Z},
		Rotation:    Vec3{t.Rotation.X, t.Rotation.Y, t.Rotation.Z},
		Zoom:        t.Zoom,
		Side:        side,
		Hands:       hands,
		Calibrating: calibrating,
	}
}

// Status is the session snapshot pushed on /ws/status and returned by
// GET /api/status.
type Status struct {
	State     string  `json:"state"`
	Status    string  `json:"status"`
	Tracking  bool    `json:"tracking"`
	Hands     int     `json:"hands"`
	Recording bool    `json:"recording"`
	Audio     bool    `json:"audio"`
	Scale     string  `json:"scale"`
	Side      string  `json:"side"`
	SceneSeed int64   `json:"sceneSeed"`
	FPS       float64 `json:"fps"`
}

// Recording event names.
const (
	RecordingStarted = "started"
	RecordingStopped = "stopped"
	RecordingFailed  = "failed"
)

// Recording announces recorder lifecycle changes on /ws/status.
type Recording struct {
	Event    string `json:"event"`
	ID       string `json:"id,omitempty"`
	Artifact string `json:"artifact,omitempty"`
	Frames   int    `json:"frames,omitempty"`
	Error    string `json:"error,omitempty"`
}
