// Package hub provides a websocket broadcast hub using a channel-based
// fan-out: one goroutine owns the client set, slow clients are dropped
// instead of stalling the producers.
package hub

// MessageType indicates the websocket message format.
type MessageType int

const (
	// JSONMessage is a JSON-encoded payload (transforms, status).
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data (JPEG preview frames).
	BinaryMessage
)

// Message is one broadcast unit.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON bytes.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps binary data.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
