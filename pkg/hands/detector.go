package hands

import "time"

// Detector turns a JPEG-encoded camera frame into a set of hands.
// Implementations must be safe for use from a single goroutine; the
// session runs at most one detection at a time and discards stale
// results itself.
type Detector interface {
	// Detect runs inference on one frame. The returned slice holds
	// zero, one or two hands ordered by score. A nil slice with a nil
	// error means no hands were found.
	Detect(frame []byte, timestamp time.Time) ([]Hand, error)
	// Close releases model resources.
	Close() error
}

// Config holds detector tuning.
type Config struct {
	// ModelPath is the ONNX hand landmark model on disk.
	ModelPath string
	// InputSize is the square side length the model expects.
	InputSize int
	// ScoreThreshold drops hands whose presence score is below it.
	ScoreThreshold float32
	// MaxHands caps the number of hands returned per frame.
	MaxHands int
}

// DefaultConfig returns the tuning used by the demo: 224px input,
// two hands, presence threshold 0.5.
func DefaultConfig(modelPath string) Config {
	return Config{
		ModelPath:      modelPath,
		InputSize:      224,
		ScoreThreshold: 0.5,
		MaxHands:       2,
	}
}
