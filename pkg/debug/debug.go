// Package debug provides global debug logging flags.
//
// Per-frame code paths run at 30-60Hz; these boolean gates keep the
// hot loops free of logger overhead unless explicitly enabled.
package debug

import "fmt"

// Enabled controls whether general debug logging is active.
var Enabled bool

// Frames controls very verbose per-frame logs (landmarks, transform
// targets, audio levels). Use --debug-frames to enable.
var Frames bool

// Log prints a message only if debug mode is enabled.
func Log(format string, args ...interface{}) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}

// FrameLog prints a message only if per-frame debug mode is enabled.
func FrameLog(format string, args ...interface{}) {
	if Frames {
		fmt.Printf(format, args...)
	}
}
