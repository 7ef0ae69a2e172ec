// Package render draws the scene. The session depends only on the
// Renderer interface; the shipped implementation is a software
// rasterizer so the demo runs without a GPU or a display.
package render

import (
	"image"

	"github.com/lumascene/handwave/pkg/gesture"
	"github.com/lumascene/handwave/pkg/scene"
)

// Renderer produces one frame for the current transform.
type Renderer interface {
	Render(sc *scene.Scene, t gesture.Transform, cam scene.Camera) image.Image
	Close() error
}

// Config shapes the output image.
type Config struct {
	// Width and Height of the rendered frame. The default matches the
	// recorder's top region so recording never rescales.
	Width  int
	Height int
	// Background is the clear color as #RRGGBB.
	Background string
	// GridColor tints the ground grid.
	GridColor string
}

// DefaultConfig renders at the recorder's top-region resolution over a
// dark backdrop.
func DefaultConfig() Config {
	return Config{
		Width:      1080,
		Height:     1056,
		Background: "#151821",
		GridColor:  "#2A3140",
	}
}
