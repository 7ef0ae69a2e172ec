// scenegen - render the procedural scene to PNG stills.
//
// One frame by default; --frames N steps the idle auto-rotation at
// 30fps and writes a numbered sequence, handy for previewing a seed
// before a live session.
package main

import (
	"flag"
	"fmt"
	"image/png"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/lumascene/handwave/pkg/gesture"
	"github.com/lumascene/handwave/pkg/render"
	"github.com/lumascene/handwave/pkg/scene"
)

func main() {
	seed := flag.Int64("seed", 1, "Scene seed")
	out := flag.String("out", "scene.png", "Output file (or directory with --frames > 1)")
	width := flag.Int("width", 1080, "Frame width")
	height := flag.Int("height", 1056, "Frame height")
	frames := flag.Int("frames", 1, "Number of auto-rotation frames to render")
	zoom := flag.Float64("zoom", 1.0, "Scene zoom")
	flag.Parse()

	sc := scene.Generate(scene.DefaultGenConfig(), *seed)
	fmt.Printf("🎲 Seed %d: %d assets, %d grid segments\n", sc.Seed, len(sc.Assets), len(sc.Grid))

	rcfg := render.DefaultConfig()
	rcfg.Width = *width
	rcfg.Height = *height
	r := render.NewSoft(rcfg)
	defer r.Close()

	cam := scene.DefaultCamera()
	epoch := time.Unix(0, 0)
	motion := gesture.NewState(gesture.DefaultConfig(), epoch)
	interval := time.Second / 30

	if *frames <= 1 {
		tr := motion.Step(gesture.NeutralTargets(), epoch)
		tr.Zoom = float32(*zoom)
		writePNG(*out, r, sc, tr, cam)
		fmt.Printf("🖼  Wrote %s (%dx%d)\n", *out, *width, *height)
		return
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		stdlog.Fatalf("❌ Output directory: %v", err)
	}
	start := time.Now()
	for i := 0; i < *frames; i++ {
		tr := motion.Step(gesture.NeutralTargets(), epoch.Add(time.Duration(i)*interval))
		tr.Zoom = float32(*zoom)
		name := filepath.Join(*out, fmt.Sprintf("scene_%04d.png", i))
		writePNG(name, r, sc, tr, cam)
	}
	fmt.Printf("🖼  Wrote %d frames to %s in %.1fs\n", *frames, *out, time.Since(start).Seconds())
}

func writePNG(path string, r *render.Soft, sc *scene.Scene, tr gesture.Transform, cam scene.Camera) {
	img := r.Render(sc, tr, cam)
	f, err := os.Create(path)
	if err != nil {
		stdlog.Fatalf("❌ Create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		stdlog.Fatalf("❌ Encode %s: %v", path, err)
	}
}
