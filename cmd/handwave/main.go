// handwave - webcam hand gestures drive a procedural 3D scene with
// reactive audio, a live dashboard and portrait video export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"os/signal"
	"syscall"
	"time"

	"github.com/faiface/beep/speaker"

	"github.com/lumascene/handwave/internal/config"
	"github.com/lumascene/handwave/internal/log"
	"github.com/lumascene/handwave/pkg/audio"
	"github.com/lumascene/handwave/pkg/debug"
	"github.com/lumascene/handwave/pkg/hands"
	"github.com/lumascene/handwave/pkg/recorder"
	"github.com/lumascene/handwave/pkg/render"
	"github.com/lumascene/handwave/pkg/scene"
	"github.com/lumascene/handwave/pkg/session"
	"github.com/lumascene/handwave/pkg/synth"
	"github.com/lumascene/handwave/pkg/web"
)

func main() {
	cfg, autostart, staticDir := parseFlags()
	log.Init(cfg.LogLevel)

	fmt.Println("🖐  handwave")
	fmt.Printf("    camera=%d  addr=%s  seed=%d\n", cfg.CameraDevice, cfg.HTTPAddr, cfg.SceneSeed)

	if err := hands.EnsureModel(cfg.ModelPath, cfg.ModelURL); err != nil {
		stdlog.Fatalf("❌ Hand model unavailable: %v", err)
	}
	detector, err := hands.NewDNNDetector(hands.DefaultConfig(cfg.ModelPath))
	if err != nil {
		stdlog.Fatalf("❌ Failed to load hand model: %v", err)
	}
	defer detector.Close()

	seed := cfg.SceneSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sc := scene.Generate(scene.DefaultGenConfig(), seed)
	fmt.Printf("🎲 Scene: %d assets (seed %d)\n", len(sc.Assets), sc.Seed)

	engine := synth.NewEngine(synth.DefaultConfig())
	defer engine.Close()
	fmt.Printf("🎵 Scales: %v\n", synth.ScaleNames())

	tap := recorder.NewTap()
	out := tap.Attach(engine.Output())
	if !cfg.Mute {
		sr := engine.SampleRate()
		if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
			stdlog.Fatalf("❌ Speaker init failed: %v", err)
		}
		defer speaker.Close()
		speaker.Play(out)
		fmt.Println("🔊 Audio engine running")
	} else {
		fmt.Println("🔇 Muted (audio mapping still active)")
	}

	rec := recorder.New(recorder.DefaultConfig(cfg.OutputDir), tap)

	sessCfg := session.DefaultConfig()
	sessCfg.Camera.Device = cfg.CameraDevice
	sess := session.New(sessCfg, sc, session.Deps{
		Detector: detector,
		Renderer: render.NewSoft(render.DefaultConfig()),
		Sound:    audio.NewMapper(audio.DefaultConfig(), engine),
		Sink:     rec,
	})

	webCfg := web.DefaultConfig()
	webCfg.Addr = cfg.HTTPAddr
	webCfg.StaticDir = staticDir
	webCfg.OutputDir = cfg.OutputDir
	server := web.NewServer(webCfg, sess, rec)
	sess.SetPublisher(server)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if autostart {
		if err := sess.Start(ctx); err != nil {
			// Dashboard stays up; the status line shows what failed
			// and the user restarts from there.
			log.Warn("session did not start", "error", err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	fmt.Printf("🌐 Dashboard: http://localhost%s\n", webCfg.Addr)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			stdlog.Fatalf("❌ Web server error: %v", err)
		}
	}

	fmt.Println("\n👋 Shutting down...")
	if rec.Recording() {
		if art, err := rec.Stop(time.Now()); err == nil {
			fmt.Printf("💾 Saved recording: %s (%d frames)\n", art.Name, art.Frames)
		}
	}
	if err := sess.Stop(); err != nil && !errors.Is(err, session.ErrNotRunning) {
		log.Warn("session stop", "error", err)
	}
	server.Shutdown()
}

// parseFlags layers command flags over config file and environment.
func parseFlags() (config.Config, bool, string) {
	configPath := flag.String("config", "handwave.yaml", "Config file path")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	debugFrames := flag.Bool("debug-frames", false, "Log per-frame detail (very noisy)")
	camera := flag.Int("camera", -1, "Camera device ID (overrides config)")
	addr := flag.String("addr", "", "Dashboard listen address (overrides config)")
	model := flag.String("model", "", "Hand landmark ONNX model path (overrides config)")
	seed := flag.Int64("seed", 0, "Scene seed, 0 = random")
	mute := flag.Bool("mute", false, "Disable speaker output")
	outDir := flag.String("out", "", "Recording output directory (overrides config)")
	static := flag.String("static", "./web", "Dashboard static files directory")
	noStart := flag.Bool("no-start", false, "Do not start the session at boot")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}

	debug.Enabled = *debugFlag
	debug.Frames = *debugFrames
	if *debugFlag {
		cfg.LogLevel = "debug"
	}
	if *camera >= 0 {
		cfg.CameraDevice = *camera
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	if *model != "" {
		cfg.ModelPath = *model
	}
	if *seed != 0 {
		cfg.SceneSeed = *seed
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *mute {
		cfg.Mute = true
	}
	return cfg, !*noStart, *static
}
