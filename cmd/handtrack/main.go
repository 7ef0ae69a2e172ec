// handtrack - live viewer for the hand landmark detector.
//
// Opens the webcam, runs detection synchronously and shows the
// annotated feed in a window. Useful for checking model quality and
// camera placement before running the full app.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	stdlog "log"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/lumascene/handwave/internal/config"
	"github.com/lumascene/handwave/internal/log"
	"github.com/lumascene/handwave/pkg/camera"
	"github.com/lumascene/handwave/pkg/hands"
)

func main() {
	configPath := flag.String("config", "handwave.yaml", "Config file path")
	device := flag.Int("camera", -1, "Camera device ID (overrides config)")
	model := flag.String("model", "", "Hand landmark ONNX model path (overrides config)")
	scripted := flag.Bool("scripted", false, "Use the scripted detector (no model needed)")
	mirror := flag.Bool("mirror", true, "Mirror the preview")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}
	log.Init(cfg.LogLevel)
	if *device >= 0 {
		cfg.CameraDevice = *device
	}
	if *model != "" {
		cfg.ModelPath = *model
	}

	var detector hands.Detector
	if *scripted {
		detector = hands.NewScriptedDetector()
		fmt.Println("🤖 Scripted detector (synthetic hand)")
	} else {
		if err := hands.EnsureModel(cfg.ModelPath, cfg.ModelURL); err != nil {
			stdlog.Fatalf("❌ Hand model unavailable: %v", err)
		}
		detector, err = hands.NewDNNDetector(hands.DefaultConfig(cfg.ModelPath))
		if err != nil {
			stdlog.Fatalf("❌ Failed to load hand model: %v", err)
		}
	}
	defer detector.Close()

	camCfg := camera.DefaultConfig()
	camCfg.Device = cfg.CameraDevice
	cam, err := camera.Open(camCfg)
	if err != nil {
		stdlog.Fatalf("❌ Camera: %v", err)
	}
	defer cam.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cam.Run(ctx)

	window := gocv.NewWindow("handtrack")
	defer window.Close()

	fmt.Printf("📷 Device %d, %dx%d. Press q or ESC to quit.\n",
		camCfg.Device, cam.ActualWidth(), cam.ActualHeight())

	mirrored := gocv.NewMat()
	defer mirrored.Close()

	var lastSeq uint64
	var fps float64
	lastShow := time.Now()

	for {
		if err := cam.Err(); err != nil {
			fmt.Printf("❌ Camera stopped: %v\n", err)
			os.Exit(1)
		}
		frame, ok := cam.Snapshot()
		if !ok || frame.Seq == lastSeq {
			time.Sleep(2 * time.Millisecond)
			continue
		}
		lastSeq = frame.Seq

		detected := detectOn(detector, frame)
		hands.Draw(&frame.Mat, detected)

		now := time.Now()
		if dt := now.Sub(lastShow).Seconds(); dt > 0 {
			fps = fps*0.9 + (1/dt)*0.1
		}
		lastShow = now
		drawHUD(&frame.Mat, detected, fps)

		show := frame.Mat
		if *mirror {
			gocv.Flip(frame.Mat, &mirrored, 1)
			show = mirrored
		}
		window.IMShow(show)
		frame.Mat.Close()

		key := window.WaitKey(1)
		if key == 27 || key == 'q' {
			fmt.Println("👋 Bye")
			return
		}
	}
}

// detectOn runs one synchronous detector pass on the frame.
func detectOn(d hands.Detector, frame camera.Frame) []hands.Hand {
	jpegData, err := camera.EncodeJPEG(frame.Mat)
	if err != nil {
		return nil
	}
	detected, err := d.Detect(jpegData, frame.TS)
	if err != nil {
		log.Debug("detection failed", "error", err)
		return nil
	}
	return detected
}

// drawHUD overlays fps and per-hand pinch readouts.
func drawHUD(img *gocv.Mat, detected []hands.Hand, fps float64) {
	white := color.RGBA{R: 235, G: 235, B: 235, A: 255}
	gocv.PutText(img, fmt.Sprintf("%.0f fps  %d hand(s)", fps, len(detected)),
		image.Pt(12, 24), gocv.FontHersheySimplex, 0.6, white, 1)
	for i, h := range detected {
		line := fmt.Sprintf("%s pinch=%.3f score=%.2f", h.Label, h.PinchDistance(), h.Score)
		gocv.PutText(img, line, image.Pt(12, 48+i*22), gocv.FontHersheySimplex, 0.5, white, 1)
	}
}
