// watch - tail the dashboard websocket streams from a terminal.
//
// Handy for checking gesture mapping over SSH where the browser
// dashboard is not an option:
//
//	watch --stream scene
//	watch --stream status --raw
package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumascene/handwave/pkg/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:8089", "Dashboard host:port")
	stream := flag.String("stream", "scene", "Stream to follow: scene or status")
	raw := flag.Bool("raw", false, "Print raw JSON envelopes")
	flag.Parse()

	if *stream != "scene" && *stream != "status" {
		stdlog.Fatalf("❌ Unknown stream %q (want scene or status)", *stream)
	}

	url := fmt.Sprintf("ws://%s/ws/%s", *addr, *stream)
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		stdlog.Fatalf("❌ Connect %s: %v", url, err)
	}
	defer conn.Close()
	fmt.Printf("👀 Watching %s (Ctrl+C to stop)\n", url)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n👋 Bye")
		conn.Close()
		os.Exit(0)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			fmt.Printf("\n❌ Stream closed: %v\n", err)
			return
		}
		if *raw {
			fmt.Println(string(msg))
			continue
		}
		env, err := protocol.Parse(msg)
		if err != nil {
			fmt.Printf("\n⚠️  %v\n", err)
			continue
		}
		printEnvelope(env)
	}
}

func printEnvelope(env protocol.Envelope) {
	switch env.Type {
	case protocol.TypeTransform:
		var t protocol.Transform
		if err := env.Decode(&t); err != nil {
			return
		}
		calib := ""
		if t.Calibrating {
			calib = "  calibrating"
		}
		// Overwrite in place; transforms arrive 30 times a second.
		fmt.Printf("\rrot %6.1f° %6.1f° %6.1f°  pan %5.2f %5.2f %5.2f  zoom %5.2f  %-6s  hands %d%s   ",
			deg(t.Rotation.X), deg(t.Rotation.Y), deg(t.Rotation.Z),
			t.Pan.X, t.Pan.Y, t.Pan.Z, t.Zoom, t.Side, t.Hands, calib)

	case protocol.TypeStatus:
		var st protocol.Status
		if err := env.Decode(&st); err != nil {
			return
		}
		fmt.Printf("\n[%s] %s  hands=%d recording=%v audio=%v fps=%.1f\n",
			st.State, st.Status, st.Hands, st.Recording, st.Audio, st.FPS)

	case protocol.TypeRecording:
		var ev protocol.Recording
		if err := env.Decode(&ev); err != nil {
			return
		}
		if ev.Error != "" {
			fmt.Printf("\n🔴 recording %s: %s\n", ev.Event, ev.Error)
		} else {
			fmt.Printf("\n🔴 recording %s %s %s\n", ev.Event, ev.ID, ev.Artifact)
		}
	}
}

func deg(rad float32) float64 {
	return float64(rad) * 180 / math.Pi
}
