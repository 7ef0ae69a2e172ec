package recorder

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/lumascene/handwave/internal/log"
)

// Recorder state machine errors. These reject out-of-order actions
// without changing state; nothing retries.
var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrNoFrames         = errors.New("recording captured no frames")
)

// State tags the recorder lifecycle.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// Config shapes the output.
type Config struct {
	// OutputDir receives the artifacts.
	OutputDir string
	// Width and Height of the portrait canvas.
	Width  int
	Height int
	// TopFraction is the share of the canvas the scene occupies; the
	// camera fills the rest.
	TopFraction float64
	// FPS is the composition rate the session drives.
	FPS float64
	// SampleRate of the tapped audio.
	SampleRate int
	// Mux remuxes video+audio into one file when ffmpeg is available.
	Mux bool
}

// DefaultConfig is the fixed demo geometry: 1080x1920 portrait at
// 30fps, scene in the top 55%.
func DefaultConfig(outputDir string) Config {
	return Config{
		OutputDir:   outputDir,
		Width:       1080,
		Height:      1920,
		TopFraction: 0.55,
		FPS:         30,
		SampleRate:  48000,
		Mux:         true,
	}
}

// Artifact describes one finished recording.
type Artifact struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	Name     string        `json:"name"`
	Frames   int           `json:"frames"`
	Duration time.Duration `json:"duration"`
	HasAudio bool          `json:"hasAudio"`
	Codec    string        `json:"codec"`
	Size     int64         `json:"size"`
}

// active is the in-flight recording. It exists only between Start and
// Stop; Stop turns it into an Artifact and discards it.
type active struct {
	id        string
	startedAt time.Time
	writer    frameWriter
	videoPath string
	oggPath   string
	codec     string
	comp      *compositor
	sink      *oggSink
	frames    int
}

// Recorder owns the idle/recording state machine. Start and Stop come
// from HTTP handlers while WriteFrame comes from the session loop, so
// everything is mutex-guarded.
type Recorder struct {
	cfg     Config
	tap     *Tap
	factory writerFactory

	mu    sync.Mutex
	state State
	cur   *active
}

// New builds a recorder writing through gocv. The tap may be nil, in
// which case recordings are video-only.
func New(cfg Config, tap *Tap) *Recorder {
	return &Recorder{cfg: cfg, tap: tap, factory: gocvWriterFactory}
}

// newWithFactory lets tests substitute the video writer.
func newWithFactory(cfg Config, tap *Tap, factory writerFactory) *Recorder {
	return &Recorder{cfg: cfg, tap: tap, factory: factory}
}

// State returns the current lifecycle tag.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Recording reports whether a session is in flight.
func (r *Recorder) Recording() bool {
	return r.State() == StateRecording
}

// Start opens the writer and connects the audio sink. Starting while
// recording returns ErrAlreadyRecording and changes nothing.
func (r *Recorder) Start(now time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	base := "handwave_" + now.Format("20060102_150405")
	writer, videoPath, codec, err := openPreferredWriter(
		r.factory, r.cfg.OutputDir, base, r.cfg.FPS, r.cfg.Width, r.cfg.Height)
	if err != nil {
		return "", fmt.Errorf("failed to start recording: %w", err)
	}

	a := &active{
		id:        uuid.NewString(),
		startedAt: now,
		writer:    writer,
		videoPath: videoPath,
		codec:     codec,
		comp:      newCompositor(r.cfg.Width, r.cfg.Height, r.cfg.TopFraction),
	}

	if r.tap != nil {
		a.oggPath = filepath.Join(r.cfg.OutputDir, base+".ogg")
		sink, err := newOggSink(a.oggPath, r.cfg.SampleRate)
		if err != nil {
			// Audio is best-effort: a missing opus encoder degrades
			// to a video-only recording rather than failing the start.
			log.Component("recorder").Warn("audio capture unavailable", "error", err)
			a.oggPath = ""
		} else {
			a.sink = sink
			r.tap.setSink(sink)
		}
	}

	r.cur = a
	r.state = StateRecording
	log.Component("recorder").Info("recording started",
		"id", a.id, "video", videoPath, "codec", codec, "audio", a.sink != nil)
	return a.id, nil
}

// WriteFrame composes and writes one frame. A no-op while idle, so a
// straggling tick after Stop is harmless.
func (r *Recorder) WriteFrame(sceneImg image.Image, cam gocv.Mat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return nil
	}

	canvas, err := r.cur.comp.compose(sceneImg, cam)
	if err != nil {
		return fmt.Errorf("failed to compose frame: %w", err)
	}
	if err := r.cur.writer.Write(canvas); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	r.cur.frames++
	return nil
}

// Stop finalizes the recording. Stopping while idle returns
// ErrNotRecording. Zero captured frames is an error and leaves no
// artifact; otherwise exactly one artifact is produced, muxed with the
// audio when possible.
func (r *Recorder) Stop(now time.Time) (Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return Artifact{}, ErrNotRecording
	}

	a := r.cur
	r.cur = nil
	r.state = StateIdle

	if r.tap != nil {
		r.tap.setSink(nil)
	}
	audioFrames := 0
	if a.sink != nil {
		audioFrames = a.sink.Frames()
		if err := a.sink.Close(); err != nil {
			log.Component("recorder").Warn("audio sink close failed", "error", err)
		}
	}
	a.writer.Close()
	a.comp.close()

	if a.frames == 0 {
		os.Remove(a.videoPath)
		if a.oggPath != "" {
			os.Remove(a.oggPath)
		}
		return Artifact{}, ErrNoFrames
	}

	art := Artifact{
		ID:       a.id,
		Path:     a.videoPath,
		Frames:   a.frames,
		Duration: now.Sub(a.startedAt),
		HasAudio: audioFrames > 0,
		Codec:    a.codec,
	}

	if !art.HasAudio && a.oggPath != "" {
		os.Remove(a.oggPath)
	}
	if art.HasAudio && r.cfg.Mux {
		mkv := strings.TrimSuffix(a.videoPath, filepath.Ext(a.videoPath)) + ".mkv"
		if err := muxArtifact(a.videoPath, a.oggPath, mkv); err != nil {
			log.Component("recorder").Warn("mux skipped, keeping separate files", "error", err)
		} else {
			art.Path = mkv
		}
	}

	art.Name = filepath.Base(art.Path)
	if fi, err := os.Stat(art.Path); err == nil {
		art.Size = fi.Size()
	}
	log.Component("recorder").Info("recording stopped",
		"id", art.ID, "frames", art.Frames, "artifact", art.Path, "audio", art.HasAudio)
	return art, nil
}

// List returns the artifacts on disk, newest first.
func (r *Recorder) List() ([]Artifact, error) {
	entries, err := os.ReadDir(r.cfg.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var out []Artifact
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "handwave_") {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".mp4", ".avi", ".mkv":
		default:
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Artifact{
			Name: e.Name(),
			Path: filepath.Join(r.cfg.OutputDir, e.Name()),
			Size: fi.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}
