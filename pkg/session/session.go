// Package session orchestrates the live loop: camera frames in, hand
// detection, gesture mapping, scene stepping, audio, recording and
// dashboard publishing.
//
// All mutable loop state (targets, transforms, anchors, detection
// bookkeeping) is owned by a single goroutine; collaborators hang off
// interfaces so the loop can be exercised without hardware.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/lumascene/handwave/internal/log"
	"github.com/lumascene/handwave/pkg/camera"
	"github.com/lumascene/handwave/pkg/debug"
	"github.com/lumascene/handwave/pkg/gesture"
	"github.com/lumascene/handwave/pkg/hands"
	"github.com/lumascene/handwave/pkg/protocol"
	"github.com/lumascene/handwave/pkg/render"
	"github.com/lumascene/handwave/pkg/scene"
)

var (
	// ErrAlreadyRunning is returned by Start while a session is live.
	ErrAlreadyRunning = errors.New("session already running")
	// ErrNotRunning is returned by Stop when no session is live.
	ErrNotRunning = errors.New("session not running")
)

// Source is the live camera feed. Implemented by camera.Camera.
type Source interface {
	Run(ctx context.Context)
	Snapshot() (camera.Frame, bool)
	Seq() uint64
	Err() error
	Close() error
}

// SourceFactory opens the camera when a session starts.
type SourceFactory func(cfg camera.Config) (Source, error)

// SoundMapper drives the reactive audio engine. Implemented by
// audio.Mapper.
type SoundMapper interface {
	SetTracking(on bool)
	Update(prev, cur gesture.Transform, dt float32, cam scene.Camera, now time.Time)
	Side() scene.Side
	Reset()
}

// Sink consumes composited frames while a recording is running.
// Implemented by recorder.Recorder.
type Sink interface {
	Recording() bool
	WriteFrame(sceneImg image.Image, cam gocv.Mat) error
}

// Publisher fans live output to dashboard clients.
type Publisher interface {
	PublishPreview(jpeg []byte)
	PublishScene(t protocol.Transform)
	PublishStatus(st protocol.Status)
}

// Config holds session loop settings.
type Config struct {
	Camera         camera.Config
	View           scene.Camera
	RenderInterval time.Duration
	DetectInterval time.Duration
	// StatusEvery is the number of render ticks between status pushes.
	StatusEvery int
}

// DefaultConfig returns the standard 30Hz render / 60Hz detection loop.
func DefaultConfig() Config {
	return Config{
		Camera:         camera.DefaultConfig(),
		View:           scene.DefaultCamera(),
		RenderInterval: time.Second / 30,
		DetectInterval: time.Second / 60,
		StatusEvery:    15,
	}
}

// Deps are the session's collaborators.
type Deps struct {
	Detector hands.Detector
	Renderer render.Renderer
	Sound    SoundMapper
	Sink     Sink
	Publish  Publisher
	Open     SourceFactory
}

// detection is a completed detector pass tagged with the run it
// belongs to.
type detection struct {
	epoch uint64
	hands []hands.Hand
	err   error
}

// Session runs the gesture -> scene -> audio -> recording loop.
type Session struct {
	cfg    Config
	sc     *scene.Scene
	deps   Deps
	logger *slog.Logger

	mapper *gesture.Mapper
	motion *gesture.State

	// Snapshot fields, guarded by mu. Everything else below belongs to
	// the loop goroutine.
	mu        sync.RWMutex
	state     State
	status    string
	handCount int
	lastSide  string
	audioOn   bool
	fps       float64
	cancel    context.CancelFunc

	wg       sync.WaitGroup
	detectCh chan detection

	// Loop-owned state.
	epoch      uint64
	inFlight   bool
	seenSeq    uint64
	lastHands  []hands.Hand
	current    gesture.Transform
	lastStep   time.Time
	ticks      int
	detectErrs int
}

// New builds an idle session around the generated scene.
func New(cfg Config, sc *scene.Scene, deps Deps) *Session {
	if deps.Open == nil {
		deps.Open = func(c camera.Config) (Source, error) { return camera.Open(c) }
	}
	return &Session{
		cfg:      cfg,
		sc:       sc,
		deps:     deps,
		logger:   log.Component("session"),
		mapper:   gesture.NewMapper(gesture.DefaultConfig()),
		motion:   gesture.NewState(gesture.DefaultConfig(), time.Now()),
		state:    StateIdle,
		status:   "idle",
		current:  gesture.Identity(),
		detectCh: make(chan detection, 1),
	}
}

// SetPublisher wires the dashboard in after construction, breaking the
// session/server construction cycle. Call before Start.
func (s *Session) SetPublisher(p Publisher) {
	s.deps.Publish = p
}

// NewWithGesture builds a session with explicit gesture tuning.
func NewWithGesture(cfg Config, gcfg gesture.Config, sc *scene.Scene, deps Deps) *Session {
	s := New(cfg, sc, deps)
	s.mapper = gesture.NewMapper(gcfg)
	s.motion = gesture.NewState(gcfg, time.Now())
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Status returns a dashboard snapshot of the session.
func (s *Session) Status() protocol.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return protocol.Status{
		State:     s.state.String(),
		Status:    s.status,
		Tracking:  s.state == StateActive && s.handCount > 0,
		Hands:     s.handCount,
		Recording: s.deps.Sink != nil && s.deps.Sink.Recording(),
		Audio:     s.audioOn,
		Scale:     s.lastSide,
		Side:      s.lastSide,
		SceneSeed: s.sc.Seed,
		FPS:       s.fps,
	}
}

// Start opens the camera and launches the loop. Rejected while a
// session is already live; a stopped session may be started again.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if !s.state.CanTransition(StateCameraPending) {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.state = StateCameraPending
	s.status = "opening camera"
	s.mu.Unlock()

	src, err := s.deps.Open(s.cfg.Camera)
	if err != nil {
		s.mu.Lock()
		s.state = StateStopped
		s.status = "camera: " + err.Error()
		s.mu.Unlock()
		s.logger.Error("camera open failed", "error", err)
		return fmt.Errorf("failed to open camera: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.status = "waiting for first frame"
	s.mu.Unlock()

	// Fresh run: stale results from a previous run carry an older epoch
	// and are discarded by the loop.
	s.epoch++
	epoch := s.epoch
	s.inFlight = false
	s.seenSeq = 0
	s.lastHands = nil
	s.current = gesture.Identity()
	s.lastStep = time.Time{}
	s.ticks = 0
	s.mapper.Reset()

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		src.Run(loopCtx)
	}()
	go func() {
		defer s.wg.Done()
		defer src.Close()
		s.run(loopCtx, src, epoch)
	}()

	s.logger.Info("session started",
		"device", s.cfg.Camera.Device,
		"render_hz", int(time.Second/s.cfg.RenderInterval),
		"detect_hz", int(time.Second/s.cfg.DetectInterval))
	return nil
}

// Stop halts the loop and releases the camera. Rejected when no
// session is live.
func (s *Session) Stop() error {
	s.mu.Lock()
	if !s.state.CanTransition(StateStopped) {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.state = StateStopped
	s.status = "stopped"
	s.audioOn = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	if s.deps.Sound != nil {
		s.deps.Sound.SetTracking(false)
		s.deps.Sound.Reset()
	}
	s.pushStatus()
	s.logger.Info("session stopped")
	return nil
}

// run is the orchestrating goroutine. Nothing else touches loop state
// while it is alive.
func (s *Session) run(ctx context.Context, src Source, epoch uint64) {
	renderTicker := time.NewTicker(s.cfg.RenderInterval)
	detectTicker := time.NewTicker(s.cfg.DetectInterval)
	defer renderTicker.Stop()
	defer detectTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-detectTicker.C:
			s.maybeDetect(src, epoch)

		case res := <-s.detectCh:
			s.applyDetection(res, epoch)

		case now := <-renderTicker.C:
			s.step(src, now)
		}
	}
}

// maybeDetect launches one detector pass when a fresh frame exists and
// no pass is in flight. The detector is never given the same frame
// sequence twice.
func (s *Session) maybeDetect(src Source, epoch uint64) {
	if s.inFlight || s.State() != StateActive {
		return
	}
	seq := src.Seq()
	if seq == 0 || seq == s.seenSeq {
		return
	}
	frame, ok := src.Snapshot()
	if !ok {
		return
	}
	jpegData, err := camera.EncodeJPEG(frame.Mat)
	frame.Mat.Close()
	if err != nil {
		s.logger.Warn("frame encode failed", "error", err)
		return
	}
	s.seenSeq = seq
	s.inFlight = true
	go func() {
		found, derr := s.deps.Detector.Detect(jpegData, frame.TS)
		s.detectCh <- detection{epoch: epoch, hands: found, err: derr}
	}()
}

// applyDetection folds a detector result into the gesture mapper.
// Results from an earlier run, or arriving after the session left
// Active, are discarded.
func (s *Session) applyDetection(res detection, epoch uint64) {
	s.inFlight = false
	if res.epoch != epoch || s.State() != StateActive {
		return
	}
	if res.err != nil {
		s.detectErrs++
		if s.detectErrs == 1 || s.detectErrs%30 == 0 {
			s.logger.Warn("detection failed", "error", res.err, "count", s.detectErrs)
		}
		return
	}
	s.detectErrs = 0
	s.lastHands = res.hands
	s.mapper.Update(res.hands)

	s.mu.Lock()
	s.handCount = len(res.hands)
	s.mu.Unlock()
}

// step advances the scene one render tick: transform, audio, preview,
// recording, publishing.
func (s *Session) step(src Source, now time.Time) {
	if err := src.Err(); err != nil {
		s.fail("camera: " + err.Error())
		return
	}

	switch s.State() {
	case StateCameraPending:
		if src.Seq() == 0 {
			return
		}
		s.activate(now)
	case StateActive:
	default:
		return
	}

	var dt float32
	if !s.lastStep.IsZero() {
		dt = float32(now.Sub(s.lastStep).Seconds())
	}
	s.lastStep = now

	prev := s.current
	cur := s.motion.Step(s.mapper.Targets(), now)
	s.current = cur

	debug.FrameLog("step: rot=(%.2f %.2f %.2f) pan=(%.2f %.2f %.2f) zoom=%.2f hands=%d\n",
		cur.Rotation.X, cur.Rotation.Y, cur.Rotation.Z,
		cur.Pan.X, cur.Pan.Y, cur.Pan.Z, cur.Zoom, s.handCount)

	if s.deps.Sound != nil {
		s.deps.Sound.Update(prev, cur, dt, s.cfg.View, now)
	}

	s.publishFrame(src, cur)

	side := scene.SideCenter
	if s.deps.Sound != nil {
		side = s.deps.Sound.Side()
	}
	calibrating := s.mapper.Calibrating()
	if s.deps.Publish != nil {
		s.deps.Publish.PublishScene(protocol.TransformFrom(cur, side.String(), s.handCount, calibrating))
	}

	s.ticks++
	s.mu.Lock()
	s.lastSide = side.String()
	if dt > 0 {
		inst := 1 / float64(dt)
		if s.fps == 0 {
			s.fps = inst
		} else {
			s.fps = s.fps*0.9 + inst*0.1
		}
	}
	s.mu.Unlock()

	if s.cfg.StatusEvery > 0 && s.ticks%s.cfg.StatusEvery == 0 {
		s.pushStatus()
	}
}

// publishFrame annotates the latest camera frame, feeds the recorder
// and pushes the mirrored preview.
func (s *Session) publishFrame(src Source, cur gesture.Transform) {
	frame, ok := src.Snapshot()
	if !ok {
		return
	}
	defer frame.Mat.Close()

	hands.Draw(&frame.Mat, s.lastHands)

	if s.deps.Sink != nil && s.deps.Sink.Recording() && s.deps.Renderer != nil {
		img := s.deps.Renderer.Render(s.sc, cur, s.cfg.View)
		if err := s.deps.Sink.WriteFrame(img, frame.Mat); err != nil {
			s.logger.Warn("recording frame dropped", "error", err)
		}
	}

	if s.deps.Publish == nil {
		return
	}
	mirror := gocv.NewMat()
	defer mirror.Close()
	gocv.Flip(frame.Mat, &mirror, 1)
	jpegData, err := camera.EncodeJPEG(mirror)
	if err != nil {
		s.logger.Warn("preview encode failed", "error", err)
		return
	}
	s.deps.Publish.PublishPreview(jpegData)
}

// activate marks the first frame: the session becomes Active and the
// spin clock restarts.
func (s *Session) activate(now time.Time) {
	s.mu.Lock()
	s.state = StateActive
	s.status = "tracking"
	s.audioOn = s.deps.Sound != nil
	s.mu.Unlock()

	s.motion.Reset(now)
	if s.deps.Sound != nil {
		s.deps.Sound.SetTracking(true)
	}
	s.pushStatus()
	s.logger.Info("camera ready, session active")
}

// fail stops the loop with a terminal status. Nothing retries; the
// user restarts manually.
func (s *Session) fail(msg string) {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.state = StateStopped
	s.status = msg
	s.audioOn = false
	cancel := s.cancel
	s.mu.Unlock()

	if s.deps.Sound != nil {
		s.deps.Sound.SetTracking(false)
	}
	s.pushStatus()
	s.logger.Error("session failed", "status", msg)
	if cancel != nil {
		cancel()
	}
}

func (s *Session) pushStatus() {
	if s.deps.Publish != nil {
		s.deps.Publish.PublishStatus(s.Status())
	}
}
