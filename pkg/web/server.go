// Package web serves the dashboard: REST control over session and
// recording plus websocket streams for preview frames, scene
// transforms and status.
package web

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/lumascene/handwave/internal/log"
	"github.com/lumascene/handwave/pkg/hub"
	"github.com/lumascene/handwave/pkg/protocol"
	"github.com/lumascene/handwave/pkg/recorder"
)

// SessionController is the slice of the session the dashboard drives.
type SessionController interface {
	Start(ctx context.Context) error
	Stop() error
	Status() protocol.Status
}

// RecordingController is the slice of the recorder the dashboard
// drives.
type RecordingController interface {
	Start(now time.Time) (string, error)
	Stop(now time.Time) (recorder.Artifact, error)
	List() ([]recorder.Artifact, error)
	Recording() bool
}

// Config holds server settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// StaticDir holds the dashboard page, served at /.
	StaticDir string
	// OutputDir holds finished recordings, served at /recordings.
	OutputDir string
}

// DefaultConfig serves ./web on :8089 with recordings in ./recordings.
func DefaultConfig() Config {
	return Config{Addr: ":8089", StaticDir: "./web", OutputDir: "./recordings"}
}

// Server is the dashboard HTTP + websocket server. It also implements
// session.Publisher so the loop can push straight into the hubs.
type Server struct {
	cfg    Config
	app    *fiber.App
	logger *slog.Logger

	session   SessionController
	recording RecordingController

	previewHub *hub.Hub
	sceneHub   *hub.Hub
	statusHub  *hub.Hub

	// baseCtx parents sessions started over REST so they outlive the
	// request but die with the server.
	baseCtx context.Context
}

// NewServer wires routes and hubs around the controllers.
func NewServer(cfg Config, sess SessionController, rec RecordingController) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     log.Component("web"),
		session:    sess,
		recording:  rec,
		previewHub: hub.New("preview"),
		sceneHub:   hub.New("scene"),
		statusHub:  hub.New("status"),
		baseCtx:    context.Background(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "handwave dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Static("/", cfg.StaticDir)
	app.Static("/recordings", cfg.OutputDir, fiber.Static{Browse: true})

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/session/start", s.handleSessionStart)
	api.Post("/session/stop", s.handleSessionStop)
	api.Post("/recording/start", s.handleRecordingStart)
	api.Post("/recording/stop", s.handleRecordingStop)
	api.Get("/recordings", s.handleListRecordings)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/preview", websocket.New(s.handlePreviewWS))
	app.Get("/ws/scene", websocket.New(s.handleSceneWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.baseCtx = ctx
	go s.previewHub.Run(ctx)
	go s.sceneHub.Run(ctx)
	go s.statusHub.Run(ctx)

	s.logger.Info("dashboard listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PublishPreview broadcasts an annotated JPEG frame. Dropped when no
// preview client is connected.
func (s *Server) PublishPreview(jpeg []byte) {
	if s.previewHub.ClientCount() == 0 {
		return
	}
	s.previewHub.BroadcastBinary(jpeg)
}

// PublishScene broadcasts the live scene transform.
func (s *Server) PublishScene(t protocol.Transform) {
	env, err := protocol.NewEnvelope(protocol.TypeTransform, time.Now(), t)
	if err != nil {
		return
	}
	s.sceneHub.BroadcastJSON(env)
}

// PublishStatus broadcasts a session status snapshot.
func (s *Server) PublishStatus(st protocol.Status) {
	env, err := protocol.NewEnvelope(protocol.TypeStatus, time.Now(), st)
	if err != nil {
		return
	}
	s.statusHub.BroadcastJSON(env)
}

// publishRecording announces recorder lifecycle events on the status
// stream.
func (s *Server) publishRecording(ev protocol.Recording) {
	env, err := protocol.NewEnvelope(protocol.TypeRecording, time.Now(), ev)
	if err != nil {
		return
	}
	s.statusHub.BroadcastJSON(env)
}
