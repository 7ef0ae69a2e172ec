package web

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/lumascene/handwave/pkg/hub"
	"github.com/lumascene/handwave/pkg/protocol"
	"github.com/lumascene/handwave/pkg/recorder"
	"github.com/lumascene/handwave/pkg/session"
)

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.session.Status())
}

func (s *Server) handleSessionStart(c *fiber.Ctx) error {
	if err := s.session.Start(s.baseCtx); err != nil {
		if errors.Is(err, session.ErrAlreadyRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.session.Status())
}

func (s *Server) handleSessionStop(c *fiber.Ctx) error {
	if err := s.session.Stop(); err != nil {
		if errors.Is(err, session.ErrNotRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.session.Status())
}

func (s *Server) handleRecordingStart(c *fiber.Ctx) error {
	// Recording without a live session would only produce the
	// zero-frame error at stop; reject it up front instead.
	if st := s.session.Status(); st.State != session.StateActive.String() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "session not active",
			"state": st.State,
		})
	}

	id, err := s.recording.Start(time.Now())
	if err != nil {
		if errors.Is(err, recorder.ErrAlreadyRecording) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		s.publishRecording(protocol.Recording{Event: protocol.RecordingFailed, Error: err.Error()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.logger.Info("recording started", "id", id)
	s.publishRecording(protocol.Recording{Event: protocol.RecordingStarted, ID: id})
	return c.JSON(fiber.Map{"id": id})
}

func (s *Server) handleRecordingStop(c *fiber.Ctx) error {
	art, err := s.recording.Stop(time.Now())
	if err != nil {
		if errors.Is(err, recorder.ErrNotRecording) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		s.publishRecording(protocol.Recording{Event: protocol.RecordingFailed, Error: err.Error()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.logger.Info("recording stopped",
		"id", art.ID, "file", art.Name, "frames", art.Frames)
	s.publishRecording(protocol.Recording{
		Event:    protocol.RecordingStopped,
		ID:       art.ID,
		Artifact: art.Name,
		Frames:   art.Frames,
	})
	return c.JSON(art)
}

func (s *Server) handleListRecordings(c *fiber.Ctx) error {
	list, err := s.recording.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(list)
}

// handlePreviewWS streams annotated camera JPEGs as binary messages.
func (s *Server) handlePreviewWS(c *websocket.Conn) {
	hub.NewClient(s.previewHub, c).Run()
}

// handleSceneWS streams scene transform envelopes.
func (s *Server) handleSceneWS(c *websocket.Conn) {
	hub.NewClient(s.sceneHub, c).Run()
}

// handleStatusWS streams status and recording envelopes. The current
// snapshot is sent on connect so the page renders immediately.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	if env, err := protocol.NewEnvelope(protocol.TypeStatus, time.Now(), s.session.Status()); err == nil {
		if data, merr := json.Marshal(env); merr == nil {
			c.WriteMessage(websocket.TextMessage, data)
		}
	}
	hub.NewClient(s.statusHub, c).Run()
}
