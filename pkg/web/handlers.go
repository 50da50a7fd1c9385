package web

import (
	"bytes"
	_ "embed"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-gaze/pkg/hub"
)

//go:embed index.html
var indexHTML []byte

// handleIndex serves the viewer page
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(indexHTML)
}

// handleStatus returns the current status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

// handleEyePNG renders the eyes at the current orientation
func (s *Server) handleEyePNG(c *fiber.Ctx) error {
	if s.renderer == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "renderer not configured")
	}

	st := s.Status()
	var buf bytes.Buffer
	if err := s.renderer.EncodePNG(&buf, st.Orientation); err != nil {
		s.logger.Warn("eye render failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "render failed")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("png")
	return c.Send(buf.Bytes())
}

// handleGazeWS streams orientation updates
func (s *Server) handleGazeWS(c *websocket.Conn) {
	// Send the current orientation before the hub takes over the conn
	st := s.Status()
	if data, err := json.Marshal(gazeMessage(st.Ticks, targetOf(st.Target), st.Orientation)); err == nil {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}

	hub.NewClient(s.gazeHub, c).Run()
}

// handleCameraWS streams JPEG camera previews
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}
