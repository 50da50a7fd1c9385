// Package web serves the eyes over HTTP: a status API, a rendered eye image,
// and live orientation and camera preview streams over websockets.
package web

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/pkg/hub"
	"github.com/teslashibe/go-gaze/pkg/render"
	"github.com/teslashibe/go-gaze/pkg/tracking"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config configures the web host.
type Config struct {
	Addr         string  `validate:"required"`        // Listen address, e.g. ":8181"
	PreviewWidth int     `validate:"gte=32,lte=1920"` // Camera preview width in pixels
	PreviewFPS   float64 `validate:"gt=0,lte=30"`     // Max camera previews per second
	JPEGQuality  int     `validate:"gte=1,lte=100"`   // Camera preview JPEG quality
}

// DefaultConfig returns the web host defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8181",
		PreviewWidth: 320,
		PreviewFPS:   5,
		JPEGQuality:  70,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	return config.Validate(c)
}

// Status is the snapshot served by /api/status.
type Status struct {
	SessionID   string               `json:"session_id"`
	Host        string               `json:"host"`
	Detector    string               `json:"detector"`
	CameraOpen  bool                 `json:"camera_open"`
	Target      TargetView           `json:"target"`
	Orientation tracking.Orientation `json:"orientation"`
	Pipeline    tracking.Stats       `json:"pipeline"`
	Ticks       uint64               `json:"ticks"`
	Clients     int                  `json:"clients"`
	StartedAt   time.Time            `json:"started_at"`
}

// TargetView is a gaze target as JSON.
type TargetView struct {
	Present bool    `json:"present"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// ViewOf converts a target for the wire.
func ViewOf(t tracking.Target) TargetView {
	return TargetView{Present: t.Present, X: t.X, Y: t.Y}
}

// GazeMessage is broadcast on /ws/gaze once per render tick.
type GazeMessage struct {
	Tick     uint64     `json:"tick"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	YawDeg   float64    `json:"yaw_deg"`
	PitchDeg float64    `json:"pitch_deg"`
	Target   TargetView `json:"target"`
}

// Server is the web render host
type Server struct {
	app    *fiber.App
	config Config
	logger *slog.Logger

	renderer *render.EyeRenderer

	// State
	status   Status
	statusMu sync.RWMutex

	// Hubs for websocket broadcast
	gazeHub   *hub.Hub
	cameraHub *hub.Hub

	previewLimiter *rate.Limiter
}

// NewServer creates a new web host server
func NewServer(cfg Config, renderer *render.EyeRenderer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "web")

	s := &Server{
		config:         cfg,
		logger:         logger,
		renderer:       renderer,
		status:         Status{StartedAt: time.Now()},
		gazeHub:        hub.New("gaze", logger),
		cameraHub:      hub.New("camera", logger),
		previewLimiter: rate.NewLimiter(rate.Limit(cfg.PreviewFPS), 1),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-gaze",
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/eye.png", s.handleEyePNG)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/gaze", websocket.New(s.handleGazeWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start listens on the configured address until the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve runs the hubs and serves HTTP on ln. The hubs stop with ctx.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.gazeHub.Run(ctx)
	go s.cameraHub.Run(ctx)

	s.logger.Info("web host listening", "url", "http://"+ln.Addr().String())
	return s.app.Listener(ln)
}

// UpdateStatus mutates the served status under the lock.
func (s *Server) UpdateStatus(update func(*Status)) {
	s.statusMu.Lock()
	update(&s.status)
	s.statusMu.Unlock()
}

// Status returns a copy of the served status.
func (s *Server) Status() Status {
	s.statusMu.RLock()
	st := s.status
	s.statusMu.RUnlock()
	st.Clients = s.gazeHub.ClientCount() + s.cameraHub.ClientCount()
	return st
}

// PublishOrientation records the latest tick and broadcasts it to /ws/gaze
// clients.
func (s *Server) PublishOrientation(tick uint64, target tracking.Target, o tracking.Orientation) {
	s.UpdateStatus(func(st *Status) {
		st.Ticks = tick
		st.Target = ViewOf(target)
		st.Orientation = o
	})

	if s.gazeHub.ClientCount() == 0 {
		return
	}
	if err := s.gazeHub.BroadcastJSON(gazeMessage(tick, target, o)); err != nil {
		s.logger.Warn("gaze broadcast failed", "error", err)
	}
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func gazeMessage(tick uint64, target tracking.Target, o tracking.Orientation) GazeMessage {
	yaw, pitch := o.Degrees()
	return GazeMessage{
		Tick:     tick,
		Yaw:      o.Yaw,
		Pitch:    o.Pitch,
		YawDeg:   yaw,
		PitchDeg: pitch,
		Target:   ViewOf(target),
	}
}
