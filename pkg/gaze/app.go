// Package gaze wires the camera, the detection loop, the smoother and a
// render host into the face tracking eyes application.
package gaze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/teslashibe/go-gaze/internal/httpc"
	"github.com/teslashibe/go-gaze/pkg/camera"
	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/driver"
	"github.com/teslashibe/go-gaze/pkg/render"
	"github.com/teslashibe/go-gaze/pkg/tracking"
	"github.com/teslashibe/go-gaze/pkg/tracking/detection"
	"github.com/teslashibe/go-gaze/pkg/tracking/detection/yunet"
	"github.com/teslashibe/go-gaze/pkg/web"
)

// shutdownGrace is how long Shutdown waits for the detection loop before
// leaving the camera to the OS.
const shutdownGrace = 500 * time.Millisecond

// Option customizes an App.
type Option func(*App)

// WithStream replaces the camera with stream.
func WithStream(stream tracking.FrameStream) Option {
	return func(a *App) { a.stream = stream }
}

// WithLocator replaces the configured face locator.
func WithLocator(name string, locator detection.Locator) Option {
	return func(a *App) {
		a.locator = locator
		a.detector = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// App is the main gaze application orchestrator.
// It manages all components and their lifecycle.
type App struct {
	config    Config
	logger    *slog.Logger
	sessionID string

	// Detection context
	stream       tracking.FrameStream
	locator      detection.Locator
	detector     string
	pipeline     *tracking.Pipeline
	pipelineDone <-chan struct{}

	// Shared between the two contexts
	state *tracking.GazeState

	// Render context
	smoother *tracking.Smoother
	renderer *render.EyeRenderer
	current  atomic.Pointer[tracking.Orientation]

	// Outputs
	webServer *web.Server
	driver    driver.EyeDriver
	poses     chan tracking.Orientation

	statusSometimes rate.Sometimes
}

// New creates a new gaze application with the given configuration.
func New(cfg Config, opts ...Option) (*App, error) {
	// One retry delay for the camera and the loop that drives it
	cfg.Tracking.RetryDelay = cfg.Camera.RetryDelay

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	debug.Enabled = cfg.Debug
	debug.Tracking = cfg.DebugTracking

	a := &App{
		config:          cfg,
		sessionID:       uuid.NewString(),
		state:           tracking.NewGazeState(),
		smoother:        tracking.NewSmoother(cfg.Tracking),
		driver:          driver.Nop{},
		poses:           make(chan tracking.Orientation, 1),
		statusSometimes: rate.Sometimes{Interval: cfg.StatusEvery},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("session", a.sessionID[:8])
	a.current.Store(&tracking.Orientation{})

	return a, nil
}

// Init initializes all components.
// Call this after New() and before Run(). Camera, model and driver failures
// are logged and degrade the app; they are never returned.
func (a *App) Init(ctx context.Context) error {
	a.logger.Info("face tracking eyes starting",
		"host", a.config.Host,
		"backend", a.config.Backend)
	if debug.Enabled {
		gg.SetLogger(a.logger.With("component", "gg"))
	}

	a.renderer = render.NewEyeRenderer(int(a.config.Desktop.Width), int(a.config.Desktop.Height), render.DefaultStyle())

	if a.locator == nil {
		a.initLocator(ctx)
	}
	if a.stream == nil {
		a.initCamera()
	}

	if a.config.DriverURL != "" {
		d, err := driver.Dial(ctx, driver.DefaultConfig(a.config.DriverURL), a.logger)
		if err != nil {
			a.logger.Warn("eye driver unavailable, continuing without it", "error", err)
		} else {
			a.driver = d
		}
	}

	if a.config.Host == HostWeb {
		a.webServer = web.NewServer(a.config.Web, a.renderer, a.logger)
		a.webServer.UpdateStatus(func(st *web.Status) {
			st.SessionID = a.sessionID
			st.Host = string(a.config.Host)
			st.Detector = a.detector
			st.CameraOpen = a.stream != nil
		})
	}

	if a.stream != nil {
		a.pipeline = tracking.NewPipeline(a.config.Tracking, a.stream, a.locator, a.state, a.logger)
		if a.webServer != nil {
			a.pipeline.OnFrame = a.webServer.SendPreview
		}
	}

	return nil
}

// initLocator builds the configured face locator. Any failure leaves
// detection disabled: the camera keeps running and the eyes rest.
func (a *App) initLocator(ctx context.Context) {
	var (
		locator detection.Locator
		err     error
	)

	switch a.config.Backend {
	case BackendPigo:
		cfg := a.config.Detection
		if err = detection.EnsureModel(ctx, httpc.Client, cfg.ModelPath, cfg.ModelURL, a.logger); err == nil {
			locator, err = detection.NewPigo(cfg)
		}
	case BackendYuNet:
		cfg := a.config.YuNet
		if err = detection.EnsureModel(ctx, httpc.Client, cfg.ModelPath, cfg.ModelURL, a.logger); err == nil {
			locator, err = yunet.New(cfg)
		}
	}

	if err != nil || locator == nil {
		if err != nil {
			a.logger.Error("face detection disabled", "backend", a.config.Backend, "error", err)
		}
		a.locator = detection.Disabled{}
		a.detector = string(BackendNone)
		return
	}

	a.locator = locator
	a.detector = string(a.config.Backend)
	a.logger.Info("face detector ready", "backend", a.detector)
}

// initCamera opens the camera. When it cannot be opened the detection loop
// never starts and the render side sees "absent" forever.
func (a *App) initCamera() {
	dev, err := camera.Open(a.config.Camera, a.logger)
	if err != nil {
		a.logger.Error("camera unavailable, eyes will rest at center", "error", err)
		return
	}
	a.stream = dev
}

// Run starts the detection loop and the render host.
// Blocks until the host quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.pipeline != nil {
		a.pipelineDone = a.pipeline.Start(ctx)
	}
	if _, ok := a.driver.(driver.Nop); !ok {
		go a.driverLoop(ctx)
	}

	switch a.config.Host {
	case HostDesktop:
		return a.runDesktop(ctx)
	case HostWeb:
		return a.runWeb(ctx)
	default:
		return a.runHeadless(ctx)
	}
}

// Tick advances the render context by one frame: read the shared state,
// smooth toward it, and hand the orientation to the outputs. Only the host's
// tick goroutine calls it.
func (a *App) Tick() tracking.Orientation {
	target := a.state.Read()
	o := a.smoother.Tick(target)
	a.current.Store(&o)

	select {
	case a.poses <- o:
	default:
		// Driver busy; it will get a newer pose next tick
	}

	if a.webServer != nil {
		a.webServer.PublishOrientation(a.smoother.Ticks(), target, o)
	}

	a.statusSometimes.Do(func() {
		yaw, pitch := o.Degrees()
		args := []any{
			"present", target.Present,
			"yaw", fmt.Sprintf("%.1f°", yaw),
			"pitch", fmt.Sprintf("%.1f°", pitch),
		}
		if a.pipeline != nil {
			stats := a.pipeline.Stats()
			args = append(args, "frames", stats.Frames, "faces", stats.Faces)
			if a.webServer != nil {
				a.webServer.UpdateStatus(func(st *web.Status) { st.Pipeline = stats })
			}
		}
		level := slog.LevelDebug
		if a.config.Host == HostHeadless {
			level = slog.LevelInfo
		}
		a.logger.Log(context.Background(), level, "gaze", args...)
	})

	return o
}

// Orientation returns the orientation of the last tick.
func (a *App) Orientation() tracking.Orientation {
	return *a.current.Load()
}

// State returns the shared gaze state.
func (a *App) State() *tracking.GazeState {
	return a.state
}

// SessionID returns the id of this run.
func (a *App) SessionID() string {
	return a.sessionID
}

// Detector returns the name of the active face locator.
func (a *App) Detector() string {
	return a.detector
}

func (a *App) driverLoop(ctx context.Context) {
	var failures rate.Sometimes
	failures.Interval = 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		case o := <-a.poses:
			if err := a.driver.SetEyePose(o); err != nil && !errors.Is(err, driver.ErrNotConnected) {
				failures.Do(func() { a.logger.Warn("eye driver update failed", "error", err) })
			}
		}
	}
}

// Shutdown releases what the app owns. The detection loop gets a short grace
// period; if it is still inside a camera read the camera is left for the OS
// to reclaim at exit.
func (a *App) Shutdown() {
	a.logger.Info("shutting down")

	if a.webServer != nil {
		if err := a.webServer.Shutdown(); err != nil {
			a.logger.Debug("web server shutdown", "error", err)
		}
	}
	if err := a.driver.Close(); err != nil {
		a.logger.Warn("eye driver close", "error", err)
	}

	if a.pipelineDone != nil {
		select {
		case <-a.pipelineDone:
		case <-time.After(shutdownGrace):
			a.logger.Warn("detection loop still busy, abandoning it")
			return
		}
	}
	if a.stream != nil {
		a.stream.Close()
	}
	if a.locator != nil {
		a.locator.Close()
	}
}
