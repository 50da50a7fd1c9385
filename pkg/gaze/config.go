package gaze

import (
	"time"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/pkg/camera"
	"github.com/teslashibe/go-gaze/pkg/desktop"
	"github.com/teslashibe/go-gaze/pkg/tracking"
	"github.com/teslashibe/go-gaze/pkg/tracking/detection"
	"github.com/teslashibe/go-gaze/pkg/tracking/detection/yunet"
	"github.com/teslashibe/go-gaze/pkg/web"
)

// Host selects where the eyes are shown.
type Host string

const (
	HostDesktop  Host = "desktop"  // native window
	HostWeb      Host = "web"      // HTTP + websocket viewer
	HostHeadless Host = "headless" // no output beyond logs and the eye driver
)

// Backend selects the face locator.
type Backend string

const (
	BackendPigo  Backend = "pigo"  // pure Go cascade, the default
	BackendYuNet Backend = "yunet" // OpenCV FaceDetectorYN (ONNX)
	BackendNone  Backend = "none"  // detection disabled
)

// Config holds all configuration for the gaze application.
// Flag parsing is done in cmd/gaze/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool
	// DebugTracking enables per-frame tracking logs.
	DebugTracking bool

	Host    Host    `validate:"oneof=desktop web headless"`
	Backend Backend `validate:"oneof=pigo yunet none"`

	// RenderFPS is the tick rate of the web and headless hosts. The desktop
	// host uses Desktop.FPS.
	RenderFPS int `validate:"gte=1,lte=240"`

	// DriverURL is the websocket URL of a physical eye controller. Empty
	// disables it.
	DriverURL string `validate:"omitempty,url"`

	// StatusEvery is how often the headless host logs the orientation.
	StatusEvery time.Duration `validate:"gt=0"`

	Camera    camera.Config
	Detection detection.Config
	YuNet     yunet.Config
	Tracking  tracking.Config
	Web       web.Config
	Desktop   desktop.Config
}

// DefaultConfig returns sensible defaults for the gaze application.
func DefaultConfig() Config {
	return Config{
		Host:        HostDesktop,
		Backend:     BackendPigo,
		RenderFPS:   60,
		StatusEvery: 2 * time.Second,

		Camera:    camera.DefaultConfig(),
		Detection: detection.DefaultConfig(),
		YuNet:     yunet.DefaultConfig(),
		Tracking:  tracking.DefaultConfig(),
		Web:       web.DefaultConfig(),
		Desktop:   desktop.DefaultConfig(),
	}
}

// LoadEnvConfig loads configuration values from environment variables.
// Call this before flag parsing so flags can override the environment.
func (c *Config) LoadEnvConfig() {
	c.Camera.DeviceIndex = config.Int(config.EnvCameraIndex, c.Camera.DeviceIndex)
	c.Detection.ModelPath = config.String(config.EnvModelPath, c.Detection.ModelPath)
	c.Detection.ModelURL = config.String(config.EnvModelURL, c.Detection.ModelURL)
	c.DriverURL = config.String(config.EnvDriverURL, c.DriverURL)
	if port := config.String(config.EnvPort, ""); port != "" {
		c.Web.Addr = ":" + port
	}
}

// Validate checks the configuration, including every component config.
func (c Config) Validate() error {
	return config.Validate(c)
}
