// Package camera opens a local camera device and yields RGB frames.
package camera

import (
	"time"

	"github.com/teslashibe/go-gaze/internal/config"
)

// Resolution request sent to the driver when asking for the largest mode.
// Drivers clamp an oversized request to the largest size they advertise.
const (
	maxRequestWidth  = 10000
	maxRequestHeight = 10000
)

// Config holds camera settings.
type Config struct {
	// DeviceIndex is the zero-based camera index.
	DeviceIndex int `json:"device_index" validate:"gte=0"`

	// Width and Height request a capture size. Zero asks for the highest
	// resolution the device advertises.
	Width  int `json:"width" validate:"gte=0"`
	Height int `json:"height" validate:"gte=0"`

	// RetryDelay is how long the capture loop waits after a failed read.
	RetryDelay time.Duration `json:"retry_delay" validate:"gt=0"`
}

// DefaultConfig returns the first camera at its highest resolution.
func DefaultConfig() Config {
	return Config{
		DeviceIndex: 0,
		Width:       0, // highest advertised
		Height:      0,
		RetryDelay:  100 * time.Millisecond,
	}
}

// HighestResolution reports whether the config asks for the largest mode.
func (c Config) HighestResolution() bool {
	return c.Width == 0 || c.Height == 0
}

// Validate checks the config values.
func (c Config) Validate() error {
	return config.Validate(c)
}
