package tracking

import (
	"time"

	"github.com/teslashibe/go-gaze/internal/config"
)

// Interpolation selects how the smoother moves toward its target.
type Interpolation string

const (
	// InterpolateSlerp blends the rotation quaternion along the great arc.
	InterpolateSlerp Interpolation = "slerp"
	// InterpolateEuler blends yaw and pitch independently.
	InterpolateEuler Interpolation = "euler"
)

// Config holds all tunable parameters for gaze tracking
type Config struct {
	// Timing
	DetectionInterval time.Duration `validate:"gt=0"` // Pause between detection iterations
	RetryDelay        time.Duration `validate:"gt=0"` // Pause after a failed capture

	// Range
	MaxYaw   float64 `validate:"gt=0,lte=3.1416"` // Maximum yaw in radians (±MaxYaw)
	MaxPitch float64 `validate:"gt=0,lte=1.5708"` // Maximum pitch in radians (±MaxPitch)

	// Smoothing
	Blend         float64       `validate:"gt=0,lte=1"` // Fraction of remaining rotation per tick
	Interpolation Interpolation `validate:"oneof=slerp euler"`

	// Logging
	LogEveryFrames int `validate:"gt=0"` // Log the tracked position every N frames
}

// DefaultConfig returns the ~30 Hz detection loop and the eye's natural range.
func DefaultConfig() Config {
	return Config{
		DetectionInterval: 33 * time.Millisecond, // ~30 FPS
		RetryDelay:        100 * time.Millisecond,

		MaxYaw:   DefaultMaxYaw,
		MaxPitch: DefaultMaxPitch,

		Blend:         DefaultBlend,
		Interpolation: InterpolateSlerp,

		LogEveryFrames: 60,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	return config.Validate(c)
}
