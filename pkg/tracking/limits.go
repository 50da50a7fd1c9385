// Package tracking turns camera detections into a smoothed eye orientation.
// This file defines the eye's range of motion.
package tracking

import "math"

const (
	// DefaultMaxYaw is the horizontal range of the eye, ±45°.
	DefaultMaxYaw = math.Pi / 4

	// DefaultMaxPitch is the vertical range of the eye, ±30°.
	DefaultMaxPitch = math.Pi / 6

	// DefaultBlend is the fraction of the remaining rotation covered per
	// render tick.
	DefaultBlend = 0.15
)

// Degrees converts radians to degrees for logging/display.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// clamp limits a value to a range
func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
