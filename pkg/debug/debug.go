// Package debug provides global debug logging flags
package debug

import "github.com/teslashibe/go-gaze/internal/log"

// Enabled controls whether debug logging is active
var Enabled bool

// Tracking controls whether per-frame tracking logs are shown (detections,
// publishes, smoother steps). Use --debug-tracking to enable these very
// verbose logs.
var Tracking bool

// TrackLog logs a message only if tracking debug mode is enabled
func TrackLog(msg string, args ...any) {
	if Tracking {
		log.Info(msg, args...)
	}
}
