package detection

import "github.com/teslashibe/go-gaze/pkg/frame"

// Disabled is the locator used when no model could be loaded.
// It never finds a face.
type Disabled struct{}

// Detect always returns no regions.
func (Disabled) Detect(frame.IntensityMap) ([]Region, error) { return nil, nil }

// Close is a no-op.
func (Disabled) Close() error { return nil }
