package tracking

import "github.com/teslashibe/go-gaze/pkg/tracking/detection"

// Normalize maps the center of a region to gaze coordinates in [-1, 1]
// independent of frame size. +X is frame right and +Y is frame top: image rows
// grow downward, so the vertical axis is flipped.
func Normalize(region detection.Region, frameWidth, frameHeight int) (nx, ny float64) {
	cx, cy := region.Center()

	nx = (cx/float64(frameWidth))*2 - 1
	ny = -((cy/float64(frameHeight))*2 - 1)

	return nx, ny
}

// NormalizeTarget is Normalize wrapped as a present Target.
func NormalizeTarget(region detection.Region, frameWidth, frameHeight int) Target {
	return At(Normalize(region, frameWidth, frameHeight))
}
