// Package detection locates faces in grayscale intensity maps.
package detection

import (
	"sort"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/pkg/frame"
)

// Region is a detected face: top-left corner and size in pixels, plus the
// detector's confidence score.
type Region struct {
	X, Y  int     // Top-left corner
	W, H  int     // Width and height, both > 0
	Score float64 // Detector confidence (scale depends on the backend)
}

// Center returns the center point of the region in pixels.
func (r Region) Center() (x, y float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

// Area returns the area of the bounding box
func (r Region) Area() int {
	return r.W * r.H
}

// Locator is the interface for face detection backends.
type Locator interface {
	// Detect finds faces in the intensity map, best candidate first.
	// An empty result means no face is visible and is not an error.
	Detect(img frame.IntensityMap) ([]Region, error)

	// Close releases resources
	Close() error
}

// Default model asset: the pigo frontal face cascade.
const (
	DefaultModelPath = "facefinder"
	DefaultModelURL  = "https://raw.githubusercontent.com/esimov/pigo/master/cascade/facefinder"
)

// Config holds detector tuning. The values are fixed when a locator is built.
type Config struct {
	ModelPath string `validate:"required"`
	ModelURL  string `validate:"omitempty,url"`

	MinFaceSize    int     `validate:"gt=0"`        // Smallest face to search for, in pixels
	ScoreThreshold float64 `validate:"gte=0"`       // Drop candidates scoring below this
	ScaleFactor    float64 `validate:"gt=0,lt=1"`   // Pyramid shrink per pass
	StrideX        int     `validate:"gt=0"`        // Horizontal window step, pixels
	StrideY        int     `validate:"gt=0"`        // Vertical window step, pixels
	ClusterIoU     float64 `validate:"gte=0,lte=1"` // Overlap above which candidates merge
}

// DefaultConfig returns the tuning used at ~30 Hz on a laptop webcam.
func DefaultConfig() Config {
	return Config{
		ModelPath:      DefaultModelPath,
		ModelURL:       DefaultModelURL,
		MinFaceSize:    30,
		ScoreThreshold: 5.0,
		ScaleFactor:    0.8,
		StrideX:        4,
		StrideY:        4,
		ClusterIoU:     0.2,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	return config.Validate(c)
}

// Rank orders regions best first: higher score wins, ties go to the larger
// box. The input slice is sorted in place and returned.
func Rank(regions []Region) []Region {
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Score != regions[j].Score {
			return regions[i].Score > regions[j].Score
		}
		return regions[i].Area() > regions[j].Area()
	})
	return regions
}

// Best returns the first-ranked region, or false when there is none.
func Best(regions []Region) (Region, bool) {
	if len(regions) == 0 {
		return Region{}, false
	}
	return regions[0], true
}

// Clip intersects r with a width x height frame. It returns false when
// nothing of the region is left.
func Clip(r Region, width, height int) (Region, bool) {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.W, width), min(r.Y+r.H, height)
	if x1 <= x0 || y1 <= y0 {
		return Region{}, false
	}
	return Region{X: x0, Y: y0, W: x1 - x0, H: y1 - y0, Score: r.Score}, true
}
