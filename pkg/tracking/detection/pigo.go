package detection

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/frame"
)

// PigoLocator runs the pigo pixel-intensity-comparison cascade over an
// intensity map. The unpacked classifier is read-only, so Detect is safe for
// concurrent use.
type PigoLocator struct {
	classifier *pigo.Pigo
	config     Config
}

// NewPigo loads the cascade at cfg.ModelPath.
func NewPigo(cfg Config) (*PigoLocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("detector config: %w", err)
	}

	data, err := os.ReadFile(cfg.ModelPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelMissing, cfg.ModelPath)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelMissing, cfg.ModelPath, err)
	}

	classifier, err := unpackCascade(data)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %v", ErrModelMissing, cfg.ModelPath, err)
	}

	log.Debug("pigo cascade loaded", "path", cfg.ModelPath, "bytes", len(data))

	return &PigoLocator{classifier: classifier, config: cfg}, nil
}

// unpackCascade parses a cascade file. pigo indexes the buffer without bounds
// checks and panics on truncated input, which is turned into an error here.
func unpackCascade(data []byte) (classifier *pigo.Pigo, err error) {
	defer func() {
		if r := recover(); r != nil {
			classifier, err = nil, fmt.Errorf("corrupt cascade: %v", r)
		}
	}()
	return pigo.NewPigo().Unpack(data)
}

// cascadeParams translates the locator config into pigo's search parameters.
// pigo grows its window by ScaleFactor each pass where the config shrinks the
// image, so the factor is inverted. The stride becomes a fraction of the
// smallest window.
func (p *PigoLocator) cascadeParams(img frame.IntensityMap) pigo.CascadeParams {
	stride := min(p.config.StrideX, p.config.StrideY)
	return pigo.CascadeParams{
		MinSize:     p.config.MinFaceSize,
		MaxSize:     min(img.Width, img.Height),
		ShiftFactor: float64(stride) / float64(p.config.MinFaceSize),
		ScaleFactor: 1 / p.config.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: img.Pix,
			Rows:   img.Height,
			Cols:   img.Width,
			Dim:    img.Width,
		},
	}
}

// Detect finds faces in the intensity map.
func (p *PigoLocator) Detect(img frame.IntensityMap) ([]Region, error) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) != img.Width*img.Height {
		return nil, fmt.Errorf("detect: bad intensity map %dx%d (%d bytes)", img.Width, img.Height, len(img.Pix))
	}
	if min(img.Width, img.Height) < p.config.MinFaceSize {
		return nil, nil
	}

	dets := p.classifier.RunCascade(p.cascadeParams(img), 0)
	dets = p.classifier.ClusterDetections(dets, p.config.ClusterIoU)

	var regions []Region
	for _, d := range dets {
		score := float64(d.Q)
		if score < p.config.ScoreThreshold {
			continue
		}
		// pigo reports the window center (row, col) and its side length.
		half := int(math.Round(float64(d.Scale) / 2))
		r, ok := Clip(Region{
			X:     d.Col - half,
			Y:     d.Row - half,
			W:     d.Scale,
			H:     d.Scale,
			Score: score,
		}, img.Width, img.Height)
		if ok {
			regions = append(regions, r)
		}
	}

	Rank(regions)
	if len(regions) > 0 {
		debug.TrackLog("pigo found faces", "count", len(regions), "best_score", regions[0].Score)
	}

	return regions, nil
}

// Close is a no-op; the classifier holds no external resources.
func (p *PigoLocator) Close() error {
	return nil
}
