// Package yunet locates faces with OpenCV's FaceDetectorYN. It lives apart
// from package detection so the pure Go pipeline builds without cgo.
package yunet

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/tracking/detection"
	"github.com/teslashibe/go-gaze/pkg/frame"
)

// Default YuNet model asset from the OpenCV model zoo.
const (
	DefaultModelPath = "face_detection_yunet_2023mar.onnx"
	DefaultModelURL  = "https://github.com/opencv/opencv_zoo/raw/main/models/face_detection_yunet/face_detection_yunet_2023mar.onnx"
)

// Config holds YuNet detector configuration.
type Config struct {
	ModelPath      string  `validate:"required"`
	ModelURL       string  `validate:"omitempty,url"`
	ScoreThreshold float64 `validate:"gt=0,lte=1"` // Minimum confidence
	NMSThreshold   float64 `validate:"gt=0,lte=1"`
	TopK           int     `validate:"gt=0"`
	MinFaceSize    int     `validate:"gte=0"` // Drop boxes narrower than this, pixels
}

// DefaultConfig returns production defaults for YuNet.
func DefaultConfig() Config {
	return Config{
		ModelPath:      DefaultModelPath,
		ModelURL:       DefaultModelURL,
		ScoreThreshold: 0.6,
		NMSThreshold:   0.3,
		TopK:           5000,
		MinFaceSize:    30,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	return config.Validate(c)
}

// Locator uses OpenCV's FaceDetectorYN. Inference is serialized because
// the detector's input size is reset per image.
type Locator struct {
	detector gocv.FaceDetectorYN
	config   Config
	mu       sync.Mutex
}

// New creates a YuNet locator using GoCV's built-in FaceDetectorYN.
func New(cfg Config) (*Locator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("yunet config: %w", err)
	}
	if _, err := os.Stat(cfg.ModelPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", detection.ErrModelMissing, cfg.ModelPath)
	}

	// Created with a placeholder size; SetInputSize runs per image.
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"", // No config file needed for ONNX
		image.Pt(320, 320),
		float32(cfg.ScoreThreshold),
		float32(cfg.NMSThreshold),
		cfg.TopK,
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &Locator{
		detector: detector,
		config:   cfg,
	}, nil
}

// Detect finds faces in the intensity map. YuNet expects three channels, so
// the gray plane is replicated into BGR first.
func (d *Locator) Detect(img frame.IntensityMap) ([]detection.Region, error) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) != img.Width*img.Height {
		return nil, fmt.Errorf("detect: bad intensity map %dx%d (%d bytes)", img.Width, img.Height, len(img.Pix))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	gray, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC1, img.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrap intensity map: %w", err)
	}
	defer gray.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(gray, &bgr, gocv.ColorGrayToBGR)

	d.detector.SetInputSize(image.Pt(img.Width, img.Height))

	faces := gocv.NewMat()
	defer faces.Close()

	d.detector.Detect(bgr, &faces)

	var regions []detection.Region
	for r := 0; r < faces.Rows(); r++ {
		// YuNet output format (15 columns):
		// 0-3: x, y, w, h (bounding box in pixels)
		// 4-13: 5 facial landmarks (x,y pairs)
		// 14: face score
		w := int(faces.GetFloatAt(r, 2))
		if w < d.config.MinFaceSize {
			continue
		}
		region, ok := detection.Clip(detection.Region{
			X:     int(faces.GetFloatAt(r, 0)),
			Y:     int(faces.GetFloatAt(r, 1)),
			W:     w,
			H:     int(faces.GetFloatAt(r, 3)),
			Score: float64(faces.GetFloatAt(r, 14)),
		}, img.Width, img.Height)
		if ok {
			regions = append(regions, region)
		}
	}

	detection.Rank(regions)
	if len(regions) > 0 {
		debug.TrackLog("yunet found faces", "count", len(regions), "best_score", regions[0].Score)
	}

	return regions, nil
}

// Close releases the detector resources
func (d *Locator) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}
