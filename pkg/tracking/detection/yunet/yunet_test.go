package yunet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/teslashibe/go-gaze/pkg/frame"
	"github.com/teslashibe/go-gaze/pkg/tracking/detection"
)

func findYuNetModel() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		for _, p := range []string{
			filepath.Join(dir, DefaultModelPath),
			filepath.Join(dir, "models", DefaultModelPath),
		} {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// TestNew_InvalidPath tests error handling for missing model
func TestNew_InvalidPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = "/nonexistent/path/model.onnx"

	_, err := New(cfg)
	if !errors.Is(err, detection.ErrModelMissing) {
		t.Errorf("Expected detection.ErrModelMissing, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig should validate: %v", err)
	}
}

// TestDetect_SolidImage tests detection on a flat gray image (no faces)
func TestDetect_SolidImage(t *testing.T) {
	modelPath := findYuNetModel()
	if modelPath == "" {
		t.Skip("YuNet model not found, skipping test")
	}

	cfg := DefaultConfig()
	cfg.ModelPath = modelPath

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer l.Close()

	img := frame.IntensityMap{Width: 320, Height: 240, Pix: make([]uint8, 320*240)}
	for i := range img.Pix {
		img.Pix[i] = 90
	}

	regions, err := l.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) > 0 {
		t.Errorf("Expected no detections in solid image, got %d", len(regions))
	}
}

// TestDetect_Concurrent tests thread safety
func TestDetect_Concurrent(t *testing.T) {
	modelPath := findYuNetModel()
	if modelPath == "" {
		t.Skip("YuNet model not found, skipping test")
	}

	cfg := DefaultConfig()
	cfg.ModelPath = modelPath

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer l.Close()

	img := frame.IntensityMap{Width: 160, Height: 120, Pix: make([]uint8, 160*120)}

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := l.Detect(img)
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Errorf("Concurrent detection failed: %v", err)
		}
	}
}
