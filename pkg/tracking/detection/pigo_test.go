package detection

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/teslashibe/go-gaze/pkg/frame"
)

// findCascade walks up from the test directory looking for the pigo cascade.
func findCascade() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		p := filepath.Join(dir, DefaultModelPath)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func newTestPigo(t *testing.T) *PigoLocator {
	t.Helper()
	path := findCascade()
	if path == "" {
		t.Skip("facefinder cascade not found, skipping test")
	}
	cfg := DefaultConfig()
	cfg.ModelPath = path
	l, err := NewPigo(cfg)
	if err != nil {
		t.Fatalf("NewPigo failed: %v", err)
	}
	return l
}

func TestPigoDetect_SolidImage(t *testing.T) {
	l := newTestPigo(t)
	defer l.Close()

	img := frame.IntensityMap{Width: 320, Height: 240, Pix: make([]uint8, 320*240)}
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	regions, err := l.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) != 0 {
		t.Errorf("Expected no faces in a flat image, got %d", len(regions))
	}
}

func TestPigoDetect_RegionsStayInBoundsAndRanked(t *testing.T) {
	l := newTestPigo(t)
	defer l.Close()

	rng := rand.New(rand.NewSource(7))
	img := frame.IntensityMap{Width: 160, Height: 120, Pix: make([]uint8, 160*120)}
	rng.Read(img.Pix)

	regions, err := l.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	for i, r := range regions {
		if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 || r.X+r.W > img.Width || r.Y+r.H > img.Height {
			t.Errorf("region %d out of bounds: %+v", i, r)
		}
		if i > 0 && r.Score > regions[i-1].Score {
			t.Errorf("regions not ranked: %v before %v", regions[i-1].Score, r.Score)
		}
	}
}

func TestPigoDetect_TooSmallImage(t *testing.T) {
	l := newTestPigo(t)
	defer l.Close()

	img := frame.IntensityMap{Width: 10, Height: 10, Pix: make([]uint8, 100)}
	regions, err := l.Detect(img)
	if err != nil || len(regions) != 0 {
		t.Errorf("Detect = %v, %v; want nothing for an image smaller than MinFaceSize", regions, err)
	}
}

func TestPigoDetect_BadMap(t *testing.T) {
	l := newTestPigo(t)
	defer l.Close()

	if _, err := l.Detect(frame.IntensityMap{Width: 10, Height: 10, Pix: make([]uint8, 3)}); err == nil {
		t.Error("Expected error for mismatched buffer")
	}
}
