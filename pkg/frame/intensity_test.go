package frame

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"
)

func TestLuma(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"pure red", 255, 0, 0, 76},   // 76.245
		{"pure green", 0, 255, 0, 150}, // 149.685
		{"pure blue", 0, 0, 255, 29},   // 29.07
		{"mid gray", 128, 128, 128, 128},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Luma(tc.r, tc.g, tc.b); got != tc.want {
				t.Errorf("Luma(%d,%d,%d) = %d, want %d", tc.r, tc.g, tc.b, got, tc.want)
			}
		})
	}
}

func TestLuma_MatchesRoundedFloat(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		r, g, b := uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))
		want := math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
		got := float64(Luma(r, g, b))
		// Float evaluation may land a hair either side of .5; allow that.
		if math.Abs(got-want) > 1 {
			t.Fatalf("Luma(%d,%d,%d) = %v, float says %v", r, g, b, got, want)
		}
	}
}

func TestToIntensity_PreservesDimensionsAndIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := New(37, 23)
	rng.Read(f.Pix)

	a, err := ToIntensity(f)
	if err != nil {
		t.Fatalf("ToIntensity: %v", err)
	}
	b, err := ToIntensity(f)
	if err != nil {
		t.Fatalf("ToIntensity: %v", err)
	}

	if a.Width != f.Width || a.Height != f.Height {
		t.Errorf("dimensions changed: %dx%d -> %dx%d", f.Width, f.Height, a.Width, a.Height)
	}
	if len(a.Pix) != f.Width*f.Height {
		t.Errorf("len(Pix) = %d, want %d", len(a.Pix), f.Width*f.Height)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("repeated conversion produced different output")
	}
}

func TestToIntensity_PixelOrder(t *testing.T) {
	f := New(2, 1)
	f.Set(0, 0, 255, 255, 255)
	f.Set(1, 0, 0, 0, 0)

	m, err := ToIntensity(f)
	if err != nil {
		t.Fatalf("ToIntensity: %v", err)
	}
	if m.At(0, 0) != 255 || m.At(1, 0) != 0 {
		t.Errorf("got %v, want [255 0]", m.Pix)
	}
}

func TestToIntensity_RejectsMismatchedBuffer(t *testing.T) {
	f := Frame{Width: 4, Height: 4, Pix: make([]uint8, 10)}
	if _, err := ToIntensity(f); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("expected ErrInvalidFrame, got %v", err)
	}
}

func TestFromImage_RoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.RGBA{10, 20, 30, 255})

	f := FromImage(img)
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if r, g, b := f.At(2, 1); r != 10 || g != 20 || b != 30 {
		t.Errorf("At(2,1) = %d,%d,%d", r, g, b)
	}

	back := f.Image()
	if got := back.RGBAAt(2, 1); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("Image().At(2,1) = %v", got)
	}
}
