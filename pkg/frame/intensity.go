package frame

import "fmt"

// IntensityMap is a single-channel 8-bit grayscale view of a Frame with the
// same dimensions.
type IntensityMap struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height
}

// At returns the intensity at (x, y).
func (m IntensityMap) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Luma returns round(0.299*R + 0.587*G + 0.114*B). The weights sum to one, so
// the result always fits in a byte.
func Luma(r, g, b uint8) uint8 {
	// Integer form of the weighted sum, rounded half up.
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// ToIntensity converts a frame to its luminance map. It is pure: the same
// frame always yields the same bytes.
func ToIntensity(f Frame) (IntensityMap, error) {
	if err := f.Validate(); err != nil {
		return IntensityMap{}, fmt.Errorf("to intensity: %w", err)
	}

	gray := make([]uint8, f.Width*f.Height)
	for i := range gray {
		p := i * Channels
		gray[i] = Luma(f.Pix[p], f.Pix[p+1], f.Pix[p+2])
	}

	return IntensityMap{Width: f.Width, Height: f.Height, Pix: gray}, nil
}
