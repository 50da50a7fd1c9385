// Package frame defines captured camera frames and their grayscale
// intensity maps.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Channels is the number of interleaved 8-bit channels in a Frame (R, G, B).
const Channels = 3

// ErrInvalidFrame is returned when a buffer does not match its dimensions.
var ErrInvalidFrame = errors.New("frame: buffer does not match dimensions")

// Frame is one captured image: interleaved 8-bit RGB, row-major.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height*3
}

// New allocates a black frame of the given size.
func New(width, height int) Frame {
	return Frame{Width: width, Height: height, Pix: make([]uint8, width*height*Channels)}
}

// Validate reports whether the buffer length matches width*height*3.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if len(f.Pix) != f.Width*f.Height*Channels {
		return fmt.Errorf("%w: %dx%d frame has %d bytes, want %d",
			ErrInvalidFrame, f.Width, f.Height, len(f.Pix), f.Width*f.Height*Channels)
	}
	return nil
}

// Set writes one pixel.
func (f Frame) Set(x, y int, r, g, b uint8) {
	i := (y*f.Width + x) * Channels
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
}

// At returns one pixel.
func (f Frame) At(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * Channels
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Image converts the frame to an *image.RGBA.
func (f Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i+2 < len(f.Pix); i, j = i+Channels, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// FromImage copies any image.Image into a Frame, dropping alpha.
func FromImage(img image.Image) Frame {
	b := img.Bounds()
	f := New(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			f.Set(x, y, c.R, c.G, c.B)
		}
	}
	return f
}
