// Package render draws the tracked eyes as a flat 2-D scene with gg.
package render

import (
	"fmt"
	"image"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"

	"github.com/teslashibe/go-gaze/pkg/tracking"
)

// Style holds the colors and proportions of an eye. Radii are fractions of
// the eyeball radius.
type Style struct {
	Background gg.RGBA
	Sclera     gg.RGBA
	Outline    gg.RGBA
	IrisInner  gg.RGBA
	IrisOuter  gg.RGBA
	Pupil      gg.RGBA
	Highlight  gg.RGBA

	IrisRadius  float64
	PupilRadius float64
}

// DefaultStyle is a brown-eyed pair on a dark background.
func DefaultStyle() Style {
	return Style{
		Background: gg.Hex("#1d1f24"),
		Sclera:     gg.RGB(0.96, 0.95, 0.93),
		Outline:    gg.RGB(0.25, 0.22, 0.2),
		IrisInner:  gg.Hex("#8a5a2b"),
		IrisOuter:  gg.Hex("#3b2412"),
		Pupil:      gg.RGB(0.02, 0.02, 0.02),
		Highlight:  gg.RGBA2(1, 1, 1, 0.85),

		IrisRadius:  0.45,
		PupilRadius: 0.2,
	}
}

// EyeRenderer draws a pair of eyes looking along an orientation. It is safe
// for concurrent use.
type EyeRenderer struct {
	width, height int
	style         Style

	mu sync.Mutex
}

// NewEyeRenderer creates a renderer for width x height images.
func NewEyeRenderer(width, height int, style Style) *EyeRenderer {
	return &EyeRenderer{width: width, height: height, style: style}
}

// Size returns the output image size.
func (r *EyeRenderer) Size() (width, height int) {
	return r.width, r.height
}

// EyeCenters returns the centers of the left and right eyeballs and their
// radius in pixels.
func (r *EyeRenderer) EyeCenters() (left, right image.Point, radius float64) {
	w, h := float64(r.width), float64(r.height)
	radius = math.Min(w/5, h/2.6)
	cy := int(math.Round(h / 2))
	left = image.Pt(int(math.Round(w/2-radius*1.25)), cy)
	right = image.Pt(int(math.Round(w/2+radius*1.25)), cy)
	return left, right, radius
}

// IrisOffset projects an orientation onto the face of an eyeball of the given
// radius. The eye looks out of the screen, so a yaw toward the viewer's right
// (negative, since yaw mirrors the camera) moves the iris right and a positive
// pitch moves it up.
func IrisOffset(o tracking.Orientation, radius float64) (dx, dy float64) {
	travel := radius * 0.6
	return -math.Sin(o.Yaw) * travel, -math.Sin(o.Pitch) * travel
}

// Render draws both eyes.
func (r *EyeRenderer) Render(o tracking.Orientation) image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(r.width, r.height)
	defer dc.Close()

	r.draw(dc, o)
	_ = dc.FlushGPU() // pending batched shapes land in the pixmap here
	return dc.Image()
}

// EncodePNG draws both eyes and writes them to w as PNG.
func (r *EyeRenderer) EncodePNG(w io.Writer, o tracking.Orientation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(r.width, r.height)
	defer dc.Close()

	r.draw(dc, o)
	if err := dc.FlushGPU(); err != nil {
		return fmt.Errorf("flush eyes: %w", err)
	}
	return dc.EncodePNG(w)
}

func (r *EyeRenderer) draw(dc *gg.Context, o tracking.Orientation) {
	dc.ClearWithColor(r.style.Background)

	left, right, radius := r.EyeCenters()
	for _, c := range []image.Point{left, right} {
		r.drawEye(dc, float64(c.X), float64(c.Y), radius, o)
	}
}

func (r *EyeRenderer) drawEye(dc *gg.Context, cx, cy, radius float64, o tracking.Orientation) {
	s := r.style

	// Eyeball
	dc.SetFillBrush(gg.Solid(s.Sclera))
	dc.DrawCircle(cx, cy, radius)
	_ = dc.Fill()

	dc.SetStrokeBrush(gg.Solid(s.Outline))
	dc.SetLineWidth(math.Max(1, radius*0.04))
	dc.DrawCircle(cx, cy, radius)
	_ = dc.Stroke()

	// The iris is a disc on the sphere; turning it away foreshortens it.
	dx, dy := IrisOffset(o, radius)
	ix, iy := cx+dx, cy+dy
	irisR := radius * s.IrisRadius
	rx := irisR * math.Cos(o.Yaw)
	ry := irisR * math.Cos(o.Pitch)

	iris := gg.NewRadialGradientBrush(ix, iy, 0, irisR).
		AddColorStop(0, s.IrisInner).
		AddColorStop(1, s.IrisOuter)
	dc.SetFillBrush(iris)
	dc.DrawEllipse(ix, iy, rx, ry)
	_ = dc.Fill()

	pupilScale := s.PupilRadius / s.IrisRadius
	dc.SetFillBrush(gg.Solid(s.Pupil))
	dc.DrawEllipse(ix, iy, rx*pupilScale, ry*pupilScale)
	_ = dc.Fill()

	// Catch light stays put while the eye turns under it.
	dc.SetFillBrush(gg.Solid(s.Highlight))
	dc.DrawCircle(cx-radius*0.18, cy-radius*0.22, radius*0.07)
	_ = dc.Fill()
}
