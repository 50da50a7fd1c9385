// Package desktop shows the eyes in a native window.
package desktop

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/teslashibe/go-gaze/pkg/render"
	"github.com/teslashibe/go-gaze/pkg/tracking"
)

// Config configures the window.
type Config struct {
	Title  string
	Width  float32
	Height float32
	FPS    int // render ticks per second
}

// DefaultConfig returns an 800x600 window ticking at 60 Hz.
func DefaultConfig() Config {
	return Config{
		Title:  "Face Tracking Eyes - Press ESC to quit",
		Width:  800,
		Height: 600,
		FPS:    60,
	}
}

// TickFunc advances the animation by one render tick and returns the
// orientation to draw.
type TickFunc func() tracking.Orientation

// Host owns the window and the render tick. The tick function is only ever
// called from the host's tick goroutine.
type Host struct {
	config   Config
	app      fyne.App
	renderer *render.EyeRenderer
	tick     TickFunc
	logger   *slog.Logger

	win   fyne.Window
	image *canvas.Image

	// onQuit is called once on ESC, Q, or context cancellation.
	onQuit   func()
	quitOnce sync.Once
}

// New creates a host on a fyne app.
func New(a fyne.App, cfg Config, renderer *render.EyeRenderer, tick TickFunc, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Host{
		config:   cfg,
		app:      a,
		renderer: renderer,
		tick:     tick,
		logger:   logger.With("component", "desktop"),
	}
	h.onQuit = a.Quit
	return h
}

// Window returns the host window, creating it on first use.
func (h *Host) Window() fyne.Window {
	if h.win != nil {
		return h.win
	}

	h.image = canvas.NewImageFromImage(h.renderer.Render(tracking.Orientation{}))
	h.image.FillMode = canvas.ImageFillContain
	h.image.ScaleMode = canvas.ImageScaleFastest

	h.win = h.app.NewWindow(h.config.Title)
	h.win.SetContent(h.image)
	h.win.Resize(fyne.NewSize(h.config.Width, h.config.Height))
	h.win.Canvas().SetOnTypedKey(h.HandleKey)
	h.win.SetMaster()
	return h.win
}

// HandleKey quits on ESC or Q.
func (h *Host) HandleKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape, fyne.KeyQ:
		h.logger.Info("quit requested", "key", string(ev.Name))
		h.Quit()
	}
}

// Quit closes the app. Safe to call more than once; call it on the fyne
// goroutine.
func (h *Host) Quit() {
	h.quitOnce.Do(h.onQuit)
}

// Run shows the window and blocks in the fyne event loop until the user
// quits or ctx is cancelled. It must be called from the main goroutine.
func (h *Host) Run(ctx context.Context) {
	win := h.Window()

	closed := make(chan struct{})
	go h.tickLoop(ctx, closed)

	h.logger.Info("window open", "title", h.config.Title, "fps", h.config.FPS)
	win.ShowAndRun()
	close(closed)
}

func (h *Host) tickLoop(ctx context.Context, closed <-chan struct{}) {
	fps := h.config.FPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			fyne.Do(h.Quit)
			return
		case <-ticker.C:
			img := h.Frame()
			fyne.Do(func() { h.show(img) })
		}
	}
}

// Frame runs one tick and renders it.
func (h *Host) Frame() image.Image {
	return h.renderer.Render(h.tick())
}

func (h *Host) show(img image.Image) {
	h.image.Image = img
	h.image.Refresh()
}
