package desktop

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-gaze/pkg/render"
	"github.com/teslashibe/go-gaze/pkg/tracking"
)

func newTestHost(t *testing.T, tick TickFunc) *Host {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	return New(a, DefaultConfig(), render.NewEyeRenderer(80, 60, render.DefaultStyle()), tick, nil)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Face Tracking Eyes - Press ESC to quit", cfg.Title)
	assert.Equal(t, float32(800), cfg.Width)
	assert.Equal(t, float32(600), cfg.Height)
}

func TestHost_Window(t *testing.T) {
	h := newTestHost(t, func() tracking.Orientation { return tracking.Orientation{} })

	win := h.Window()
	require.NotNil(t, win)
	assert.Same(t, win, h.Window(), "window is created once")
	assert.Equal(t, "Face Tracking Eyes - Press ESC to quit", win.Title())
	assert.NotNil(t, h.image.Image)
}

func TestHost_QuitKeys(t *testing.T) {
	tests := []struct {
		key  fyne.KeyName
		quit bool
	}{
		{fyne.KeyEscape, true},
		{fyne.KeyQ, true},
		{fyne.KeySpace, false},
		{fyne.KeyReturn, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.key), func(t *testing.T) {
			h := newTestHost(t, func() tracking.Orientation { return tracking.Orientation{} })
			quits := 0
			h.onQuit = func() { quits++ }

			h.HandleKey(&fyne.KeyEvent{Name: tc.key})
			h.HandleKey(&fyne.KeyEvent{Name: tc.key})

			if tc.quit {
				assert.Equal(t, 1, quits, "quit runs once")
			} else {
				assert.Zero(t, quits)
			}
		})
	}
}

func TestHost_FrameCallsTickOnce(t *testing.T) {
	calls := 0
	h := newTestHost(t, func() tracking.Orientation {
		calls++
		return tracking.Orientation{Yaw: 0.2}
	})

	img := h.Frame()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 80, img.Bounds().Dx())

	h.Window()
	h.show(img)
	assert.Equal(t, img, h.image.Image)
}
