package camera

import (
	"fmt"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-gaze/pkg/frame"
)

// Device is an open camera stream backed by OpenCV.
// It is owned by a single goroutine; the mutex only guards Close.
type Device struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	closed bool

	width, height int
}

// Open opens the camera at cfg.DeviceIndex.
func Open(cfg Config, logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("camera config: %w", err)
	}

	vc, err := gocv.VideoCaptureDevice(cfg.DeviceIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: index %d: %v", ErrDeviceUnavailable, cfg.DeviceIndex, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: index %d not opened", ErrDeviceUnavailable, cfg.DeviceIndex)
	}

	w, h := cfg.Width, cfg.Height
	if cfg.HighestResolution() {
		w, h = maxRequestWidth, maxRequestHeight
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(w))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(h))

	d := &Device{
		cfg:    cfg,
		logger: logger,
		vc:     vc,
		mat:    gocv.NewMat(),
		width:  int(vc.Get(gocv.VideoCaptureFrameWidth)),
		height: int(vc.Get(gocv.VideoCaptureFrameHeight)),
	}

	logger.Info("camera opened",
		"index", cfg.DeviceIndex,
		"width", d.width,
		"height", d.height)

	return d, nil
}

// Size returns the negotiated frame size.
func (d *Device) Size() (width, height int) {
	return d.width, d.height
}

// Next reads one frame. A failed read returns ErrCaptureFailed; a frame that
// cannot be turned into 3-channel 8-bit pixels returns ErrDecodeFailed.
func (d *Device) Next() (frame.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return frame.Frame{}, ErrClosed
	}

	if ok := d.vc.Read(&d.mat); !ok || d.mat.Empty() {
		return frame.Frame{}, ErrCaptureFailed
	}

	return matToFrame(d.mat)
}

// Close releases the camera.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.mat.Close()
	return d.vc.Close()
}

// matToFrame converts an OpenCV BGR Mat into an RGB Frame.
func matToFrame(m gocv.Mat) (frame.Frame, error) {
	if m.Type() != gocv.MatTypeCV8UC3 {
		return frame.Frame{}, fmt.Errorf("%w: mat type %v, want 8UC3", ErrDecodeFailed, m.Type())
	}

	bgr := m.ToBytes()
	f := frame.Frame{Width: m.Cols(), Height: m.Rows(), Pix: make([]uint8, len(bgr))}
	if err := f.Validate(); err != nil {
		return frame.Frame{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	for i := 0; i+2 < len(bgr); i += frame.Channels {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = bgr[i+2], bgr[i+1], bgr[i]
	}
	return f, nil
}
