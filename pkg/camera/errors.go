package camera

import (
	"errors"

	"github.com/teslashibe/go-gaze/pkg/frame"
)

// Sentinel errors for capture conditions. Read errors are the frame stream
// sentinels so consumers need not import the OpenCV-backed package.
var (
	// ErrDeviceUnavailable is returned when the camera cannot be opened.
	ErrDeviceUnavailable = errors.New("camera: device unavailable")

	ErrCaptureFailed = frame.ErrCaptureFailed
	ErrDecodeFailed  = frame.ErrDecodeFailed
	ErrClosed        = frame.ErrClosed
)
