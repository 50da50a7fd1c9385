package web

import (
	"bytes"

	"github.com/disintegration/imaging"

	"github.com/teslashibe/go-gaze/pkg/frame"
	"github.com/teslashibe/go-gaze/pkg/tracking"
)

// SendPreview broadcasts a downscaled JPEG of f to /ws/camera clients. Calls
// beyond PreviewFPS, or with nobody watching, return immediately.
func (s *Server) SendPreview(f frame.Frame) {
	if s.cameraHub.ClientCount() == 0 || !s.previewLimiter.Allow() {
		return
	}

	data, err := EncodePreview(f, s.config.PreviewWidth, s.config.JPEGQuality)
	if err != nil {
		s.logger.Debug("preview encode failed", "error", err)
		return
	}
	s.cameraHub.BroadcastBinary(data)
}

// EncodePreview scales f to width (keeping its aspect ratio) and encodes it
// as JPEG.
func EncodePreview(f frame.Frame, width, quality int) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	img := imaging.Resize(f.Image(), width, 0, imaging.Linear)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func targetOf(v TargetView) tracking.Target {
	if !v.Present {
		return tracking.Absent()
	}
	return tracking.At(v.X, v.Y)
}
