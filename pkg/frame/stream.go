package frame

import "errors"

// Stream yields frames until it is closed.
type Stream interface {
	Next() (Frame, error)
	Close() error
}

// Sentinel errors returned by a Stream.
var (
	// ErrCaptureFailed is returned when a single frame read fails.
	// The stream stays usable.
	ErrCaptureFailed = errors.New("frame: capture failed")

	// ErrDecodeFailed is returned when a frame was read but its payload is
	// malformed.
	ErrDecodeFailed = errors.New("frame: decode failed")

	// ErrClosed is returned when reading from a closed stream.
	ErrClosed = errors.New("frame: stream closed")
)
