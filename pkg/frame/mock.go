package frame

import (
	"sync"
	"sync/atomic"
)

// MockStream is a scripted Stream for tests and camera-less runs.
// Each call to Next pops the next step; when the script runs out the last
// step repeats forever.
type MockStream struct {
	mu     sync.Mutex
	steps  []MockStep
	pos    int
	closed bool

	// Stats
	reads atomic.Int64
}

// MockStep is one scripted Next result.
type MockStep struct {
	Frame Frame
	Err   error
}

// NewMockStream creates a mock stream that plays the given steps.
func NewMockStream(steps ...MockStep) *MockStream {
	return &MockStream{steps: steps}
}

// NewStaticMockStream returns a stream that yields the same frame forever.
func NewStaticMockStream(f Frame) *MockStream {
	return NewMockStream(MockStep{Frame: f})
}

// Next returns the next scripted frame or error.
func (m *MockStream) Next() (Frame, error) {
	m.reads.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Frame{}, ErrClosed
	}
	if len(m.steps) == 0 {
		return Frame{}, ErrCaptureFailed
	}

	step := m.steps[m.pos]
	if m.pos < len(m.steps)-1 {
		m.pos++
	}
	return step.Frame, step.Err
}

// Reads returns how many times Next was called.
func (m *MockStream) Reads() int64 {
	return m.reads.Load()
}

// Close marks the stream closed.
func (m *MockStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
