package frame

import (
	"errors"
	"testing"
)

func TestMockStream_PlaysScriptThenRepeatsLast(t *testing.T) {
	f := New(2, 2)
	m := NewMockStream(
		MockStep{Err: ErrCaptureFailed},
		MockStep{Frame: f},
	)

	if _, err := m.Next(); !errors.Is(err, ErrCaptureFailed) {
		t.Fatalf("step 1: expected ErrCaptureFailed, got %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := m.Next()
		if err != nil {
			t.Fatalf("step %d: unexpected error %v", i+2, err)
		}
		if got.Width != 2 || got.Height != 2 {
			t.Fatalf("step %d: got %dx%d frame", i+2, got.Width, got.Height)
		}
	}
	if m.Reads() != 4 {
		t.Errorf("Expected 4 reads, got %d", m.Reads())
	}
}

func TestMockStream_Closed(t *testing.T) {
	m := NewStaticMockStream(New(1, 1))
	m.Close()
	if _, err := m.Next(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
