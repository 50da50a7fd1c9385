package tracking

import (
	"errors"
	"math"
	"sync/atomic"
)

// ErrStateCorrupted describes a slot holding a value that breaks the target
// invariants. Read never returns it; it degrades to Absent and is counted.
var ErrStateCorrupted = errors.New("tracking: gaze state corrupted")

// Target is a normalized gaze target, or its absence.
type Target struct {
	X, Y    float64 // Both in [-1, 1] when Present
	Present bool
}

// Absent is the "no face visible" target.
func Absent() Target {
	return Target{}
}

// At returns a present target.
func At(x, y float64) Target {
	return Target{X: x, Y: y, Present: true}
}

// Valid reports whether t satisfies the target invariants.
func (t Target) Valid() bool {
	if !t.Present {
		return true
	}
	return !math.IsNaN(t.X) && !math.IsNaN(t.Y) &&
		t.X >= -1 && t.X <= 1 && t.Y >= -1 && t.Y <= 1
}

// OrCenter returns the coordinates, or (0, 0) when absent.
func (t Target) OrCenter() (x, y float64) {
	if !t.Present {
		return 0, 0
	}
	return t.X, t.Y
}

// GazeState is the single-slot cell shared by the detection loop (writer)
// and the render loop (reader). Publish and Read are lock-free: each swaps or
// loads one pointer, so neither side can block the other and a reader never
// sees a half-written target. Only the latest value is kept.
//
// The zero value is ready to use and reads as Absent.
type GazeState struct {
	slot atomic.Pointer[Target]

	publishes atomic.Uint64
	corrupted atomic.Uint64
}

// NewGazeState returns an empty gaze state.
func NewGazeState() *GazeState {
	return &GazeState{}
}

// Publish replaces the slot's contents. Present coordinates are clamped to
// [-1, 1]; a NaN coordinate publishes Absent.
func (s *GazeState) Publish(t Target) {
	if t.Present {
		if math.IsNaN(t.X) || math.IsNaN(t.Y) {
			t = Absent()
		} else {
			t.X = clamp(t.X, -1, 1)
			t.Y = clamp(t.Y, -1, 1)
		}
	}
	s.slot.Store(&t)
	s.publishes.Add(1)
}

// Read snapshots the slot. Nothing published yet, or a slot value that is
// not a valid target, reads as Absent.
func (s *GazeState) Read() Target {
	p := s.slot.Load()
	if p == nil {
		return Absent()
	}
	t := *p
	if !t.Valid() {
		s.corrupted.Add(1)
		return Absent()
	}
	return t
}

// Publishes returns how many values have been published.
func (s *GazeState) Publishes() uint64 {
	return s.publishes.Load()
}

// Corrupted returns how many reads found an invalid value.
func (s *GazeState) Corrupted() uint64 {
	return s.corrupted.Load()
}
