package tracking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Smoother eases the eye toward the latest gaze target, one step per render
// tick. Each step covers Blend of the remaining rotation, so the eye
// approaches the target exponentially and its time constant depends on the
// tick rate.
//
// A Smoother belongs to one animated entity and is not safe for concurrent
// use; only the render loop calls Tick.
type Smoother struct {
	// Range
	MaxYaw   float64
	MaxPitch float64

	// Blend factor per tick (0-1]
	Blend float64
	Mode  Interpolation

	// State
	current  Orientation
	rotation mgl64.Quat // kept alongside current in slerp mode
	target   Orientation
	ticks    uint64
}

// NewSmoother creates a smoother at rest (looking straight ahead).
func NewSmoother(config Config) *Smoother {
	return &Smoother{
		MaxYaw:   config.MaxYaw,
		MaxPitch: config.MaxPitch,
		Blend:    config.Blend,
		Mode:     config.Interpolation,
		rotation: mgl64.QuatIdent(),
	}
}

// TargetFor maps a gaze target to the orientation the eye should settle at.
// Absent looks straight ahead. Yaw is negated so the eye mirrors the camera
// like a person facing the viewer.
func (s *Smoother) TargetFor(t Target) Orientation {
	nx, ny := t.OrCenter()
	return Orientation{
		Yaw:   -nx * s.MaxYaw,
		Pitch: ny * s.MaxPitch,
	}
}

// Tick advances one render frame toward the target derived from t and
// returns the new orientation.
func (s *Smoother) Tick(t Target) Orientation {
	return s.Step(s.TargetFor(t))
}

// Step advances one render frame toward an explicit target orientation.
func (s *Smoother) Step(target Orientation) Orientation {
	s.target = target
	s.ticks++

	switch s.Mode {
	case InterpolateEuler:
		s.current = Orientation{
			Yaw:   s.current.Yaw + s.Blend*(target.Yaw-s.current.Yaw),
			Pitch: s.current.Pitch + s.Blend*(target.Pitch-s.current.Pitch),
		}
		s.rotation = s.current.Rotation()
	default:
		goal := target.Rotation()
		// q and -q are the same rotation; take the short way round.
		if s.rotation.Dot(goal) < 0 {
			goal = goal.Scale(-1)
		}
		s.rotation = mgl64.QuatSlerp(s.rotation, goal, s.Blend).Normalize()
		s.current = OrientationFrom(s.rotation)
	}

	return s.current
}

// Current returns the current orientation.
func (s *Smoother) Current() Orientation {
	return s.current
}

// SetCurrent jumps to an orientation (for initialization)
func (s *Smoother) SetCurrent(o Orientation) {
	s.current = o
	s.rotation = o.Rotation()
}

// Target returns the orientation the last tick aimed at.
func (s *Smoother) Target() Orientation {
	return s.target
}

// Error returns the remaining yaw and pitch to the last target.
func (s *Smoother) Error() (yaw, pitch float64) {
	return s.target.Yaw - s.current.Yaw, s.target.Pitch - s.current.Pitch
}

// IsSettled reports whether both axes are within tol of the last target.
func (s *Smoother) IsSettled(tol float64) bool {
	dy, dp := s.Error()
	return math.Abs(dy) <= tol && math.Abs(dp) <= tol
}

// Ticks returns how many ticks have run.
func (s *Smoother) Ticks() uint64 {
	return s.ticks
}
