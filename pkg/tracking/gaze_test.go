package tracking

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGazeState_InitiallyAbsent(t *testing.T) {
	var s GazeState
	assert.Equal(t, Absent(), s.Read())
	assert.Equal(t, Absent(), NewGazeState().Read())
}

func TestGazeState_ReadReturnsLatestPublish(t *testing.T) {
	s := NewGazeState()

	s.Publish(At(0.25, -0.5))
	assert.Equal(t, At(0.25, -0.5), s.Read())

	s.Publish(At(-0.1, 0.9))
	s.Publish(At(0.3, 0.3))
	assert.Equal(t, At(0.3, 0.3), s.Read(), "only the most recent value is kept")

	s.Publish(Absent())
	assert.Equal(t, Absent(), s.Read())
	assert.EqualValues(t, 4, s.Publishes())
}

func TestGazeState_PublishClampsAndRejectsNaN(t *testing.T) {
	s := NewGazeState()

	s.Publish(At(1.5, -3))
	assert.Equal(t, At(1, -1), s.Read())

	s.Publish(At(math.NaN(), 0))
	assert.Equal(t, Absent(), s.Read())
	assert.Zero(t, s.Corrupted())
}

func TestGazeState_CorruptedSlotReadsAbsent(t *testing.T) {
	s := NewGazeState()
	bad := Target{X: math.NaN(), Y: 0, Present: true}
	s.slot.Store(&bad)

	assert.Equal(t, Absent(), s.Read())
	assert.EqualValues(t, 1, s.Corrupted())

	outOfRange := Target{X: 2, Y: 0, Present: true}
	s.slot.Store(&outOfRange)
	assert.Equal(t, Absent(), s.Read())
	assert.EqualValues(t, 2, s.Corrupted())
}

// TestGazeState_Concurrent runs one writer against many readers. Every read
// must be a value that was actually published (x == y by construction).
func TestGazeState_Concurrent(t *testing.T) {
	s := NewGazeState()
	const writes = 5000

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < writes; i++ {
			v := float64(i%200)/100 - 1
			if i%7 == 0 {
				s.Publish(Absent())
				continue
			}
			s.Publish(At(v, v))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				got := s.Read()
				if got.Present && got.X != got.Y {
					t.Errorf("torn read: %+v", got)
					return
				}
			}
		}()
	}

	wg.Wait()
	assert.EqualValues(t, writes, s.Publishes())
}

func TestTarget_OrCenter(t *testing.T) {
	x, y := Absent().OrCenter()
	assert.Zero(t, x)
	assert.Zero(t, y)

	x, y = At(0.4, -0.2).OrCenter()
	assert.Equal(t, 0.4, x)
	assert.Equal(t, -0.2, y)
}
