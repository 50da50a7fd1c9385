package tracking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-gaze/pkg/frame"
	"github.com/teslashibe/go-gaze/pkg/tracking/detection"
)

// fakeLocator returns a fixed answer and records what it saw.
type fakeLocator struct {
	mu      sync.Mutex
	regions []detection.Region
	err     error
	calls   int
	lastW   int
	lastH   int
}

func (f *fakeLocator) Detect(img frame.IntensityMap) ([]detection.Region, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastW, f.lastH = img.Width, img.Height
	if f.err != nil {
		return nil, f.err
	}
	return append([]detection.Region(nil), f.regions...), nil
}

func (f *fakeLocator) Close() error { return nil }

func (f *fakeLocator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DetectionInterval = time.Millisecond
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestPipeline_StepPublishesFace(t *testing.T) {
	state := NewGazeState()
	locator := &fakeLocator{regions: []detection.Region{
		{X: 0, Y: 0, W: 10, H: 10, Score: 6},
		{X: 40, Y: 30, W: 20, H: 20, Score: 9},
	}}
	stream := frame.NewStaticMockStream(frame.New(100, 100))
	p := NewPipeline(testConfig(), stream, locator, state, quietLogger())

	require.Equal(t, OutcomeFace, p.Step())

	got := state.Read()
	require.True(t, got.Present)
	assert.InDelta(t, 0.0, got.X, 1e-9)
	assert.InDelta(t, 0.2, got.Y, 1e-9)
	assert.Equal(t, 100, locator.lastW)
	assert.Equal(t, 100, locator.lastH)

	stats := p.Stats()
	assert.EqualValues(t, 1, stats.Frames)
	assert.EqualValues(t, 1, stats.Faces)
	assert.EqualValues(t, 100, stats.FrameWidth)
}

func TestPipeline_NoFacePublishesAbsent(t *testing.T) {
	state := NewGazeState()
	state.Publish(At(0.5, 0.5))

	p := NewPipeline(testConfig(), frame.NewStaticMockStream(frame.New(32, 24)), &fakeLocator{}, state, quietLogger())

	assert.Equal(t, OutcomeNoFace, p.Step())
	assert.Equal(t, Absent(), state.Read())
}

func TestPipeline_NilLocatorPublishesAbsent(t *testing.T) {
	state := NewGazeState()
	p := NewPipeline(testConfig(), frame.NewStaticMockStream(frame.New(8, 8)), nil, state, quietLogger())

	assert.Equal(t, OutcomeNoFace, p.Step())
	assert.EqualValues(t, 1, state.Publishes())
}

func TestPipeline_FailuresPublishNothing(t *testing.T) {
	tests := []struct {
		name    string
		step    frame.MockStep
		locErr  error
		outcome Outcome
	}{
		{
			name:    "capture failure",
			step:    frame.MockStep{Err: frame.ErrCaptureFailed},
			outcome: OutcomeCaptureFailed,
		},
		{
			name:    "undecodable frame",
			step:    frame.MockStep{Err: frame.ErrDecodeFailed},
			outcome: OutcomeSkipped,
		},
		{
			name:    "buffer size mismatch",
			step:    frame.MockStep{Frame: frame.Frame{Width: 10, Height: 10, Pix: make([]uint8, 7)}},
			outcome: OutcomeSkipped,
		},
		{
			name:    "detector error",
			step:    frame.MockStep{Frame: frame.New(16, 16)},
			locErr:  errors.New("boom"),
			outcome: OutcomeSkipped,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := NewGazeState()
			state.Publish(At(0.1, 0.1))

			p := NewPipeline(testConfig(), frame.NewMockStream(tc.step), &fakeLocator{err: tc.locErr}, state, quietLogger())

			assert.Equal(t, tc.outcome, p.Step())
			assert.Equal(t, At(0.1, 0.1), state.Read(), "previous value must survive")
			assert.EqualValues(t, 1, state.Publishes())
		})
	}
}

func TestPipeline_StepAfterCloseStops(t *testing.T) {
	stream := frame.NewStaticMockStream(frame.New(4, 4))
	require.NoError(t, stream.Close())

	p := NewPipeline(testConfig(), stream, &fakeLocator{}, NewGazeState(), quietLogger())
	assert.Equal(t, OutcomeStopped, p.Step())
}

func TestPipeline_RunRetriesCaptureFailures(t *testing.T) {
	state := NewGazeState()
	stream := frame.NewMockStream(
		frame.MockStep{Err: frame.ErrCaptureFailed},
		frame.MockStep{Err: frame.ErrCaptureFailed},
		frame.MockStep{Err: frame.ErrCaptureFailed},
		frame.MockStep{Frame: frame.New(100, 100)},
	)
	locator := &fakeLocator{regions: []detection.Region{{X: 40, Y: 40, W: 20, H: 20, Score: 7}}}
	p := NewPipeline(testConfig(), stream, locator, state, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := p.Start(ctx)

	require.Eventually(t, func() bool {
		return state.Read().Present
	}, 2*time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("detection loop did not stop after cancel")
	}

	stats := p.Stats()
	assert.EqualValues(t, 3, stats.CaptureErrors)
	assert.GreaterOrEqual(t, stats.Faces, uint64(1))
	assert.Equal(t, At(0, 0), state.Read())
}

func TestPipeline_RunStopsWhenStreamCloses(t *testing.T) {
	stream := frame.NewStaticMockStream(frame.New(8, 8))
	locator := &fakeLocator{}
	p := NewPipeline(testConfig(), stream, locator, NewGazeState(), quietLogger())

	done := p.Start(context.Background())

	require.Eventually(t, func() bool { return locator.Calls() > 2 }, 2*time.Second, time.Millisecond)
	require.NoError(t, stream.Close())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("detection loop did not stop after stream close")
	}
}

func TestPipeline_OnFrameSeesEveryFrame(t *testing.T) {
	stream := frame.NewStaticMockStream(frame.New(6, 4))
	p := NewPipeline(testConfig(), stream, &fakeLocator{}, NewGazeState(), quietLogger())

	var seen int
	p.OnFrame = func(f frame.Frame) {
		seen++
		assert.Equal(t, 6, f.Width)
	}

	for i := 0; i < 5; i++ {
		p.Step()
	}
	assert.Equal(t, 5, seen)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "face", OutcomeFace.String())
	assert.Equal(t, "no_face", OutcomeNoFace.String())
	assert.Equal(t, "stopped", OutcomeStopped.String())
	assert.Equal(t, "outcome(42)", Outcome(42).String())
}
