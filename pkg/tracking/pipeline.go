package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/frame"
	"github.com/teslashibe/go-gaze/pkg/tracking/detection"
)

// FrameStream is the capture side of the loop.
type FrameStream = frame.Stream

// Outcome is the result of one detection iteration.
type Outcome int

const (
	OutcomeFace          Outcome = iota // face found, position published
	OutcomeNoFace                       // no face, Absent published
	OutcomeCaptureFailed                // read failed, nothing published
	OutcomeSkipped                      // frame malformed or detector error, nothing published
	OutcomeStopped                      // stream closed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFace:
		return "face"
	case OutcomeNoFace:
		return "no_face"
	case OutcomeCaptureFailed:
		return "capture_failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeStopped:
		return "stopped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Stats are running counters for the detection loop.
type Stats struct {
	Frames        uint64 `json:"frames"`
	Faces         uint64 `json:"faces"`
	CaptureErrors uint64 `json:"capture_errors"`
	SkippedFrames uint64 `json:"skipped_frames"`
	FrameWidth    int64  `json:"frame_width"`
	FrameHeight   int64  `json:"frame_height"`
}

// Pipeline is the detection loop: capture → intensity → detect → normalize →
// publish. It owns its stream exclusively and is the only writer of its
// GazeState.
type Pipeline struct {
	config  Config
	stream  FrameStream
	locator detection.Locator
	state   *GazeState
	logger  *slog.Logger

	// OnFrame, if set, sees every captured frame before detection. It runs on
	// the detection goroutine and must not hold on to the pixel buffer.
	OnFrame func(frame.Frame)

	logSometimes rate.Sometimes

	frames        atomic.Uint64
	faces         atomic.Uint64
	captureErrors atomic.Uint64
	skipped       atomic.Uint64
	width, height atomic.Int64
}

// NewPipeline creates a detection loop. A nil locator disables detection: the
// loop keeps capturing and publishes Absent every cycle.
func NewPipeline(config Config, stream FrameStream, locator detection.Locator, state *GazeState, logger *slog.Logger) *Pipeline {
	if locator == nil {
		locator = detection.Disabled{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		config:       config,
		stream:       stream,
		locator:      locator,
		state:        state,
		logger:       logger,
		logSometimes: rate.Sometimes{Every: config.LogEveryFrames},
	}
}

// Step runs one iteration without pausing.
func (p *Pipeline) Step() Outcome {
	f, err := p.stream.Next()
	if err != nil {
		switch {
		case errors.Is(err, frame.ErrClosed):
			return OutcomeStopped
		case errors.Is(err, frame.ErrDecodeFailed):
			p.skipped.Add(1)
			p.logger.Warn("skipping malformed frame", "error", err)
			return OutcomeSkipped
		default:
			p.captureErrors.Add(1)
			p.logger.Warn("frame capture failed", "error", err)
			return OutcomeCaptureFailed
		}
	}

	p.frames.Add(1)
	p.width.Store(int64(f.Width))
	p.height.Store(int64(f.Height))

	if p.OnFrame != nil {
		p.OnFrame(f)
	}

	gray, err := frame.ToIntensity(f)
	if err != nil {
		p.skipped.Add(1)
		p.logger.Warn("skipping malformed frame", "error", err)
		return OutcomeSkipped
	}

	regions, err := p.locator.Detect(gray)
	if err != nil {
		p.skipped.Add(1)
		p.logger.Warn("face detection failed", "error", err)
		return OutcomeSkipped
	}

	best, ok := detection.Best(regions)
	if !ok {
		p.state.Publish(Absent())
		debug.TrackLog("no face", "frame", p.frames.Load())
		return OutcomeNoFace
	}

	target := NormalizeTarget(best, f.Width, f.Height)
	p.state.Publish(target)
	p.faces.Add(1)

	p.logSometimes.Do(func() {
		p.logger.Info("tracking face",
			"x", fmt.Sprintf("%.2f", target.X),
			"y", fmt.Sprintf("%.2f", target.Y),
			"score", best.Score)
	})

	return OutcomeFace
}

// Run loops until ctx is cancelled or the stream closes. Capture failures
// are retried forever after RetryDelay; every other iteration waits
// DetectionInterval, which holds the loop near 30 Hz whatever detection
// costs.
func (p *Pipeline) Run(ctx context.Context) {
	p.logger.Info("detection loop started",
		"interval", p.config.DetectionInterval,
		"retry_delay", p.config.RetryDelay)

	for {
		outcome := p.Step()

		wait := p.config.DetectionInterval
		switch outcome {
		case OutcomeStopped:
			p.logger.Info("detection loop stopped: stream closed")
			return
		case OutcomeCaptureFailed:
			wait = p.config.RetryDelay
		}

		if !sleepCtx(ctx, wait) {
			p.logger.Info("detection loop stopped", "reason", ctx.Err())
			return
		}
	}
}

// Start runs the loop on its own goroutine. The goroutine exits when ctx is
// cancelled; at process exit it is simply abandoned, and the OS reclaims the
// camera.
func (p *Pipeline) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()
	return done
}

// Stats returns a snapshot of the loop counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Frames:        p.frames.Load(),
		Faces:         p.faces.Load(),
		CaptureErrors: p.captureErrors.Load(),
		SkippedFrames: p.skipped.Load(),
		FrameWidth:    p.width.Load(),
		FrameHeight:   p.height.Load(),
	}
}

// sleepCtx waits for d or until ctx is done. It reports whether the full
// wait elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
