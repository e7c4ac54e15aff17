package sim

import (
	"context"
	"time"

	"harvest-heist/client/internal/telemetry"
)

const (
	// DefaultFrameRate drives the core at 60 updates per second.
	DefaultFrameRate = 60

	// maxFrameDelta clamps the elapsed time handed to a frame so a stalled
	// process does not fast-forward entity phases past their transitions.
	maxFrameDelta = 250 * time.Millisecond
)

// Frame is one step of the core update. Implementations receive the frame
// index and the clamped elapsed time since the previous frame.
type Frame interface {
	Step(frame uint64, dt time.Duration)
}

type FrameFunc func(frame uint64, dt time.Duration)

func (f FrameFunc) Step(frame uint64, dt time.Duration) {
	if f != nil {
		f(frame, dt)
	}
}

type LoopConfig struct {
	FrameRate int
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
}

// Loop runs a Frame at a fixed cadence until its context is cancelled.
type Loop struct {
	frame    Frame
	interval time.Duration
	logger   telemetry.Logger
	metrics  telemetry.Metrics
}

func NewLoop(frame Frame, cfg LoopConfig) *Loop {
	rate := cfg.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Loop{
		frame:    frame,
		interval: time.Second / time.Duration(rate),
		logger:   logger,
		metrics:  metrics,
	}
}

// Run blocks until ctx is done. Each tick computes the real elapsed time,
// clamps it, and advances the frame exactly once.
func (l *Loop) Run(ctx context.Context) error {
	if l.frame == nil {
		return nil
	}
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	var frameIndex uint64
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.logger.Printf("frame loop stopped after %d frames", frameIndex)
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt <= 0 {
				dt = l.interval
			}
			if dt > maxFrameDelta {
				l.logger.Printf("frame %d clamped dt %s to %s", frameIndex, dt, maxFrameDelta)
				dt = maxFrameDelta
			}
			start := time.Now()
			l.frame.Step(frameIndex, dt)
			l.metrics.Add(telemetry.MetricFramesTotal, 1)
			l.metrics.Store(telemetry.MetricFrameDurationSeconds, time.Since(start).Seconds())
			frameIndex++
		}
	}
}

// Interval exposes the configured frame interval, mainly for tests.
func (l *Loop) Interval() time.Duration {
	return l.interval
}
