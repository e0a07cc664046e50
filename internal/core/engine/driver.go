package engine

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/zeusync/deimos/internal/core/observability/log"
)

// Loop is the engine as seen by a Driver.
type Loop interface {
	// Tick runs the logic half of a frame.
	Tick() error
	// Render runs the drawing half of a frame and completes it.
	Render() error
	// Done reports that the engine was stopped, its context cancelled or
	// its frame limit reached.
	Done() bool
}

// Driver owns the frame loop: it alternates Tick and Render until Done
// reports true or either of them fails.
type Driver interface {
	Drive(ctx context.Context, l Loop) error
}

// Paced returns the default driver. It sleeps between frames so that a
// frame takes at least interval; zero disables pacing.
func Paced(interval time.Duration) Driver {
	return pacedDriver{interval: interval}
}

type pacedDriver struct {
	interval time.Duration
}

func (d pacedDriver) Drive(ctx context.Context, l Loop) error {
	var timer *time.Timer
	if d.interval > 0 {
		timer = time.NewTimer(d.interval)
		defer timer.Stop()
	}

	for !l.Done() {
		start := time.Now()
		if err := l.Tick(); err != nil {
			return err
		}
		if err := l.Render(); err != nil {
			return err
		}

		if timer == nil {
			continue
		}
		if wait := d.interval - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
	}
	return nil
}

// frameLoop adapts an Engine to Loop and keeps the frame accounting.
type frameLoop struct {
	e   *Engine
	ctx context.Context
}

func (l frameLoop) Tick() error {
	if err := l.e.Tick(); err != nil {
		return eris.Wrapf(err, "frame %d", l.e.frames.Load())
	}
	return nil
}

func (l frameLoop) Render() error {
	if err := l.e.Render(); err != nil {
		return eris.Wrapf(err, "frame %d", l.e.frames.Load())
	}
	frames := l.e.frames.Add(1)
	if limit := l.e.cfg.MaxFrames; limit > 0 && frames >= limit {
		l.e.logger.Info("frame limit reached", log.Uint64("frames", limit))
		l.e.running.Store(false)
	}
	return nil
}

func (l frameLoop) Done() bool {
	if !l.e.running.Load() {
		return true
	}
	if err := l.ctx.Err(); err != nil {
		l.e.logger.Info("engine loop cancelled", log.Error(err))
		return true
	}
	return false
}
