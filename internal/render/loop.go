package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/metrosign/display"
	"github.com/jpalmerr/metrosign/internal/board"
	"github.com/jpalmerr/metrosign/internal/retry"
	"github.com/jpalmerr/metrosign/internal/store"
)

// DefaultFrameInterval is the pause between frames on unpaced backends.
const DefaultFrameInterval = 50 * time.Millisecond

// Loop renders frames until the backend asks to exit or ctx is cancelled.
type Loop struct {
	backend display.Backend
	arrival *store.Watcher[board.ArrivalState]
	alert   *store.Watcher[board.AlertState]

	frameInterval time.Duration
	splash        time.Duration
	now           func() time.Time
	sleep         retry.SleepFunc
	logger        *slog.Logger

	arrivalSnap board.ArrivalState
	alertSnap   board.AlertState
	startedAt   time.Time
	frames      uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithFrameInterval sets the inter-frame sleep for unpaced backends.
func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithSplash shows the welcome card for d before the first board frame.
func WithSplash(d time.Duration) Option {
	return func(l *Loop) {
		l.splash = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// WithSleep replaces the inter-frame sleep.
func WithSleep(sleep retry.SleepFunc) Option {
	return func(l *Loop) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// WithLogger sets the loop logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loop drawing to backend from the given watchers.
func New(backend display.Backend, arrival *store.Watcher[board.ArrivalState], alert *store.Watcher[board.AlertState], opts ...Option) *Loop {
	l := &Loop{
		backend:       backend,
		arrival:       arrival,
		alert:         alert,
		frameInterval: DefaultFrameInterval,
		now:           time.Now,
		sleep:         retry.Sleep,
		logger:        slog.Default(),
		arrivalSnap:   board.InitialArrivalState(),
		alertSnap:     board.HiddenAlert(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run draws frames until the backend reports exit (nil), ctx is cancelled
// (nil), or a draw call fails (the error).
func (l *Loop) Run(ctx context.Context) error {
	l.startedAt = l.now()
	paced := l.backend.Paced()

	for {
		if ctx.Err() != nil {
			return nil
		}

		exit, err := l.Frame()
		if err != nil {
			return err
		}
		if exit {
			l.logger.Info("display requested exit", "frames", l.frames)
			return nil
		}

		if !paced {
			if err := l.sleep(ctx, l.frameInterval); err != nil {
				return nil
			}
		}
	}
}

// Frame draws and presents a single frame.
func (l *Loop) Frame() (exit bool, err error) {
	l.refresh()

	canvas := l.backend.Canvas()
	canvas.Clear()

	switch {
	case l.splash > 0 && l.now().Sub(l.startedAt) < l.splash:
		err = drawSplash(canvas)
	case l.alertSnap.Visible():
		err = drawAlert(canvas, l.alertSnap)
	default:
		err = drawBoard(canvas, l.arrivalSnap)
	}
	if err != nil {
		return false, fmt.Errorf("draw frame %d: %w", l.frames, err)
	}

	exit, err = l.backend.Present()
	if err != nil {
		return false, fmt.Errorf("present frame %d: %w", l.frames, err)
	}
	l.frames++
	return exit, nil
}

// refresh borrows the latest snapshots. Unchanged channels leave the
// previous snapshot in place.
func (l *Loop) refresh() {
	if s, changed := l.arrival.Borrow(); changed {
		l.arrivalSnap = s
		l.logger.Debug("arrival snapshot updated", "entries", len(s.Entries))
	}
	if s, changed := l.alert.Borrow(); changed {
		if s.Phase != l.alertSnap.Phase {
			l.logger.Debug("alert phase changed", "from", l.alertSnap.Phase.String(), "to", s.Phase.String())
		}
		l.alertSnap = s
	}
}

// Frames returns the number of frames presented.
func (l *Loop) Frames() uint64 {
	return l.frames
}
