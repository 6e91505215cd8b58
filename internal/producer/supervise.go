package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/metrosign/internal/retry"
)

// DefaultRestartDelay is the pause before a panicked producer is restarted.
const DefaultRestartDelay = 5 * time.Second

// ErrPanicked marks a producer run that ended in a recovered panic.
var ErrPanicked = errors.New("producer panicked")

// Task is a producer body.
type Task func(ctx context.Context) error

// Supervisor restarts panicking tasks.
type Supervisor struct {
	logger *slog.Logger
	delay  time.Duration
	sleep  retry.SleepFunc
}

// NewSupervisor creates a Supervisor that waits delay before each restart.
// A non-positive delay uses [DefaultRestartDelay].
func NewSupervisor(logger *slog.Logger, delay time.Duration) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	if delay <= 0 {
		delay = DefaultRestartDelay
	}
	return &Supervisor{logger: logger, delay: delay, sleep: retry.Sleep}
}

// Supervise runs task until it returns. A panic is logged with a
// correlation id and the task is restarted after the restart delay; any
// returned error stops supervision and is passed through. Cancellation of
// ctx yields nil.
func (s *Supervisor) Supervise(ctx context.Context, name string, task Task) error {
	for restarts := 0; ; restarts++ {
		err := s.runSafe(ctx, name, task)
		if !errors.Is(err, ErrPanicked) {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		s.logger.Warn("restarting producer",
			"producer", name,
			"restarts", restarts+1,
			"delay", s.delay.String(),
		)
		if err := s.sleep(ctx, s.delay); err != nil {
			return nil
		}
	}
}

// runSafe calls task with panic recovery.
func (s *Supervisor) runSafe(ctx context.Context, name string, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			s.logger.Error("producer panic",
				"producer", name,
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			err = fmt.Errorf("%w: %s (correlation_id: %s)", ErrPanicked, name, correlationID)
		}
	}()
	return task(ctx)
}
