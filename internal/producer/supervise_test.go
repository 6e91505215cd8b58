package producer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSupervise_RestartsAfterPanic(t *testing.T) {
	s := NewSupervisor(testLogger(), time.Millisecond)
	sl := &sleeper{}
	s.sleep = sl.sleep

	runs := 0
	err := s.Supervise(context.Background(), "arrival", func(ctx context.Context) error {
		runs++
		if runs < 3 {
			panic("nil map write")
		}
		return errConfig
	})

	if !errors.Is(err, errConfig) {
		t.Errorf("Supervise() error = %v, want %v", err, errConfig)
	}
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
	if got := len(sl.durations()); got != 2 {
		t.Errorf("restart sleeps = %d, want 2", got)
	}
}

func TestSupervise_CleanReturn(t *testing.T) {
	s := NewSupervisor(testLogger(), 0)

	err := s.Supervise(context.Background(), "alert", func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("Supervise() error = %v, want nil", err)
	}
	if s.delay != DefaultRestartDelay {
		t.Errorf("delay = %v, want default", s.delay)
	}
}

func TestSupervise_CancelledDuringRestartDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewSupervisor(testLogger(), time.Hour)
	s.sleep = (&sleeper{limit: 1, cancel: cancel}).sleep

	runs := 0
	err := s.Supervise(ctx, "alert", func(ctx context.Context) error {
		runs++
		panic("boom")
	})
	if err != nil {
		t.Errorf("Supervise() error = %v, want nil after cancel", err)
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestSupervise_ErrorAfterCancelIsSwallowed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSupervisor(testLogger(), time.Millisecond)
	err := s.Supervise(ctx, "arrival", func(ctx context.Context) error {
		return ctx.Err()
	})
	if err != nil {
		t.Errorf("Supervise() error = %v, want nil", err)
	}
}

func TestRunSafe_WrapsPanic(t *testing.T) {
	s := NewSupervisor(testLogger(), time.Millisecond)

	err := s.runSafe(context.Background(), "arrival", func(ctx context.Context) error {
		panic("index out of range")
	})
	if !errors.Is(err, ErrPanicked) {
		t.Fatalf("runSafe() error = %v, want ErrPanicked", err)
	}
}
