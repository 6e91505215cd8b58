package producer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jpalmerr/metrosign/internal/widget"
	"github.com/jpalmerr/metrosign/internal/wmata"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder is a Publisher that keeps every value.
type recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func (r *recorder[T]) Publish(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

// sleeper records requested durations and cancels after limit calls.
type sleeper struct {
	mu     sync.Mutex
	calls  []time.Duration
	limit  int
	cancel context.CancelFunc
}

func (s *sleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.calls = append(s.calls, d)
	n := len(s.calls)
	s.mu.Unlock()

	if s.limit > 0 && n >= s.limit && s.cancel != nil {
		s.cancel()
	}
	return ctx.Err()
}

func (s *sleeper) durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.calls...)
}

// fixedRand returns scripted values.
type fixedRand struct {
	intN   int
	int64N int64
}

func (r fixedRand) IntN(n int) int {
	return r.intN % n
}

func (r fixedRand) Int64N(n int64) int64 {
	return r.int64N % n
}

type fakeArrivalConfig struct {
	mu     sync.Mutex
	widget widget.ArrivalWidget
	err    error
	calls  int
}

func (f *fakeArrivalConfig) LoadArrival(ctx context.Context) (widget.ArrivalWidget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.widget, f.err
}

type fakePredictions struct {
	mu      sync.Mutex
	results [][]wmata.Prediction
	errs    []error
	calls   int
	station string
}

func (f *fakePredictions) Predictions(ctx context.Context, stationID string) ([]wmata.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.station = stationID
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return nil, nil
}

type fakeAlertConfig struct {
	widget widget.AlertWidget
	err    error
}

func (f *fakeAlertConfig) LoadAlerts(ctx context.Context) (widget.AlertWidget, error) {
	return f.widget, f.err
}

var errConfig = errors.New("config gone")
