package metrosign

import (
	"fmt"
	"log/slog"

	"github.com/jpalmerr/metrosign/internal/board"
	"github.com/jpalmerr/metrosign/internal/store"
)

// ArrivalState is a published arrival board snapshot.
type ArrivalState = board.ArrivalState

// AlertState is a published alert snapshot.
type AlertState = board.AlertState

// DisplayEntry is one row of the arrival board.
type DisplayEntry = board.DisplayEntry

// Phase is a step of the alert announcement cycle.
type Phase = board.Phase

// Alert phases.
const (
	PhaseHidden   = board.PhaseHidden
	PhaseIntroA   = board.PhaseIntroA
	PhaseIntroB   = board.PhaseIntroB
	PhaseMessageA = board.PhaseMessageA
	PhaseMessageB = board.PhaseMessageB
)

// MaxRows is the number of board rows drawn.
const MaxRows = board.MaxRows

// callbackPublisher forwards to a state channel, then invokes callbacks
// with a private copy of the value.
type callbackPublisher[T any] struct {
	next      store.Publisher[T]
	callbacks []func(T)
	clone     func(T) T
	name      string
	logger    *slog.Logger
}

// Publish stores v first so callbacks fire after the data is visible.
func (p *callbackPublisher[T]) Publish(v T) {
	p.next.Publish(v)

	for _, cb := range p.callbacks {
		invokeCallbackSafe(cb, p.clone(v), p.name, p.logger)
	}
}

// invokeCallbackSafe calls a publish callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe[T any](cb func(T), v T, name string, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("publish callback panicked",
				"producer", name,
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()
	cb(v)
}

func withCallbacks[T any](next store.Publisher[T], name string, callbacks []func(T), clone func(T) T, logger *slog.Logger) store.Publisher[T] {
	if len(callbacks) == 0 {
		return next
	}
	return &callbackPublisher[T]{
		next:      next,
		callbacks: callbacks,
		clone:     clone,
		name:      name,
		logger:    logger,
	}
}

func cloneArrival(s ArrivalState) ArrivalState { return s.Clone() }

func cloneAlert(s AlertState) AlertState { return s }
