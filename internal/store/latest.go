package store

import "sync"

// Latest is a single-slot, latest-value state channel.
//
// Publish overwrites the slot; Load returns whatever is there. Values are
// stored as given, so publishers must hand over snapshots they no longer
// mutate.
type Latest[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	drops   uint64
	read    uint64
}

// New creates a state channel holding an initial value at version 1.
func New[T any](initial T) *Latest[T] {
	return &Latest[T]{
		value:   initial,
		version: 1,
	}
}

// Publish stores v as the latest value.
//
// If the previous value was never loaded it counts as dropped.
func (l *Latest[T]) Publish(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.read < l.version {
		l.drops++
	}
	l.value = v
	l.version++
}

// Load returns the latest value and its version without blocking on publishers
// beyond the brief critical section of a concurrent Publish.
func (l *Latest[T]) Load() (T, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.read < l.version {
		l.read = l.version
	}
	return l.value, l.version
}

// Peek returns the latest value without marking it as read.
func (l *Latest[T]) Peek() (T, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value, l.version
}

// Version returns the current version.
func (l *Latest[T]) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Dropped returns how many published values were overwritten before any
// reader loaded them.
func (l *Latest[T]) Dropped() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.drops
}

// Watcher is a single reader's cursor over a [Latest].
//
// A Watcher must only be used from one goroutine.
type Watcher[T any] struct {
	src  *Latest[T]
	seen uint64
	last T
}

// Watch creates a Watcher that has not yet seen any value.
func (l *Latest[T]) Watch() *Watcher[T] {
	return &Watcher[T]{src: l}
}

// Borrow returns the latest value and whether it changed since the previous
// Borrow. The first Borrow always reports a change.
func (w *Watcher[T]) Borrow() (T, bool) {
	v, version := w.src.Load()
	if version == w.seen {
		return w.last, false
	}
	w.seen = version
	w.last = v
	return v, true
}

// Changed reports whether a newer value is available without consuming it.
func (w *Watcher[T]) Changed() bool {
	return w.src.Version() != w.seen
}
