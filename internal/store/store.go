package store

// Reader is a read-only view of a state channel for observers other than
// the render loop.
//
// Implementations must be safe for concurrent access and must never block
// waiting for a publisher.
type Reader[T any] interface {
	// Peek returns the latest value and its version without consuming it.
	// Versions start at 1 for the initial value and increase by one per
	// publish.
	Peek() (T, uint64)

	// Dropped returns how many values were overwritten unread.
	Dropped() uint64
}

// Publisher is the write side of a state channel.
type Publisher[T any] interface {
	// Publish replaces the stored value. The previous value is discarded
	// whether or not anybody read it.
	Publish(v T)
}

var (
	_ Reader[int]    = (*Latest[int])(nil)
	_ Publisher[int] = (*Latest[int])(nil)
)
