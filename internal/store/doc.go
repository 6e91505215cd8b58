// Package store provides the single-slot state channel between the sign's
// producers and its render loop.
//
// Each producer owns one [Latest] and publishes immutable snapshots into it.
// The render loop reads through a [Watcher], which never blocks: when nothing
// new has been published it simply hands back the previous snapshot.
//
// The main components are:
//
//   - [Latest]: RWMutex-protected slot holding the most recent value
//   - [Watcher]: single-reader cursor that reports whether the value changed
//   - [Reader]: read-only view used by the status API
//
// A slow reader misses intermediate values. That is the intended semantics:
// the renderer only ever needs the newest state, never the history.
package store
