// Package producer runs the background tasks that feed the render loop.
//
// Each producer owns its state and hands immutable snapshots to a
// [store.Publisher]; producers share nothing else. The main components are:
//
//   - [Arrival]: polls widget config and predictions, merges them into a
//     [board.ArrivalState]
//   - [Alert]: drives the alert announcement cycle, publishing a
//     [board.AlertState] after each phase transition
//   - [Supervise]: restarts a producer that panics, with a correlation id
//     in the log
//
// A producer's Run returns nil when its context is cancelled and a non-nil
// error only for failures the sign cannot operate through.
package producer
