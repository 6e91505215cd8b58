// Package board turns raw train predictions and operator custom messages
// into the ordered rows shown on the arrival board, and defines the state
// snapshots the producers publish to the render loop.
//
// # Ordering
//
// Every row carries a SortKey. Predictions sort at their arrival time, with
// boarding ("BRD") and arriving ("ARR") trains pinned slightly in the past
// and unparseable ETAs pushed a day out. Sticky messages sort at the Unix
// epoch so they always lead. Non-sticky messages sort at their own
// timestamp, which is also their expiry time. The merged list is stably
// sorted, so rows with equal keys keep their input order (predictions
// before messages).
//
// [Merge] is pure: it reads nothing but its arguments.
package board
