// Package render draws the sign.
//
// [Loop] is the single consumer of the producers' state channels. Each frame
// it clears the canvas, borrows the latest arrival and alert snapshots
// without blocking, draws either the alert view or the arrival board, and
// presents the frame. Unpaced backends get a fixed sleep between frames.
package render
