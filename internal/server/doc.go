// Package server provides the optional read-only status API for the sign.
//
// It exposes two endpoints:
//
//   - GET /api/state: the latest arrival and alert snapshots as JSON
//   - GET /healthz: liveness plus staleness of the arrival board
//
// The server reads the state channels through [store.Reader], so it never
// consumes values meant for the render loop. It supports graceful shutdown
// via context cancellation, with a 5-second timeout for in-flight requests.
package server
