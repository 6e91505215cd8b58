// Package metrosign drives an LED transit arrival sign.
//
// A [Sign] runs two background producers and one render loop:
//
//   - the arrival producer polls the arrival widget and the WMATA prediction
//     API every 15 seconds and publishes the merged board
//   - the alert producer runs the service-alert announcement cycle
//   - the render loop draws the latest state onto a [display.Backend]
//
// Producers hand their state to the render loop through single-slot
// channels. The render loop never waits on a producer; it always draws the
// newest snapshot it can see.
//
// # Quick Start
//
//	sign, err := metrosign.New(
//	    metrosign.WithFirebase(os.Getenv("FIREBASE_URL"), os.Getenv("FIREBASE_API_KEY")),
//	    metrosign.WithWMATA(os.Getenv("WMATA_API_KEY")),
//	    metrosign.WithBackend(display.NewTerminal()),
//	)
//	if err != nil {
//	    slog.Error("failed to create sign", "error", err.Error())
//	    os.Exit(1)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	if err := sign.Start(ctx); err != nil { // blocks until exit
//	    os.Exit(1)
//	}
//
// # Failure Handling
//
// A widget config that cannot be loaded stops the sign: without a station
// id the board cannot be trusted. A prediction fetch that fails after all
// retries is logged and the previous board stays up. A producer that panics
// is restarted after a short delay.
//
// # Architecture
//
// The internal packages are:
//
//   - internal/retry: jittered exponential backoff
//   - internal/docstore, internal/widget: widget config from the document store
//   - internal/wmata: train predictions
//   - internal/board: merge engine and state snapshots
//   - internal/store: single-slot state channels
//   - internal/producer: arrival and alert producers, supervision
//   - internal/render: the render loop and its views
//   - internal/server: optional read-only status API
package metrosign
