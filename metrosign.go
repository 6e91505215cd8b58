package metrosign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/metrosign/display"
	"github.com/jpalmerr/metrosign/internal/board"
	"github.com/jpalmerr/metrosign/internal/docstore"
	"github.com/jpalmerr/metrosign/internal/fetch"
	"github.com/jpalmerr/metrosign/internal/producer"
	"github.com/jpalmerr/metrosign/internal/render"
	"github.com/jpalmerr/metrosign/internal/retry"
	"github.com/jpalmerr/metrosign/internal/server"
	"github.com/jpalmerr/metrosign/internal/store"
	"github.com/jpalmerr/metrosign/internal/widget"
	"github.com/jpalmerr/metrosign/internal/wmata"
)

// widgetSource loads both widgets. [widget.Loader] satisfies it.
type widgetSource interface {
	producer.ArrivalConfig
	producer.AlertConfig
}

// Sign is the orchestrator for the producers and the render loop.
//
// It is created using [New] with functional options and run with
// [Sign.Start].
type Sign struct {
	backend       display.Backend
	widgets       widgetSource
	predictions   producer.Predictions
	httpClient    *fetch.Client
	frameInterval time.Duration
	splash        time.Duration
	restartDelay  time.Duration
	port          int
	logger        *slog.Logger

	producerOpts     []producer.Option
	arrivalCallbacks []func(ArrivalState)
	alertCallbacks   []func(AlertState)
}

// New creates a [Sign] with the given options.
//
// [WithFirebase] and [WithWMATA] are required. Other options have defaults:
//   - Backend: headless recorder
//   - Arrival interval: 15 seconds
//   - Alert quiet range: 60 to 300 seconds
//   - Frame interval: 50ms
//   - Status API: disabled
func New(opts ...Option) (*Sign, error) {
	cfg := &signConfig{
		frameInterval:   render.DefaultFrameInterval,
		arrivalInterval: producer.DefaultArrivalInterval,
		quietMin:        producer.DefaultQuietMin,
		quietMax:        producer.DefaultQuietMax,
		restartDelay:    producer.DefaultRestartDelay,
		retry:           retry.Default(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg.retry.Logger = logger

	s := &Sign{
		backend:          cfg.backend,
		widgets:          cfg.widgets,
		predictions:      cfg.predictions,
		frameInterval:    cfg.frameInterval,
		splash:           cfg.splash,
		restartDelay:     cfg.restartDelay,
		port:             cfg.port,
		logger:           logger,
		arrivalCallbacks: cfg.arrivalCallbacks,
		alertCallbacks:   cfg.alertCallbacks,
	}
	if s.backend == nil {
		s.backend = display.NewRecorder()
	}

	s.producerOpts = append([]producer.Option{
		producer.WithLogger(logger),
		producer.WithArrivalInterval(cfg.arrivalInterval),
		producer.WithQuietRange(cfg.quietMin, cfg.quietMax),
	}, cfg.producerOps...)

	if s.widgets == nil || s.predictions == nil {
		s.httpClient = fetch.NewClient(cfg.httpTimeout)
	}

	if s.widgets == nil {
		if cfg.firebaseURL == "" {
			return nil, errors.New("firebase URL and API key are required")
		}
		docs, err := docstore.New(cfg.firebaseURL, cfg.firebaseAPIKey, s.httpClient)
		if err != nil {
			return nil, err
		}
		s.widgets = widget.NewLoader(docs, widget.WithRetryPolicy(cfg.retry), widget.WithLogger(logger))
	}

	if s.predictions == nil {
		if cfg.wmataAPIKey == "" {
			return nil, errors.New("WMATA API key is required")
		}
		wopts := []wmata.Option{
			wmata.WithHTTPClient(s.httpClient),
			wmata.WithRetryPolicy(cfg.retry),
		}
		if cfg.wmataURL != "" {
			wopts = append(wopts, wmata.WithAPIURL(cfg.wmataURL))
		}
		client, err := wmata.NewClient(cfg.wmataAPIKey, wopts...)
		if err != nil {
			return nil, err
		}
		s.predictions = client
	}

	return s, nil
}

// Start runs the sign until ctx is cancelled, the backend asks to exit, or
// a fatal error occurs.
//
// Start is blocking. The render loop runs on the calling goroutine and each
// producer on its own. Returns nil on a clean stop. Returns an error when a
// widget config cannot be loaded, a frame cannot be drawn, or the status API
// cannot bind its port.
func (s *Sign) Start(ctx context.Context) error {
	defer s.close()

	if ctx.Err() != nil {
		return nil
	}

	s.logger.Info("metrosign starting", "status_api", s.port > 0)

	arrival := store.New(board.InitialArrivalState())
	alert := store.New(board.HiddenAlert())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if s.port > 0 {
		srv := server.NewServer(arrival, alert, s.port, s.logger)
		if err := srv.Start(gctx); err != nil {
			return fmt.Errorf("failed to start status API: %w", err)
		}
	}

	arrivalProducer := producer.NewArrival(s.widgets, s.predictions,
		withCallbacks(store.Publisher[board.ArrivalState](arrival), "arrival", s.arrivalCallbacks, cloneArrival, s.logger),
		s.producerOpts...)
	alertProducer := producer.NewAlert(s.widgets,
		withCallbacks(store.Publisher[board.AlertState](alert), "alert", s.alertCallbacks, cloneAlert, s.logger),
		s.producerOpts...)

	sup := producer.NewSupervisor(s.logger, s.restartDelay)
	g.Go(func() error { return sup.Supervise(gctx, "arrival", arrivalProducer.Run) })
	g.Go(func() error { return sup.Supervise(gctx, "alert", alertProducer.Run) })

	loop := render.New(s.backend, arrival.Watch(), alert.Watch(),
		render.WithFrameInterval(s.frameInterval),
		render.WithSplash(s.splash),
		render.WithLogger(s.logger),
	)
	renderErr := loop.Run(gctx)

	// the render loop is done; stop the producers
	cancel()
	producerErr := g.Wait()

	s.logger.Info("metrosign stopped",
		"frames", loop.Frames(),
		"arrival_dropped", arrival.Dropped(),
	)

	if renderErr != nil {
		return renderErr
	}
	return producerErr
}

func (s *Sign) close() {
	if err := s.backend.Close(); err != nil {
		s.logger.Warn("backend close failed", "error", err.Error())
	}
	s.httpClient.Close()
}

// Backend returns the display backend.
func (s *Sign) Backend() display.Backend {
	return s.backend
}

// Port returns the status API port, or 0 when disabled.
func (s *Sign) Port() int {
	return s.port
}
