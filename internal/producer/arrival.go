package producer

import (
	"context"

	"github.com/jpalmerr/metrosign/internal/board"
	"github.com/jpalmerr/metrosign/internal/store"
	"github.com/jpalmerr/metrosign/internal/widget"
	"github.com/jpalmerr/metrosign/internal/wmata"
)

// ArrivalConfig loads the arrival widget. [widget.Loader] satisfies it.
type ArrivalConfig interface {
	LoadArrival(ctx context.Context) (widget.ArrivalWidget, error)
}

// Predictions fetches train predictions. [wmata.Client] satisfies it.
type Predictions interface {
	Predictions(ctx context.Context, stationID string) ([]wmata.Prediction, error)
}

// Arrival polls config and predictions and publishes the merged board.
type Arrival struct {
	config      ArrivalConfig
	predictions Predictions
	out         store.Publisher[board.ArrivalState]
	opts        options
}

// NewArrival creates an arrival producer publishing to out.
func NewArrival(config ArrivalConfig, predictions Predictions, out store.Publisher[board.ArrivalState], opts ...Option) *Arrival {
	return &Arrival{
		config:      config,
		predictions: predictions,
		out:         out,
		opts:        buildOptions(opts),
	}
}

// Run polls until ctx is cancelled or the widget config cannot be loaded.
func (a *Arrival) Run(ctx context.Context) error {
	for {
		if err := a.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := a.opts.sleep(ctx, a.opts.arrivalInterval); err != nil {
			return nil
		}
	}
}

// Poll runs one cycle. It returns an error only when the widget config is
// unavailable. A failed prediction fetch is logged and leaves the last
// published state in place.
func (a *Arrival) Poll(ctx context.Context) error {
	w, err := a.config.LoadArrival(ctx)
	if err != nil {
		return err
	}

	predictions, err := a.predictions.Predictions(ctx, w.StationID)
	if err != nil {
		if ctx.Err() == nil {
			a.opts.logger.Error("prediction fetch failed, keeping last arrival state",
				"station_id", w.StationID,
				"error", err.Error(),
			)
		}
		return nil
	}

	now := a.opts.now()
	state := board.ArrivalState{
		Entries:    board.Merge(now, predictions, w.CustomMessages),
		LastUpdate: now,
	}
	a.out.Publish(state)

	a.opts.logger.Debug("arrival state published",
		"station_id", w.StationID,
		"trains", len(predictions),
		"entries", len(state.Entries),
	)
	return nil
}
