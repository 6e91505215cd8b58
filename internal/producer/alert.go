package producer

import (
	"context"
	"time"

	"github.com/jpalmerr/metrosign/internal/board"
	"github.com/jpalmerr/metrosign/internal/store"
	"github.com/jpalmerr/metrosign/internal/widget"
)

// AlertConfig loads the alerts widget. [widget.Loader] satisfies it.
type AlertConfig interface {
	LoadAlerts(ctx context.Context) (widget.AlertWidget, error)
}

// Alert runs the announcement state machine:
//
//	Hidden -> IntroA <-> IntroB -> MessageA <-> MessageB -> Hidden
//
// One cycle flashes the intro twice, then pages the chosen alert through
// four scroll positions three times, then hides. Cycles are separated by a
// random quiet period whether or not there was anything to announce.
type Alert struct {
	config AlertConfig
	out    store.Publisher[board.AlertState]
	opts   options
}

// NewAlert creates an alert producer publishing to out.
func NewAlert(config AlertConfig, out store.Publisher[board.AlertState], opts ...Option) *Alert {
	return &Alert{
		config: config,
		out:    out,
		opts:   buildOptions(opts),
	}
}

// Run cycles until ctx is cancelled or the alerts widget cannot be loaded.
func (a *Alert) Run(ctx context.Context) error {
	a.out.Publish(board.HiddenAlert())

	for {
		if err := a.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		quiet := a.quietPeriod()
		a.opts.logger.Debug("alert cycle complete", "next_in", quiet.String())
		if err := a.opts.sleep(ctx, quiet); err != nil {
			return nil
		}
	}
}

// Cycle runs one announcement. With no alerts it publishes nothing.
func (a *Alert) Cycle(ctx context.Context) error {
	w, err := a.config.LoadAlerts(ctx)
	if err != nil {
		return err
	}
	if len(w.Alerts) == 0 {
		return nil
	}

	msg := w.Alerts[a.opts.rand.IntN(len(w.Alerts))].Text
	a.opts.logger.Info("announcing alert", "alerts", len(w.Alerts), "message", msg)

	for i := 0; i < introFlashes*2; i++ {
		phase := board.PhaseIntroA
		if i%2 == 1 {
			phase = board.PhaseIntroB
		}
		if err := a.step(ctx, board.AlertState{Phase: phase, Message: msg}, a.opts.introStep); err != nil {
			return err
		}
	}

	for i := 0; i < scrollRepeats*scrollPositions; i++ {
		phase := board.PhaseMessageA
		if i%2 == 1 {
			phase = board.PhaseMessageB
		}
		state := board.AlertState{
			Phase:        phase,
			Message:      msg,
			ScrollOffset: uint32(i % scrollPositions),
		}
		if err := a.step(ctx, state, a.opts.messageStep); err != nil {
			return err
		}
	}

	a.out.Publish(board.HiddenAlert())
	return nil
}

func (a *Alert) step(ctx context.Context, s board.AlertState, hold time.Duration) error {
	a.out.Publish(s)
	return a.opts.sleep(ctx, hold)
}

// quietPeriod draws the pause before the next cycle from [quietMin, quietMax).
func (a *Alert) quietPeriod() time.Duration {
	span := a.opts.quietMax - a.opts.quietMin
	if span <= 0 {
		return a.opts.quietMin
	}
	return a.opts.quietMin + time.Duration(a.opts.rand.Int64N(int64(span)))
}
