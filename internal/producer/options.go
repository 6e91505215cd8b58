package producer

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jpalmerr/metrosign/internal/retry"
)

// Default timings.
const (
	DefaultArrivalInterval = 15 * time.Second
	DefaultQuietMin        = 60 * time.Second
	DefaultQuietMax        = 300 * time.Second
	DefaultIntroStep       = 2 * time.Second
	DefaultMessageStep     = time.Second
)

// Shape of one announcement.
const (
	introFlashes    = 2
	scrollPositions = 4
	scrollRepeats   = 3
)

// Rand is the randomness a producer draws from. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Int64N(n int64) int64
}

type options struct {
	now    func() time.Time
	sleep  retry.SleepFunc
	logger *slog.Logger
	rand   Rand

	arrivalInterval time.Duration
	quietMin        time.Duration
	quietMax        time.Duration
	introStep       time.Duration
	messageStep     time.Duration
}

func defaultOptions() options {
	return options{
		now:             time.Now,
		sleep:           retry.Sleep,
		logger:          slog.Default(),
		rand:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		arrivalInterval: DefaultArrivalInterval,
		quietMin:        DefaultQuietMin,
		quietMax:        DefaultQuietMax,
		introStep:       DefaultIntroStep,
		messageStep:     DefaultMessageStep,
	}
}

// Option configures a producer.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSleep replaces the context-aware sleep between steps.
func WithSleep(sleep retry.SleepFunc) Option {
	return func(o *options) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// WithLogger sets the producer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithArrivalInterval sets the pause between arrival polls.
func WithArrivalInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.arrivalInterval = d
		}
	}
}

// WithQuietRange sets the bounds of the random pause between alert cycles.
// The pause is drawn from [lo, hi).
func WithQuietRange(lo, hi time.Duration) Option {
	return func(o *options) {
		if lo >= 0 && hi >= lo {
			o.quietMin, o.quietMax = lo, hi
		}
	}
}

// WithAlertSteps sets how long each intro and message frame is held.
func WithAlertSteps(intro, message time.Duration) Option {
	return func(o *options) {
		if intro > 0 {
			o.introStep = intro
		}
		if message > 0 {
			o.messageStep = message
		}
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
