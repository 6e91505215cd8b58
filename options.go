package metrosign

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jpalmerr/metrosign/display"
	"github.com/jpalmerr/metrosign/internal/producer"
	"github.com/jpalmerr/metrosign/internal/retry"
)

// signConfig holds mutable state during Sign construction.
type signConfig struct {
	firebaseURL    string
	firebaseAPIKey string
	wmataAPIKey    string
	wmataURL       string

	backend       display.Backend
	frameInterval time.Duration
	splash        time.Duration

	arrivalInterval time.Duration
	quietMin        time.Duration
	quietMax        time.Duration
	restartDelay    time.Duration
	httpTimeout     time.Duration
	retry           retry.Policy

	port   int
	logger *slog.Logger

	arrivalCallbacks []func(ArrivalState)
	alertCallbacks   []func(AlertState)

	// test seams
	widgets     widgetSource
	predictions producer.Predictions
	producerOps []producer.Option
}

// Option is a function that configures a [Sign] during construction.
//
// Options return an error if validation fails.
type Option func(*signConfig) error

// WithFirebase sets the document store holding the widget config.
//
// Example:
//
//	sign, err := metrosign.New(
//	    metrosign.WithFirebase("https://my-sign.firebaseio.com", apiKey),
//	    metrosign.WithWMATA(wmataKey),
//	)
//
// Returns an error if either value is empty.
func WithFirebase(url, apiKey string) Option {
	return func(cfg *signConfig) error {
		if url == "" {
			return errors.New("firebase URL cannot be empty")
		}
		if apiKey == "" {
			return errors.New("firebase API key cannot be empty")
		}
		cfg.firebaseURL = url
		cfg.firebaseAPIKey = apiKey
		return nil
	}
}

// WithWMATA sets the WMATA API key.
//
// Returns an error if the key is empty.
func WithWMATA(apiKey string) Option {
	return func(cfg *signConfig) error {
		if apiKey == "" {
			return errors.New("WMATA API key cannot be empty")
		}
		cfg.wmataAPIKey = apiKey
		return nil
	}
}

// WithWMATAURL overrides the prediction endpoint, for example to point at a
// mock server. The station code is appended to it.
func WithWMATAURL(url string) Option {
	return func(cfg *signConfig) error {
		if url == "" {
			return errors.New("WMATA URL cannot be empty")
		}
		cfg.wmataURL = url
		return nil
	}
}

// WithBackend sets the display backend. Defaults to a headless
// [display.Recorder]. The sign closes the backend when Start returns.
//
// Returns an error if the backend is nil.
func WithBackend(b display.Backend) Option {
	return func(cfg *signConfig) error {
		if b == nil {
			return errors.New("backend cannot be nil")
		}
		cfg.backend = b
		return nil
	}
}

// WithFrameInterval sets the pause between frames on backends without
// vertical sync. Defaults to 50ms.
//
// Returns an error if the duration is zero or negative.
func WithFrameInterval(d time.Duration) Option {
	return func(cfg *signConfig) error {
		if d <= 0 {
			return errors.New("frame interval must be positive")
		}
		cfg.frameInterval = d
		return nil
	}
}

// WithSplash shows the welcome card for d when the sign starts.
// Zero disables it.
func WithSplash(d time.Duration) Option {
	return func(cfg *signConfig) error {
		if d < 0 {
			return errors.New("splash duration cannot be negative")
		}
		cfg.splash = d
		return nil
	}
}

// WithArrivalInterval sets how often the arrival board is refreshed.
// Defaults to 15 seconds.
//
// Returns an error if the duration is zero or negative.
func WithArrivalInterval(d time.Duration) Option {
	return func(cfg *signConfig) error {
		if d <= 0 {
			return errors.New("arrival interval must be positive")
		}
		cfg.arrivalInterval = d
		return nil
	}
}

// WithAlertQuietRange sets the bounds of the random pause between alert
// announcements. Defaults to [60s, 300s).
//
// Returns an error if lo is negative or hi is less than lo.
func WithAlertQuietRange(lo, hi time.Duration) Option {
	return func(cfg *signConfig) error {
		if lo < 0 || hi < lo {
			return errors.New("alert quiet range must satisfy 0 <= lo <= hi")
		}
		cfg.quietMin, cfg.quietMax = lo, hi
		return nil
	}
}

// WithRetry sets how many times remote calls are retried and the first
// backoff ceiling. Defaults to 10 retries from 500ms. Zero attempts keeps
// the default.
//
// Returns an error if attempts is negative or baseDelay is not positive.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(cfg *signConfig) error {
		if attempts < 0 {
			return errors.New("retry attempts cannot be negative")
		}
		if baseDelay <= 0 {
			return errors.New("retry base delay must be positive")
		}
		cfg.retry.MaxAttempts = attempts
		cfg.retry.BaseDelay = baseDelay
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout for remote calls.
// Defaults to 10 seconds.
func WithHTTPTimeout(d time.Duration) Option {
	return func(cfg *signConfig) error {
		if d <= 0 {
			return errors.New("HTTP timeout must be positive")
		}
		cfg.httpTimeout = d
		return nil
	}
}

// WithRestartDelay sets the pause before a panicked producer is restarted.
// Defaults to 5 seconds.
func WithRestartDelay(d time.Duration) Option {
	return func(cfg *signConfig) error {
		if d <= 0 {
			return errors.New("restart delay must be positive")
		}
		cfg.restartDelay = d
		return nil
	}
}

// WithPort enables the read-only status API on the given port.
// Zero, the default, disables it.
//
// Returns an error if the port is outside 0-65535.
func WithPort(port int) Option {
	return func(cfg *signConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("port must be between 0 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Sign.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *signConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithArrivalCallback registers a function called after every arrival
// board publish.
//
// Callbacks run synchronously on the producer goroutine in registration
// order and must not block. Each receives its own copy of the state.
// Panics are recovered and logged. Nil callbacks are ignored.
func WithArrivalCallback(cb func(ArrivalState)) Option {
	return func(cfg *signConfig) error {
		if cb != nil {
			cfg.arrivalCallbacks = append(cfg.arrivalCallbacks, cb)
		}
		return nil
	}
}

// WithAlertCallback registers a function called after every alert phase
// transition. The same rules as [WithArrivalCallback] apply.
func WithAlertCallback(cb func(AlertState)) Option {
	return func(cfg *signConfig) error {
		if cb != nil {
			cfg.alertCallbacks = append(cfg.alertCallbacks, cb)
		}
		return nil
	}
}
