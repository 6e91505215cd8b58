package config

import (
	"log/slog"

	"github.com/jpalmerr/metrosign"
	"github.com/jpalmerr/metrosign/display"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The backend and logger are not included; callers build those with
// [BuildBackend] and their own handler so they control where output goes.
func BuildOptions(cfg *Config) []metrosign.Option {
	opts := []metrosign.Option{
		metrosign.WithFirebase(cfg.Firebase.URL, cfg.Firebase.APIKey),
		metrosign.WithWMATA(cfg.WMATA.APIKey),
		metrosign.WithFrameInterval(cfg.FrameInterval.Duration()),
		metrosign.WithSplash(cfg.Splash.Duration()),
		metrosign.WithArrivalInterval(cfg.ArrivalInterval.Duration()),
		metrosign.WithAlertQuietRange(cfg.Alerts.QuietMin.Duration(), cfg.Alerts.QuietMax.Duration()),
		metrosign.WithRetry(cfg.Retry.Attempts, cfg.Retry.BaseDelay.Duration()),
		metrosign.WithHTTPTimeout(cfg.HTTPTimeout.Duration()),
		metrosign.WithPort(cfg.Status.Port),
	}

	if cfg.WMATA.URL != "" {
		opts = append(opts, metrosign.WithWMATAURL(cfg.WMATA.URL))
	}
	return opts
}

// BuildBackend creates the display backend named by cfg.Backend.
//
// The terminal backend takes over the terminal as soon as it is created.
func BuildBackend(cfg *Config) display.Backend {
	if cfg.Backend == BackendHeadless {
		return display.NewRecorder()
	}

	var opts []display.TerminalOption
	if cfg.Title != "" {
		opts = append(opts, display.WithTitle(cfg.Title))
	}
	return display.NewTerminal(opts...)
}

// UsesTerminal reports whether the configured backend draws to the terminal,
// in which case logs must go elsewhere.
func UsesTerminal(cfg *Config) bool {
	return cfg.Backend == BackendTerminal
}

// HandlerOptions returns slog handler options for the configured level.
func HandlerOptions(cfg *Config) *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: cfg.Level()}
}
