// Package config provides YAML configuration parsing for the metrosign binary.
//
// The file only tunes ambient settings. Every field has a default, so the
// sign runs without a config file as long as its credentials resolve.
//
// Example configuration:
//
//	backend: terminal
//	title: Metro Center
//	frame_interval: 50ms
//	arrival_interval: 15s
//	splash: 3s
//
//	alerts:
//	  quiet_min: 60s
//	  quiet_max: 5m
//
//	retry:
//	  attempts: 10
//	  base_delay: 500ms
//
//	status:
//	  port: 8080
//
//	firebase:
//	  url: ${FIREBASE_URL}
//	  api_key: ${FIREBASE_API_KEY}
//
//	wmata:
//	  api_key: ${WMATA_API_KEY}
//
//	log_level: info
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/metrosign/internal/producer"
)

// Backend names.
const (
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

// Credential variable names. Unset credential fields default to ${NAME}.
const (
	EnvFirebaseURL    = "FIREBASE_URL"
	EnvFirebaseAPIKey = "FIREBASE_API_KEY"
	EnvWMATAAPIKey    = "WMATA_API_KEY"
)

const (
	defaultFrameInterval = 50 * time.Millisecond
	defaultRetryAttempts = 10
	defaultRetryDelay    = 500 * time.Millisecond
	defaultHTTPTimeout   = 10 * time.Second

	// minArrivalInterval keeps a typo from hammering the prediction API.
	minArrivalInterval = time.Second
	minFrameInterval   = time.Millisecond
)

// LookupFunc resolves a variable name, with the semantics of [os.LookupEnv].
type LookupFunc func(string) (string, bool)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Backend selects the display: "terminal" (default) or "headless".
	Backend string `yaml:"backend"`

	// Title is the terminal simulator's title line.
	Title string `yaml:"title"`

	// FrameInterval is the pause between frames. Defaults to 50ms.
	FrameInterval Duration `yaml:"frame_interval"`

	// Splash is how long the welcome card is shown. Zero disables it.
	Splash Duration `yaml:"splash"`

	// ArrivalInterval is the time between board refreshes. Defaults to 15s.
	ArrivalInterval Duration `yaml:"arrival_interval"`

	Alerts AlertsConfig `yaml:"alerts"`
	Retry  RetryConfig  `yaml:"retry"`

	// HTTPTimeout bounds each remote request. Defaults to 10s.
	HTTPTimeout Duration `yaml:"http_timeout"`

	Status   StatusConfig   `yaml:"status"`
	Firebase FirebaseConfig `yaml:"firebase"`
	WMATA    WMATAConfig    `yaml:"wmata"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`
}

// AlertsConfig bounds the random pause between alert announcements.
type AlertsConfig struct {
	QuietMin Duration `yaml:"quiet_min"`
	QuietMax Duration `yaml:"quiet_max"`
}

// RetryConfig controls backoff for remote calls.
type RetryConfig struct {
	// Attempts is the number of retries after the first call.
	Attempts  int      `yaml:"attempts"`
	BaseDelay Duration `yaml:"base_delay"`
}

// StatusConfig controls the read-only status API.
type StatusConfig struct {
	// Port is the listen port. Zero, the default, disables the API.
	Port int `yaml:"port"`
}

// FirebaseConfig locates the widget document store.
//
// Values support environment variable substitution: ${VAR} or ${VAR:-default}.
type FirebaseConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// WMATAConfig holds the prediction API settings.
type WMATAConfig struct {
	// URL overrides the prediction endpoint. Empty uses the public API.
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with values
// from lookup.
func expandEnvVars(s string, lookup LookupFunc) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := lookup(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// An empty path parses an empty document, so every default applies.
// Variables are resolved with lookup, or [os.LookupEnv] when lookup is nil.
func Load(path string, lookup LookupFunc) (*Config, error) {
	if path == "" {
		return Parse(nil, lookup)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, lookup)
}

// Parse parses YAML configuration data, applies defaults, expands variables
// in the credential fields and validates the result.
func Parse(data []byte, lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expand(lookup); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendTerminal
	}
	if c.FrameInterval == 0 {
		c.FrameInterval = Duration(defaultFrameInterval)
	}
	if c.ArrivalInterval == 0 {
		c.ArrivalInterval = Duration(producer.DefaultArrivalInterval)
	}
	if c.Alerts.QuietMin == 0 && c.Alerts.QuietMax == 0 {
		c.Alerts.QuietMin = Duration(producer.DefaultQuietMin)
		c.Alerts.QuietMax = Duration(producer.DefaultQuietMax)
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = defaultRetryAttempts
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = Duration(defaultRetryDelay)
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = Duration(defaultHTTPTimeout)
	}
	if c.Firebase.URL == "" {
		c.Firebase.URL = "${" + EnvFirebaseURL + "}"
	}
	if c.Firebase.APIKey == "" {
		c.Firebase.APIKey = "${" + EnvFirebaseAPIKey + "}"
	}
	if c.WMATA.APIKey == "" {
		c.WMATA.APIKey = "${" + EnvWMATAAPIKey + "}"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) expand(lookup LookupFunc) error {
	fields := []struct {
		name string
		ptr  *string
	}{
		{"firebase.url", &c.Firebase.URL},
		{"firebase.api_key", &c.Firebase.APIKey},
		{"wmata.url", &c.WMATA.URL},
		{"wmata.api_key", &c.WMATA.APIKey},
	}

	for _, f := range fields {
		expanded, err := expandEnvVars(*f.ptr, lookup)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.ptr = expanded
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendTerminal, BackendHeadless:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendTerminal, BackendHeadless, c.Backend)
	}

	if c.FrameInterval.Duration() < minFrameInterval {
		return fmt.Errorf("frame_interval must be at least %s, got %s", minFrameInterval, c.FrameInterval.Duration())
	}
	if c.Splash.Duration() < 0 {
		return fmt.Errorf("splash cannot be negative, got %s", c.Splash.Duration())
	}
	if c.ArrivalInterval.Duration() < minArrivalInterval {
		return fmt.Errorf("arrival_interval must be at least %s, got %s", minArrivalInterval, c.ArrivalInterval.Duration())
	}

	if c.Alerts.QuietMin.Duration() < 0 {
		return fmt.Errorf("alerts.quiet_min cannot be negative, got %s", c.Alerts.QuietMin.Duration())
	}
	if c.Alerts.QuietMax < c.Alerts.QuietMin {
		return fmt.Errorf("alerts.quiet_max (%s) must not be less than alerts.quiet_min (%s)",
			c.Alerts.QuietMax.Duration(), c.Alerts.QuietMin.Duration())
	}

	if c.Retry.Attempts < 0 {
		return fmt.Errorf("retry.attempts cannot be negative, got %d", c.Retry.Attempts)
	}
	if c.Retry.BaseDelay.Duration() <= 0 {
		return fmt.Errorf("retry.base_delay must be positive, got %s", c.Retry.BaseDelay.Duration())
	}
	if c.HTTPTimeout.Duration() < time.Second {
		return fmt.Errorf("http_timeout must be at least 1s, got %s", c.HTTPTimeout.Duration())
	}

	if c.Status.Port < 0 || c.Status.Port > 65535 {
		return fmt.Errorf("status.port must be between 0 and 65535, got %d", c.Status.Port)
	}

	if err := validateURL("firebase.url", c.Firebase.URL); err != nil {
		return err
	}
	if c.Firebase.APIKey == "" {
		return errors.New("firebase.api_key is required")
	}
	if c.WMATA.URL != "" {
		if err := validateURL("wmata.url", c.WMATA.URL); err != nil {
			return err
		}
	}
	if c.WMATA.APIKey == "" {
		return errors.New("wmata.api_key is required")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: url scheme must be http or https, got %q", field, u.Scheme)
	}
	return nil
}
