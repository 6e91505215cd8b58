package config

import (
	"log/slog"
	"testing"

	"github.com/jpalmerr/metrosign"
	"github.com/jpalmerr/metrosign/display"
)

func TestBuildOptions_CreatesSign(t *testing.T) {
	cfg, err := Parse([]byte(`
backend: headless
status:
  port: 9090
wmata:
  url: http://localhost:9000/GetPrediction/
`), credentials())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := BuildOptions(cfg)
	sign, err := metrosign.New(opts...)
	if err != nil {
		t.Fatalf("metrosign.New() error = %v", err)
	}
	if sign.Port() != 9090 {
		t.Errorf("Port() = %d, want 9090", sign.Port())
	}
}

func TestBuildOptions_WMATAURLOnlyWhenSet(t *testing.T) {
	cfg, err := Parse(nil, credentials())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	withoutURL := len(BuildOptions(cfg))

	cfg.WMATA.URL = "http://localhost:9000/GetPrediction/"
	if got := len(BuildOptions(cfg)); got != withoutURL+1 {
		t.Errorf("len(BuildOptions) = %d, want %d", got, withoutURL+1)
	}
}

func TestBuildOptions_DefaultsAreAccepted(t *testing.T) {
	cfg, err := Parse(nil, credentials())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := metrosign.New(BuildOptions(cfg)...); err != nil {
		t.Errorf("metrosign.New() with default config error = %v", err)
	}
}

func TestBuildBackend_Headless(t *testing.T) {
	cfg := &Config{Backend: BackendHeadless}
	b := BuildBackend(cfg)
	defer func() { _ = b.Close() }()

	if _, ok := b.(*display.Recorder); !ok {
		t.Errorf("BuildBackend() = %T, want *display.Recorder", b)
	}
	if UsesTerminal(cfg) {
		t.Error("UsesTerminal() = true for headless backend")
	}
}

func TestUsesTerminal(t *testing.T) {
	if !UsesTerminal(&Config{Backend: BackendTerminal}) {
		t.Error("UsesTerminal() = false for terminal backend")
	}
}

func TestHandlerOptions(t *testing.T) {
	opts := HandlerOptions(&Config{LogLevel: "warn"})
	if opts.Level.Level() != slog.LevelWarn {
		t.Errorf("Level = %v, want warn", opts.Level.Level())
	}
}
