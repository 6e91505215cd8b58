package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/metrosign"
	"github.com/jpalmerr/metrosign/config"
)

const (
	shutdownTimeout = 10 * time.Second
	defaultLogFile  = "metrosign.log"
)

// runCmd starts the sign.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sign",
	Long: `Run the arrival sign.

The sign will:
  - Resolve credentials from the environment and the OS keyring
  - Load the station and messages from the document store
  - Refresh arrivals and announce service alerts until interrupted

With the terminal backend, logs are written to a file so they do not
corrupt the simulator. The headless backend logs JSON to stderr.

The sign runs until interrupted (Ctrl+C), SIGTERM, or q in the simulator.

Example:
  metrosign run
  metrosign run -c metrosign.yaml --log-level debug`,
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
	runCmd.Flags().String("log-level", "", "override log_level (debug, info, warn, error)")
	runCmd.Flags().String("log-file", defaultLogFile, "log file used with the terminal backend")
}

// newLogger creates a JSON logger for CLI use.
//
// The returned close function releases the log file, if one was opened.
func newLogger(cfg *config.Config, logFile string) (*slog.Logger, func(), error) {
	var out io.Writer = os.Stderr
	closeFn := func() {}

	if config.UsesTerminal(cfg) {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	return slog.New(slog.NewJSONHandler(out, config.HandlerOptions(cfg))), closeFn, nil
}

func runSign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	logger, closeLog, err := newLogger(cfg, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("config loaded",
		"backend", cfg.Backend,
		"arrival_interval", cfg.ArrivalInterval.Duration().String(),
		"status_port", cfg.Status.Port,
	)

	backend := config.BuildBackend(cfg)
	opts := append(config.BuildOptions(cfg),
		metrosign.WithBackend(backend),
		metrosign.WithLogger(logger),
	)

	sign, err := metrosign.New(opts...)
	if err != nil {
		_ = backend.Close()
		return fmt.Errorf("failed to create sign: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- sign.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return finish(logger, err)

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			return finish(logger, err)
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}

func finish(logger *slog.Logger, err error) error {
	if err != nil {
		logger.Error("sign failed", "error", err.Error())
		return fmt.Errorf("sign error: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
