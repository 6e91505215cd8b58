// Command example runs the sign in the terminal simulator against a local
// mock of the document store and the prediction API.
//
// Usage:
//
//	go run ./example
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/metrosign"
	"github.com/jpalmerr/metrosign/display"
	"github.com/jpalmerr/metrosign/example/mockremote"
)

const mockAddr = "127.0.0.1:9999"

func main() {
	// the simulator owns the terminal, so log to a file
	logFile, err := os.Create("example.log")
	if err != nil {
		slog.Error("failed to create log file", "error", err.Error())
		os.Exit(1)
	}
	defer func() { _ = logFile.Close() }()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ln, err := net.Listen("tcp", mockAddr)
	if err != nil {
		logger.Error("failed to start mock server", "error", err.Error())
		os.Exit(1)
	}
	mock := &http.Server{Handler: mockremote.New(logger), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := mock.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("mock server error", "error", err.Error())
		}
	}()
	defer func() { _ = mock.Close() }()

	sign, err := metrosign.New(
		metrosign.WithFirebase("http://"+mockAddr, "demo"),
		metrosign.WithWMATA("demo"),
		metrosign.WithWMATAURL("http://"+mockAddr+mockremote.PredictionPath),
		metrosign.WithBackend(display.NewTerminal(display.WithTitle("Metro Center (demo)"))),
		metrosign.WithSplash(2*time.Second),
		metrosign.WithArrivalInterval(5*time.Second),
		metrosign.WithAlertQuietRange(10*time.Second, 20*time.Second),
		metrosign.WithPort(8080),
		metrosign.WithLogger(logger),
		metrosign.WithArrivalCallback(func(s metrosign.ArrivalState) {
			logger.Info("board updated", "rows", len(s.Entries))
		}),
		metrosign.WithAlertCallback(func(s metrosign.AlertState) {
			if s.Phase == metrosign.PhaseIntroA {
				logger.Info("alert announced", "message", s.Message)
			}
		}),
	)
	if err != nil {
		logger.Error("failed to create sign", "error", err.Error())
		os.Exit(1)
	}

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sign.Start(ctx); err != nil {
		logger.Error("sign error", "error", err.Error())
		os.Exit(1)
	}
}
