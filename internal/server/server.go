package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jpalmerr/metrosign/internal/board"
	"github.com/jpalmerr/metrosign/internal/store"
)

const (
	shutdownTimeout = 5 * time.Second

	// DefaultStaleAfter is how old the arrival board may get before
	// /healthz reports it stale.
	DefaultStaleAfter = 2 * time.Minute
)

// Health values reported by /healthz.
const (
	HealthStarting = "starting"
	HealthOK       = "ok"
	HealthStale    = "stale"
)

// StateResponse is the body of GET /api/state.
type StateResponse struct {
	Arrival        board.ArrivalState `json:"arrival"`
	ArrivalVersion uint64             `json:"arrival_version"`
	ArrivalDropped uint64             `json:"arrival_dropped"`
	Alert          board.AlertState   `json:"alert"`
	AlertVersion   uint64             `json:"alert_version"`
	AlertDropped   uint64             `json:"alert_dropped"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status     string    `json:"status"`
	LastUpdate time.Time `json:"last_update,omitzero"`
	AgeSeconds float64   `json:"age_seconds,omitempty"`
}

// Server serves the status API.
type Server struct {
	arrival    store.Reader[board.ArrivalState]
	alert      store.Reader[board.AlertState]
	port       int
	staleAfter time.Duration
	now        func() time.Time
	logger     *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

// NewServer creates a [Server] listening on port once started. Port 0
// picks a free port.
func NewServer(arrival store.Reader[board.ArrivalState], alert store.Reader[board.AlertState], port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		arrival:    arrival,
		alert:      alert,
		port:       port,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
		logger:     logger,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns once the listener is bound. The server
// shuts down when ctx is cancelled.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.logger.Info("status API listening", "addr", ln.Addr().String())

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err.Error())
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err.Error())
		}
	}()

	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// handleState returns the latest snapshots.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	arrival, arrivalVersion := s.arrival.Peek()
	alert, alertVersion := s.alert.Peek()

	s.writeJSON(w, http.StatusOK, StateResponse{
		Arrival:        arrival,
		ArrivalVersion: arrivalVersion,
		ArrivalDropped: s.arrival.Dropped(),
		Alert:          alert,
		AlertVersion:   alertVersion,
		AlertDropped:   s.alert.Dropped(),
	})
}

// handleHealth reports whether the arrival board is fresh.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	arrival, _ := s.arrival.Peek()
	resp := HealthResponse{Status: HealthStarting}
	code := http.StatusOK

	if !arrival.LastUpdate.IsZero() {
		age := s.now().Sub(arrival.LastUpdate)
		resp.LastUpdate = arrival.LastUpdate
		resp.AgeSeconds = age.Seconds()
		resp.Status = HealthOK
		if age > s.staleAfter {
			resp.Status = HealthStale
			code = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, code, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err.Error())
	}
}
