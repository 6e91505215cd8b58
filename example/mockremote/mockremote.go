// Package mockremote serves a fake widget document store and a fake WMATA
// prediction API for demos.
//
// Train minutes count down in real time and wrap around, so the board keeps
// changing while the demo runs.
package mockremote

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// PredictionPath is the prefix to pass to metrosign.WithWMATAURL, relative
// to the server address.
const PredictionPath = "/StationPrediction.svc/json/GetPrediction/"

// StationID is the station the demo widget points at.
const StationID = "A01"

type train struct {
	car, line, dest, code string
	offset                int
}

var trains = []train{
	{"8", "RD", "Shady Grove", "A15", 1},
	{"6", "RD", "Glenmont", "B11", 4},
	{"8", "BL", "Franconia-Springfield", "J03", 7},
	{"6", "SV", "Ashburn", "N12", 11},
	{"8", "OR", "Vienna/Fairfax-GMU", "K08", 16},
}

// cycleMinutes is how long a train takes to wrap around.
const cycleMinutes = 20

// Server is the mock handler.
type Server struct {
	start  time.Time
	logger *slog.Logger
	router *mux.Router
}

// New creates a Server whose clock starts now.
func New(logger *slog.Logger) *Server {
	s := &Server{start: time.Now(), logger: logger, router: mux.NewRouter()}
	s.router.HandleFunc("/widgets.json", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/widgets/arrival.json", s.handleArrival).Methods(http.MethodGet)
	s.router.HandleFunc("/widgets/alerts.json", s.handleAlerts).Methods(http.MethodGet)
	s.router.HandleFunc(PredictionPath+"{station}", s.handlePredictions).Methods(http.MethodGet)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]any{
		"arrival": map[string]string{"name": "DCMetroTrainArrivalWidget"},
		"alerts":  map[string]string{"name": "DCMetroAlertsWidget"},
	})
}

func (s *Server) handleArrival(w http.ResponseWriter, r *http.Request) {
	expires := s.start.Add(10 * time.Minute)
	writeJSON(w, s.logger, map[string]any{
		"name":       "DCMetroTrainArrivalWidget",
		"station_id": StationID,
		"custom_messages": []map[string]any{
			{"message": "Welcome", "time": 0, "sticky": true},
			{"message": "Demo ends soon", "time": expires.UnixMilli(), "sticky": false},
		},
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]any{
		"name": "DCMetroAlertsWidget",
		"alerts": []map[string]string{
			{"message": "Red Line trains single tracking between Silver Spring and Takoma due to track maintenance."},
			{"message": "Elevator at Metro Center out of service."},
		},
	})
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("api_key") == "" {
		http.Error(w, "missing api_key", http.StatusUnauthorized)
		return
	}

	station := mux.Vars(r)["station"]
	elapsed := int(time.Since(s.start).Minutes())

	preds := make([]map[string]string, 0, len(trains))
	for _, t := range trains {
		preds = append(preds, map[string]string{
			"Car":             t.car,
			"Destination":     shortName(t.dest),
			"DestinationCode": t.code,
			"DestinationName": t.dest,
			"Group":           "1",
			"Line":            t.line,
			"LocationCode":    station,
			"LocationName":    "Metro Center",
			"Min":             minutesLabel(t.offset - elapsed),
		})
	}
	writeJSON(w, s.logger, map[string]any{"Trains": preds})
}

// minutesLabel wraps m into the cycle and renders it the way WMATA does.
func minutesLabel(m int) string {
	m = ((m % cycleMinutes) + cycleMinutes) % cycleMinutes
	switch m {
	case 0:
		return "BRD"
	case 1:
		return "ARR"
	default:
		return fmt.Sprint(m)
	}
}

// shortName truncates a destination the way the prediction feed does.
func shortName(dest string) string {
	if i := strings.IndexAny(dest, "-/"); i > 0 {
		return dest[:i]
	}
	return dest
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", "error", err.Error())
	}
}
