package metrosign

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpalmerr/metrosign/display"
	"github.com/jpalmerr/metrosign/internal/producer"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withProducerOptions passes options straight to both producers.
func withProducerOptions(opts ...producer.Option) Option {
	return func(cfg *signConfig) error {
		cfg.producerOps = append(cfg.producerOps, opts...)
		return nil
	}
}

const (
	arrivalWidgetJSON = `{"name":"DCMetroTrainArrivalWidget","station_id":"A01","custom_messages":[]}`
	noAlertsJSON      = `{"name":"DCMetroAlertsWidget","alerts":[]}`
	oneAlertJSON      = `{"name":"DCMetroAlertsWidget","alerts":[{"message":"Red Line single tracking"}]}`
	predictionsJSON   = `{"Trains":[{"Car":"8","Destination":"Shady Grove","Line":"RD","Min":"3"},{"Car":"6","Destination":"Glenmont","Line":"RD","Min":"ARR"}]}`
)

// mockRemotes serves a Firebase-style document store and a WMATA-style
// prediction API.
type mockRemotes struct {
	firebase *httptest.Server
	wmata    *httptest.Server

	mu          sync.Mutex
	arrivalDoc  string
	alertDoc    string
	hideArrival bool

	predictionStatus atomic.Int32
	predictionCalls  atomic.Int32
}

func newMockRemotes(t *testing.T) *mockRemotes {
	t.Helper()
	m := &mockRemotes{arrivalDoc: arrivalWidgetJSON, alertDoc: noAlertsJSON}
	m.predictionStatus.Store(http.StatusOK)

	m.firebase = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/widgets.json":
			if m.hideArrival {
				_, _ = w.Write([]byte(`{"alr":{"name":"DCMetroAlertsWidget"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"arr":{"name":"DCMetroTrainArrivalWidget"},"alr":{"name":"DCMetroAlertsWidget"}}`))
		case "/widgets/arr.json":
			_, _ = w.Write([]byte(m.arrivalDoc))
		case "/widgets/alr.json":
			_, _ = w.Write([]byte(m.alertDoc))
		default:
			_, _ = w.Write([]byte("null"))
		}
	}))

	m.wmata = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.predictionCalls.Add(1)
		if code := int(m.predictionStatus.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(predictionsJSON))
	}))

	t.Cleanup(func() {
		m.firebase.Close()
		m.wmata.Close()
	})
	return m
}

func (m *mockRemotes) hideArrivalWidget() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hideArrival = true
}

func (m *mockRemotes) setAlerts(doc string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertDoc = doc
}

// options returns the options pointing a Sign at the mocks with fast retries.
func (m *mockRemotes) options() []Option {
	return []Option{
		WithFirebase(m.firebase.URL, "fb-key"),
		WithWMATA("wmata-key"),
		WithWMATAURL(m.wmata.URL + "/GetPrediction/"),
		WithRetry(1, time.Millisecond),
		WithFrameInterval(5 * time.Millisecond),
		WithLogger(testLogger()),
	}
}

// waitForFrame polls the recorder until a frame contains want.
func waitForFrame(t *testing.T, rec *display.Recorder, want string) display.Frame {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if f, ok := rec.Last(); ok && strings.Contains(f.Text(), want) {
			return f
		}
		time.Sleep(10 * time.Millisecond)
	}
	f, _ := rec.Last()
	t.Fatalf("no frame containing %q; last frame:\n%s", want, f.Text())
	return display.Frame{}
}
