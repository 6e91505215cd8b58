package mockremote

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMinutesLabel(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "BRD"},
		{1, "ARR"},
		{5, "5"},
		{20, "BRD"},
		{-1, "19"},
		{-19, "ARR"},
	}
	for _, tt := range tests {
		if got := minutesLabel(tt.in); got != tt.want {
			t.Errorf("minutesLabel(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShortName(t *testing.T) {
	if got := shortName("Vienna/Fairfax-GMU"); got != "Vienna" {
		t.Errorf("shortName() = %q, want Vienna", got)
	}
	if got := shortName("Glenmont"); got != "Glenmont" {
		t.Errorf("shortName() = %q, want Glenmont", got)
	}
}

func TestServer_Predictions(t *testing.T) {
	srv := httptest.NewServer(New(testLogger()))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+PredictionPath+StationID, nil)
	req.Header.Set("api_key", "demo")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Trains []struct {
			LocationCode string
			Min          string
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(body.Trains) != len(trains) {
		t.Fatalf("trains = %d, want %d", len(body.Trains), len(trains))
	}
	if body.Trains[0].LocationCode != StationID {
		t.Errorf("LocationCode = %q, want %q", body.Trains[0].LocationCode, StationID)
	}
	if body.Trains[0].Min != "ARR" {
		t.Errorf("first train Min = %q, want ARR", body.Trains[0].Min)
	}
}

func TestServer_PredictionsRequireKey(t *testing.T) {
	srv := httptest.NewServer(New(testLogger()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + PredictionPath + StationID)
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestServer_WidgetIndex(t *testing.T) {
	srv := httptest.NewServer(New(testLogger()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/widgets.json?auth=demo")
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var index map[string]struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if index["arrival"].Name != "DCMetroTrainArrivalWidget" {
		t.Errorf("index = %+v", index)
	}
}
