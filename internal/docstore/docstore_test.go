package docstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jpalmerr/metrosign/internal/fetch"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		wantErr bool
	}{
		{name: "valid https", baseURL: "https://sign.firebaseio.com", apiKey: "k"},
		{name: "valid with trailing slash", baseURL: "https://sign.firebaseio.com/", apiKey: "k"},
		{name: "missing key", baseURL: "https://sign.firebaseio.com", wantErr: true},
		{name: "missing scheme", baseURL: "sign.firebaseio.com", apiKey: "k", wantErr: true},
		{name: "ftp scheme", baseURL: "ftp://sign.firebaseio.com", apiKey: "k", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.baseURL, tt.apiKey, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_DocumentURL(t *testing.T) {
	c, err := New("https://sign.firebaseio.com/", "secret key", nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"push key", "/widgets/-Nabc/", "https://sign.firebaseio.com/widgets/-Nabc.json?auth=secret+key"},
		{"index", "widgets", "https://sign.firebaseio.com/widgets.json?auth=secret+key"},
		{"space", "widgets/my widget", "https://sign.firebaseio.com/widgets/my%20widget.json?auth=secret+key"},
		{"percent", "widgets/50%off", "https://sign.firebaseio.com/widgets/50%25off.json?auth=secret+key"},
		{"question mark", "widgets/a?b", "https://sign.firebaseio.com/widgets/a%3Fb.json?auth=secret+key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.documentURL(tt.path); got != tt.want {
				t.Errorf("documentURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestClient_DocumentURL_BasePath(t *testing.T) {
	c, err := New("https://sign.example.com/v1/", "k", nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := "https://sign.example.com/v1/widgets/a%20b.json?auth=k"
	if got := c.documentURL("widgets/a b"); got != want {
		t.Errorf("documentURL() = %q, want %q", got, want)
	}
}

func TestClient_Get_KeyNeedingEscape(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"DCMetroAlertsWidget"}`))
	}))
	defer server.Close()

	c, err := New(server.URL, "key123", fetch.NewClient(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var doc struct {
		Name string `json:"name"`
	}
	if err := c.Get(context.Background(), "widgets/my widget", &doc); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotPath != "/widgets/my widget.json" {
		t.Errorf("server saw path %q, want %q", gotPath, "/widgets/my widget.json")
	}
	if doc.Name != "DCMetroAlertsWidget" {
		t.Errorf("Name = %q", doc.Name)
	}
}

func TestClient_Get(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.URL.Query().Get("auth")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"a":{"name":"DCMetroTrainArrivalWidget"}}`))
	}))
	defer server.Close()

	c, err := New(server.URL, "key123", fetch.NewClient(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var docs map[string]struct {
		Name string `json:"name"`
	}
	if err := c.Get(context.Background(), "widgets", &docs); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if gotPath != "/widgets.json" {
		t.Errorf("path = %q, want /widgets.json", gotPath)
	}
	if gotAuth != "key123" {
		t.Errorf("auth = %q, want key123", gotAuth)
	}
	if docs["a"].Name != "DCMetroTrainArrivalWidget" {
		t.Errorf("decoded name = %q", docs["a"].Name)
	}
}

func TestClient_GetErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Permission denied"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	c, _ := New(server.URL, "bad", nil)

	var v any
	err := c.Get(context.Background(), "widgets", &v)
	if !errors.Is(err, fetch.ErrStatus) {
		t.Errorf("Get() error = %v, want fetch.ErrStatus", err)
	}
}
