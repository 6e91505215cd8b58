// Package wmata fetches real-time rail predictions from the WMATA
// StationPrediction API.
package wmata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jpalmerr/metrosign/internal/fetch"
	"github.com/jpalmerr/metrosign/internal/retry"
)

// DefaultAPIURL is the prediction endpoint; the station code is appended.
const DefaultAPIURL = "https://api.wmata.com/StationPrediction.svc/json/GetPrediction/"

const apiKeyHeader = "api_key"

// Prediction is one train as reported by the API. Min is "ARR", "BRD",
// a minute count, or occasionally blank or "---".
type Prediction struct {
	Car             string `json:"Car"`
	Destination     string `json:"Destination"`
	DestinationCode string `json:"DestinationCode"`
	DestinationName string `json:"DestinationName"`
	Group           string `json:"Group"`
	Line            string `json:"Line"`
	LocationCode    string `json:"LocationCode"`
	LocationName    string `json:"LocationName"`
	Min             string `json:"Min"`
}

type predictionResponse struct {
	Trains []Prediction `json:"Trains"`
}

// Client queries predictions for a station.
type Client struct {
	apiURL string
	apiKey string
	http   *fetch.Client
	policy retry.Policy
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the prediction endpoint. The station code is
// appended verbatim, so the URL normally ends in a slash.
func WithAPIURL(u string) Option {
	return func(c *Client) {
		c.apiURL = u
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *fetch.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRetryPolicy overrides the retry policy.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithLogger sets the logger for retry warnings. It applies whatever the
// order relative to [WithRetryPolicy].
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("WMATA API key cannot be empty")
	}

	c := &Client{
		apiURL: DefaultAPIURL,
		apiKey: apiKey,
		policy: retry.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(c.apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid WMATA API URL %q", c.apiURL)
	}
	if c.http == nil {
		c.http = fetch.NewClient(0)
	}
	if c.logger != nil {
		c.policy.Logger = c.logger
	}
	c.policy.Name = "fetch predictions"

	return c, nil
}

// Predictions returns the current predictions for stationID.
// Transport, status and decode failures are retried per the client policy.
func (c *Client) Predictions(ctx context.Context, stationID string) ([]Prediction, error) {
	stationID = strings.TrimSpace(stationID)
	if stationID == "" {
		return nil, errors.New("station id cannot be empty")
	}

	target := c.apiURL + url.PathEscape(stationID)
	headers := map[string]string{apiKeyHeader: c.apiKey}

	resp, err := retry.Do(ctx, c.policy, func(ctx context.Context) (predictionResponse, error) {
		var r predictionResponse
		err := c.http.GetJSON(ctx, target, headers, &r)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("predictions for %s: %w", stationID, err)
	}
	return resp.Trains, nil
}
