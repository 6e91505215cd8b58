// Package docstore is a minimal client for a Firebase Realtime Database style
// document store, addressed by slash-separated key paths over REST.
//
// A document at path "widgets/abc" is fetched with
//
//	GET {base}/widgets/abc.json?auth={apiKey}
//
// and decoded from JSON. Only reads are supported; the sign never writes.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jpalmerr/metrosign/internal/fetch"
)

// Client reads documents from the store.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *fetch.Client
}

// New creates a Client for the database at baseURL.
//
// Returns an error if baseURL is not an absolute http(s) URL or apiKey is empty.
func New(baseURL, apiKey string, httpClient *fetch.Client) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("document store API key cannot be empty")
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid document store URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("document store URL must be http or https, got %q", baseURL)
	}

	if httpClient == nil {
		httpClient = fetch.NewClient(0)
	}

	return &Client{baseURL: u, apiKey: apiKey, http: httpClient}, nil
}

// Get fetches the document at path and decodes it into v.
func (c *Client) Get(ctx context.Context, path string, v any) error {
	if err := c.http.GetJSON(ctx, c.documentURL(path), nil, v); err != nil {
		return fmt.Errorf("get %q: %w", path, err)
	}
	return nil
}

// documentURL builds the REST URL for a key path.
func (c *Client) documentURL(path string) string {
	u := *c.baseURL

	segments := strings.Split(strings.Trim(path, "/"), "/")
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	// RawPath keeps the escaped form so String does not escape it twice
	u.RawPath = u.EscapedPath() + "/" + strings.Join(escaped, "/") + ".json"
	u.Path = u.Path + "/" + strings.Join(segments, "/") + ".json"

	q := u.Query()
	q.Set("auth", c.apiKey)
	u.RawQuery = q.Encode()

	return u.String()
}
