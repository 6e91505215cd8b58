package widget

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jpalmerr/metrosign/internal/retry"
)

const widgetsPath = "widgets"

// Getter fetches and decodes a document by key path.
// [docstore.Client] satisfies it.
type Getter interface {
	Get(ctx context.Context, path string, v any) error
}

// Loader resolves widgets from a document store.
type Loader struct {
	docs   Getter
	policy retry.Policy
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRetryPolicy overrides the retry policy used for both round-trips.
func WithRetryPolicy(p retry.Policy) LoaderOption {
	return func(l *Loader) {
		l.policy = p
	}
}

// WithLogger sets the logger used by the loader and its retries.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader reading from docs.
func NewLoader(docs Getter, opts ...LoaderOption) *Loader {
	l := &Loader{
		docs:   docs,
		policy: retry.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.policy.Logger == nil {
		l.policy.Logger = l.logger
	}
	return l
}

// Load resolves the widget of type T.
func Load[T Document](ctx context.Context, l *Loader) (T, error) {
	var zero T
	name := zero.WidgetName()

	key, err := l.find(ctx, name)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrConfigUnavailable, name, err)
	}

	p := l.policy
	p.Name = "load widget " + name
	doc, err := retry.Do(ctx, p, func(ctx context.Context) (T, error) {
		var v T
		err := l.docs.Get(ctx, widgetsPath+"/"+key, &v)
		return v, err
	})
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrConfigUnavailable, name, err)
	}

	if err := doc.Validate(); err != nil {
		return zero, fmt.Errorf("%w: %s: %w: %w", ErrConfigUnavailable, name, ErrInvalidWidget, err)
	}

	l.logger.Debug("widget loaded", "widget", name, "key", key)
	return doc, nil
}

// LoadArrival resolves the arrival board widget.
func (l *Loader) LoadArrival(ctx context.Context) (ArrivalWidget, error) {
	return Load[ArrivalWidget](ctx, l)
}

// LoadAlerts resolves the service alerts widget.
func (l *Loader) LoadAlerts(ctx context.Context) (AlertWidget, error) {
	return Load[AlertWidget](ctx, l)
}

// find lists all widgets and returns the key of the one named name.
// Keys are scanned in sorted order so duplicate names resolve consistently.
func (l *Loader) find(ctx context.Context, name string) (string, error) {
	type header struct {
		Name string `json:"name"`
	}

	p := l.policy
	p.Name = "list widgets"
	index, err := retry.Do(ctx, p, func(ctx context.Context) (map[string]header, error) {
		var v map[string]header
		err := l.docs.Get(ctx, widgetsPath, &v)
		return v, err
	})
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if index[k].Name == name {
			return k, nil
		}
	}
	return "", ErrWidgetNotFound
}
