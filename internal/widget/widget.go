package widget

import (
	"errors"
	"time"
)

// Widget names as stored in the document store.
const (
	ArrivalWidgetName = "DCMetroTrainArrivalWidget"
	AlertWidgetName   = "DCMetroAlertsWidget"
)

var (
	// ErrConfigUnavailable wraps every loader failure.
	ErrConfigUnavailable = errors.New("widget config unavailable")

	// ErrWidgetNotFound indicates no widget with the expected name exists.
	ErrWidgetNotFound = errors.New("widget not found")

	// ErrInvalidWidget indicates a widget decoded but is unusable.
	ErrInvalidWidget = errors.New("invalid widget")
)

// CustomMessage is an operator-injected line on the arrival board.
type CustomMessage struct {
	Text        string `json:"message"`
	EpochMillis int64  `json:"time"`
	Sticky      bool   `json:"sticky"`
}

// Time returns the message timestamp.
func (m CustomMessage) Time() time.Time {
	return time.UnixMilli(m.EpochMillis)
}

// Alert is a single service alert.
type Alert struct {
	Text string `json:"message"`
}

// ArrivalWidget configures the arrival board.
type ArrivalWidget struct {
	Name           string          `json:"name"`
	StationID      string          `json:"station_id"`
	CustomMessages []CustomMessage `json:"custom_messages"`
}

// WidgetName implements [Document].
func (ArrivalWidget) WidgetName() string { return ArrivalWidgetName }

// Validate reports whether the widget can drive the board.
func (w ArrivalWidget) Validate() error {
	if w.StationID == "" {
		return errors.New("station_id is required")
	}
	return nil
}

// AlertWidget holds the current service alerts.
type AlertWidget struct {
	Name   string  `json:"name"`
	Alerts []Alert `json:"alerts"`
}

// WidgetName implements [Document].
func (AlertWidget) WidgetName() string { return AlertWidgetName }

// Validate implements [Document]. An empty alert list is valid.
func (AlertWidget) Validate() error { return nil }

// Document is a widget type the loader can resolve.
type Document interface {
	WidgetName() string
	Validate() error
}
