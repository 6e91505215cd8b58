package board

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jpalmerr/metrosign/display"
	"github.com/jpalmerr/metrosign/internal/widget"
	"github.com/jpalmerr/metrosign/internal/wmata"
)

// Special ETA values reported by the prediction API.
const (
	etaArriving = "ARR"
	etaBoarding = "BRD"
)

const (
	arrivingOffset = -60 * time.Second
	boardingOffset = -120 * time.Second
	unknownOffset  = 24 * time.Hour
	leaveByLead    = 15 * time.Minute
)

const noPassengerLabel = "No Psngr"

var lineColors = map[string]display.Color{
	"RD": display.RGB(255, 0, 0),
	"OR": display.RGB(255, 85, 0),
	"YL": display.RGB(255, 255, 0),
	"GR": display.RGB(0, 255, 0),
	"BL": display.RGB(0, 0, 255),
}

// DefaultLineColor marks lines without an assigned color.
var DefaultLineColor = display.RGB(170, 170, 170)

// LineColor returns the marker color for a line code.
func LineColor(line string) display.Color {
	if c, ok := lineColors[line]; ok {
		return c
	}
	return DefaultLineColor
}

// NormalizeDestination canonicalizes destination names the API is known
// to misspell or truncate.
func NormalizeDestination(dest string) string {
	switch strings.TrimSpace(dest) {
	case "No Passenger", "NoPssenger", "ssenger":
		return noPassengerLabel
	}
	return dest
}

// Merge builds the ordered board rows for now.
func Merge(now time.Time, predictions []wmata.Prediction, messages []widget.CustomMessage) []DisplayEntry {
	entries := make([]DisplayEntry, 0, len(predictions)+len(messages))

	for _, p := range predictions {
		entries = append(entries, trainEntry(now, p))
	}
	for _, m := range messages {
		if e, ok := messageEntry(now, m); ok {
			entries = append(entries, e)
		}
	}

	slices.SortStableFunc(entries, func(a, b DisplayEntry) int {
		return a.SortKey.Compare(b.SortKey)
	})
	return entries
}

func trainEntry(now time.Time, p wmata.Prediction) DisplayEntry {
	sortKey := predictionSortKey(now, p.Min)
	return DisplayEntry{
		Kind:      KindTrain,
		LineID:    p.Line,
		LineColor: LineColor(p.Line),
		Label:     NormalizeDestination(p.Destination),
		SortKey:   sortKey,
		LeaveBy:   leaveBy(now, sortKey),
		ETA:       p.Min,
	}
}

func predictionSortKey(now time.Time, eta string) time.Time {
	switch eta = strings.TrimSpace(eta); eta {
	case etaArriving:
		return now.Add(arrivingOffset)
	case etaBoarding:
		return now.Add(boardingOffset)
	}
	if n, err := strconv.Atoi(eta); err == nil {
		return now.Add(time.Duration(n) * time.Minute)
	}
	return now.Add(unknownOffset)
}

// leaveBy returns whole minutes until sortKey-15m, or NoLeaveBy once that
// instant is not in the future.
func leaveBy(now, sortKey time.Time) string {
	d := sortKey.Add(-leaveByLead).Sub(now)
	if d <= 0 {
		return NoLeaveBy
	}
	return strconv.Itoa(int(d / time.Minute))
}

// messageEntry maps a custom message. Expiry is judged on the message
// timestamp; only non-sticky messages can expire.
func messageEntry(now time.Time, m widget.CustomMessage) (DisplayEntry, bool) {
	expiresAt := m.Time()
	if !m.Sticky && expiresAt.Before(now) {
		return DisplayEntry{}, false
	}

	e := DisplayEntry{
		Kind:      KindMessage,
		LineID:    MessageLineID,
		LineColor: display.White,
		Label:     m.Text,
		ExpiresAt: expiresAt,
		LeaveBy:   NoLeaveBy,
	}
	if m.Sticky {
		e.SortKey = time.Unix(0, 0)
	} else {
		e.SortKey = expiresAt
		e.ETA = strconv.Itoa(int(expiresAt.Sub(now) / time.Minute))
	}
	return e, true
}
