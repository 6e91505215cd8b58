package board

import (
	"fmt"
	"slices"
	"time"

	"github.com/jpalmerr/metrosign/display"
)

// MaxRows is the number of entries the arrival board draws.
const MaxRows = 4

// Placeholders used in derived columns.
const (
	NoLeaveBy     = "-"
	MessageLineID = "--"
	LoadingLabel  = "Loading..."
)

// Kind tags the variant of a DisplayEntry.
type Kind int

const (
	// KindTrain is a live train prediction.
	KindTrain Kind = iota
	// KindMessage is an operator custom message.
	KindMessage
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTrain:
		return "train"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DisplayEntry is one row of the arrival board. All derived fields are
// computed by [Merge]; entries are never mutated afterwards.
type DisplayEntry struct {
	Kind      Kind          `json:"kind"`
	LineID    string        `json:"line_id"`
	LineColor display.Color `json:"line_color"`
	Label     string        `json:"label"`

	// SortKey orders the board.
	SortKey time.Time `json:"sort_key"`

	// ExpiresAt is the message timestamp used by the expiry filter.
	// Zero for trains.
	ExpiresAt time.Time `json:"expires_at,omitzero"`

	LeaveBy string `json:"leave_by"`
	ETA     string `json:"eta"`
}

// Loading returns the placeholder row shown before the first successful poll.
func Loading() DisplayEntry {
	return DisplayEntry{
		Kind:      KindMessage,
		LineID:    MessageLineID,
		LineColor: display.White,
		Label:     LoadingLabel,
		SortKey:   time.Unix(0, 0),
		LeaveBy:   NoLeaveBy,
	}
}

// ArrivalState is the arrival producer's published snapshot.
type ArrivalState struct {
	Entries    []DisplayEntry `json:"entries"`
	LastUpdate time.Time      `json:"last_update"`
}

// InitialArrivalState is published before the first poll completes.
// LastUpdate is zero.
func InitialArrivalState() ArrivalState {
	return ArrivalState{Entries: []DisplayEntry{Loading()}}
}

// Clone returns a copy that shares no memory with s.
func (s ArrivalState) Clone() ArrivalState {
	return ArrivalState{
		Entries:    slices.Clone(s.Entries),
		LastUpdate: s.LastUpdate,
	}
}

// Visible returns the entries the board draws.
func (s ArrivalState) Visible() []DisplayEntry {
	if len(s.Entries) > MaxRows {
		return s.Entries[:MaxRows]
	}
	return s.Entries
}
