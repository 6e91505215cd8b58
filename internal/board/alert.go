package board

import "fmt"

// Phase is a step of the alert announcement cycle.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseIntroA
	PhaseIntroB
	PhaseMessageA
	PhaseMessageB
)

var phaseNames = [...]string{
	PhaseHidden:   "hidden",
	PhaseIntroA:   "intro_a",
	PhaseIntroB:   "intro_b",
	PhaseMessageA: "message_a",
	PhaseMessageB: "message_b",
}

// String returns the phase name.
func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// IsIntro reports whether p is an attention-grabbing intro frame.
func (p Phase) IsIntro() bool {
	return p == PhaseIntroA || p == PhaseIntroB
}

// AlertState is the alert producer's published snapshot. Whenever Phase is
// not PhaseHidden the alert view replaces the arrival board.
type AlertState struct {
	Phase        Phase  `json:"phase"`
	Message      string `json:"message,omitempty"`
	ScrollOffset uint32 `json:"scroll_offset"`
}

// Visible reports whether the alert view should be drawn.
func (s AlertState) Visible() bool {
	return s.Phase != PhaseHidden
}

// HiddenAlert is the resting alert state.
func HiddenAlert() AlertState {
	return AlertState{Phase: PhaseHidden}
}
