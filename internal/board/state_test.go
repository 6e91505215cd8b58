package board

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestInitialArrivalState(t *testing.T) {
	s := InitialArrivalState()

	if len(s.Entries) != 1 || s.Entries[0].Label != LoadingLabel {
		t.Fatalf("Entries = %+v, want single loading entry", s.Entries)
	}
	if !s.LastUpdate.IsZero() {
		t.Errorf("LastUpdate = %v, want zero", s.LastUpdate)
	}
}

func TestArrivalState_CloneIsIndependent(t *testing.T) {
	s := ArrivalState{Entries: []DisplayEntry{Loading()}, LastUpdate: testNow}
	c := s.Clone()
	c.Entries[0].Label = "changed"

	if s.Entries[0].Label != LoadingLabel {
		t.Errorf("clone shares entries with original")
	}
}

func TestArrivalState_Visible(t *testing.T) {
	entries := make([]DisplayEntry, 7)
	s := ArrivalState{Entries: entries}
	if got := len(s.Visible()); got != MaxRows {
		t.Errorf("len(Visible()) = %d, want %d", got, MaxRows)
	}

	s.Entries = entries[:2]
	if got := len(s.Visible()); got != 2 {
		t.Errorf("len(Visible()) = %d, want 2", got)
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{PhaseHidden, "hidden"},
		{PhaseIntroA, "intro_a"},
		{PhaseIntroB, "intro_b"},
		{PhaseMessageA, "message_a"},
		{PhaseMessageB, "message_b"},
		{Phase(42), "Phase(42)"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAlertState_Visible(t *testing.T) {
	if HiddenAlert().Visible() {
		t.Error("hidden alert reported visible")
	}
	for _, p := range []Phase{PhaseIntroA, PhaseIntroB, PhaseMessageA, PhaseMessageB} {
		if !(AlertState{Phase: p}).Visible() {
			t.Errorf("phase %v reported hidden", p)
		}
	}
}

func TestStateJSON(t *testing.T) {
	s := ArrivalState{
		Entries:    Merge(testNow, nil, nil),
		LastUpdate: testNow,
	}
	s.Entries = append(s.Entries, Loading())

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(b)
	for _, want := range []string{`"kind":"message"`, `"label":"Loading..."`, `"last_update":"2026-03-14T08:30:00Z"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON %s missing %s", out, want)
		}
	}
	if strings.Contains(out, "expires_at") {
		t.Errorf("JSON %s should omit zero expires_at", out)
	}

	a, _ := json.Marshal(AlertState{Phase: PhaseMessageB, Message: "x", ScrollOffset: 2})
	if want := `{"phase":"message_b","message":"x","scroll_offset":2}`; string(a) != want {
		t.Errorf("alert JSON = %s, want %s", a, want)
	}
}
