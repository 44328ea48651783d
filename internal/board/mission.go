package board

import (
	"fmt"

	"github.com/relayvision/visionlog/internal/model"
)

// State is the display state of a mission.
type State int

const (
	StatePending State = iota
	StateCompleted
	StateCrushed
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateCrushed:
		return "crushed"
	default:
		return "pending"
	}
}

// StateOf derives the state of m. Crushed wins over completed.
func StateOf(m model.Mission) State {
	switch {
	case m.Crushed:
		return StateCrushed
	case m.Completed:
		return StateCompleted
	default:
		return StatePending
	}
}

// Action is a user toggle on a mission.
type Action string

const (
	ActionComplete Action = "complete"
	ActionCrush    Action = "crush"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionComplete, ActionCrush:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown mission action %q", s)
}

// Patch is the pair of flags written by a toggle.
type Patch struct {
	Completed bool `json:"completed"`
	Crushed   bool `json:"crushed"`
}

// ApplyToggle is the single transition function for mission toggles.
// It keeps crushed => completed in both directions: crushing sets completed,
// and un-completing clears crushed.
func ApplyToggle(m model.Mission, action Action) Patch {
	switch action {
	case ActionCrush:
		if m.Crushed {
			return Patch{Completed: m.Completed, Crushed: false}
		}
		return Patch{Completed: true, Crushed: true}
	default:
		if m.Completed {
			return Patch{Completed: false, Crushed: false}
		}
		return Patch{Completed: true, Crushed: m.Crushed}
	}
}

// Apply writes the patch onto m.
func (p Patch) Apply(m *model.Mission) {
	m.Completed = p.Completed
	m.Crushed = p.Crushed
}

// closes reports whether the patch switches completed or crushed on for m.
func (p Patch) closes(m model.Mission) bool {
	return (p.Completed && !m.Completed) || (p.Crushed && !m.Crushed)
}

// Cue is the acknowledgement played after a toggle.
type Cue string

const (
	CueNone        Cue = ""
	CueComplete    Cue = "complete"
	CueCrush       Cue = "crush"
	CueGrandFinale Cue = "grand_finale"
)

// CueFor picks the cue for toggling m with patch p, given the active missions
// of the day. Closing the last open mission fires the grand finale instead of
// the per-item cue. Missions already closed before the toggle, or no longer on
// today's board, never count as "the last open one".
func CueFor(active []model.Mission, m model.Mission, p Patch) Cue {
	if !p.closes(m) {
		return CueNone
	}

	cue := CueComplete
	if p.Crushed && !m.Crushed {
		cue = CueCrush
	}

	if !m.IsOpen() || !m.IsActive {
		return cue
	}

	if OpenCount(active, m.ID) == 0 {
		return CueGrandFinale
	}
	return cue
}

// OpenCount counts active missions that are neither completed nor crushed,
// skipping the mission with ID exclude.
func OpenCount(missions []model.Mission, exclude string) int {
	n := 0
	for _, m := range missions {
		if m.ID == exclude || !m.IsActive {
			continue
		}
		if m.IsOpen() {
			n++
		}
	}
	return n
}
