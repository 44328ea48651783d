package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayvision/visionlog/internal/model"
)

func mission(id string, completed, crushed bool) model.Mission {
	return model.Mission{ID: id, UserID: "u1", Task: "task " + id, Completed: completed, Crushed: crushed, IsActive: true}
}

func TestApplyToggle(t *testing.T) {
	tests := []struct {
		name   string
		before model.Mission
		action Action
		want   Patch
	}{
		{name: "complete pending", before: mission("a", false, false), action: ActionComplete, want: Patch{Completed: true}},
		{name: "uncomplete clears crush", before: mission("a", true, true), action: ActionComplete, want: Patch{}},
		{name: "uncomplete plain", before: mission("a", true, false), action: ActionComplete, want: Patch{}},
		{name: "crush pending", before: mission("a", false, false), action: ActionCrush, want: Patch{Completed: true, Crushed: true}},
		{name: "crush completed", before: mission("a", true, false), action: ActionCrush, want: Patch{Completed: true, Crushed: true}},
		{name: "uncrush keeps completion", before: mission("a", true, true), action: ActionCrush, want: Patch{Completed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyToggle(tt.before, tt.action))
		})
	}
}

func TestApplyToggleKeepsCrushedImpliesCompleted(t *testing.T) {
	for _, completed := range []bool{false, true} {
		for _, crushed := range []bool{false, true} {
			for _, action := range []Action{ActionComplete, ActionCrush} {
				p := ApplyToggle(mission("a", completed, crushed), action)
				if p.Crushed {
					assert.True(t, p.Completed, "completed=%v crushed=%v action=%s", completed, crushed, action)
				}
				if action == ActionCrush && !crushed {
					assert.True(t, p.Completed)
				}
			}
		}
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("crush")
	require.NoError(t, err)
	assert.Equal(t, ActionCrush, a)

	_, err = ParseAction("smash")
	assert.Error(t, err)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StatePending, StateOf(mission("a", false, false)))
	assert.Equal(t, StateCompleted, StateOf(mission("a", true, false)))
	assert.Equal(t, StateCrushed, StateOf(mission("a", true, true)))
}

func TestCueFor(t *testing.T) {
	a := mission("a", false, false)
	b := mission("b", false, false)
	c := mission("c", true, false)
	archived := mission("old", false, false)
	archived.IsActive = false

	tests := []struct {
		name   string
		active []model.Mission
		target model.Mission
		action Action
		want   Cue
	}{
		{name: "complete with others open", active: []model.Mission{a, b}, target: a, action: ActionComplete, want: CueComplete},
		{name: "crush with others open", active: []model.Mission{a, b}, target: a, action: ActionCrush, want: CueCrush},
		{name: "last open completed", active: []model.Mission{a, c}, target: a, action: ActionComplete, want: CueGrandFinale},
		{name: "last open crushed", active: []model.Mission{a, c}, target: a, action: ActionCrush, want: CueGrandFinale},
		{name: "inactive missions ignored", active: []model.Mission{a, archived}, target: a, action: ActionComplete, want: CueGrandFinale},
		{name: "uncomplete plays nothing", active: []model.Mission{a, c}, target: c, action: ActionComplete, want: CueNone},
		{name: "crushing a completed mission is not a finale", active: []model.Mission{c}, target: c, action: ActionCrush, want: CueCrush},
		{name: "archived mission on a finished board", active: []model.Mission{c}, target: archived, action: ActionComplete, want: CueComplete},
		{name: "archived mission on an empty board", active: nil, target: archived, action: ActionCrush, want: CueCrush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ApplyToggle(tt.target, tt.action)
			assert.Equal(t, tt.want, CueFor(tt.active, tt.target, p))
		})
	}
}

func TestOpenCount(t *testing.T) {
	ms := []model.Mission{mission("a", false, false), mission("b", true, false), mission("c", false, false)}
	assert.Equal(t, 2, OpenCount(ms, ""))
	assert.Equal(t, 1, OpenCount(ms, "a"))
}
