package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayvision/visionlog/internal/model"
)

func missionEvent(t *testing.T, typ model.EventType, newRow, oldRow *model.Mission) model.ChangeEvent {
	t.Helper()
	var n, o any
	if newRow != nil {
		n = newRow
	}
	if oldRow != nil {
		o = oldRow
	}
	ev, err := model.NewChangeEvent(model.TableMissions, typ, n, o)
	require.NoError(t, err)
	return ev
}

func TestClassify(t *testing.T) {
	partnerOpen := &model.Mission{ID: "pm1", UserID: "u2", Task: "ship it"}
	partnerDone := &model.Mission{ID: "pm1", UserID: "u2", Task: "ship it", Completed: true}
	partnerCrushed := &model.Mission{ID: "pm1", UserID: "u2", Task: "ship it", Completed: true, Crushed: true}
	mine := &model.Mission{ID: "m1", UserID: "u1", Task: "read"}
	cheered := &model.Mission{ID: "m1", UserID: "u1", Task: "read", CheerNote: strPtr("go go go")}

	tests := []struct {
		name     string
		ev       model.ChangeEvent
		wantOK   bool
		wantKind NotificationKind
		wantCue  Cue
	}{
		{name: "partner crushed", ev: missionEvent(t, model.EventUpdate, partnerCrushed, partnerOpen), wantOK: true, wantKind: NotifyPartnerCrushed, wantCue: CueCrush},
		{name: "partner crushed after completing", ev: missionEvent(t, model.EventUpdate, partnerCrushed, partnerDone), wantOK: true, wantKind: NotifyPartnerCrushed, wantCue: CueCrush},
		{name: "partner completed", ev: missionEvent(t, model.EventUpdate, partnerDone, partnerOpen), wantOK: true, wantKind: NotifyPartnerCompleted},
		{name: "partner uncompleted", ev: missionEvent(t, model.EventUpdate, partnerOpen, partnerDone)},
		{name: "cheer received", ev: missionEvent(t, model.EventUpdate, cheered, mine), wantOK: true, wantKind: NotifyCheerReceived},
		{name: "same cheer again", ev: missionEvent(t, model.EventUpdate, cheered, cheered)},
		{name: "own completion", ev: missionEvent(t, model.EventUpdate, &model.Mission{ID: "m1", UserID: "u1", Completed: true}, mine)},
		{name: "insert ignored", ev: missionEvent(t, model.EventInsert, partnerCrushed, nil)},
		{name: "other table", ev: model.ChangeEvent{Table: model.TableThoughts, Type: model.EventUpdate, New: []byte(`{}`)}},
		{name: "undecodable", ev: model.ChangeEvent{Table: model.TableMissions, Type: model.EventUpdate, New: []byte(`nope`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := Classify("u1", "u2", tt.ev)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKind, n.Kind)
				assert.Equal(t, tt.wantCue, n.Cue)
			}
		})
	}
}

func TestClassifyWithoutPartner(t *testing.T) {
	ev := missionEvent(t, model.EventUpdate,
		&model.Mission{ID: "x", UserID: "u9", Crushed: true, Completed: true},
		&model.Mission{ID: "x", UserID: "u9"})
	_, ok := Classify("u1", "", ev)
	assert.False(t, ok)
}

func TestRouterRefetchesAndNotifies(t *testing.T) {
	s, backend := seededStore(t)

	var got []Notification
	r := NewRouter(s, func(n Notification) { got = append(got, n) })

	backend.snap.Thoughts = append(backend.snap.Thoughts, model.Thought{ID: "t-remote", UserID: "u1"})
	ev := missionEvent(t, model.EventUpdate,
		&model.Mission{ID: "pm1", UserID: "u2", Task: "ship it", Completed: true},
		&model.Mission{ID: "pm1", UserID: "u2", Task: "ship it"})

	before := backend.callCount()
	res := r.Handle(context.Background(), ev)
	require.True(t, res.OK())

	assert.Equal(t, before+1, backend.callCount())
	assert.Len(t, s.Thoughts(), 2)
	require.Len(t, got, 1)
	assert.Equal(t, NotifyPartnerCompleted, got[0].Kind)
	assert.Equal(t, "ship it", got[0].Message)
}

func TestRouterRefetchesOnUnclassifiedEvent(t *testing.T) {
	s, backend := seededStore(t)
	r := NewRouter(s, nil)

	backend.snap.Goals = nil
	ev, err := model.NewChangeEvent(model.TableGoals, model.EventDelete, nil, model.Goal{ID: "g1"})
	require.NoError(t, err)

	require.True(t, r.Handle(context.Background(), ev).OK())
	assert.Empty(t, s.Goals())
}
