package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayvision/visionlog/internal/model"
)

func strPtr(s string) *string { return &s }

func seededStore(t *testing.T) (*Store, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{snap: model.Snapshot{
		Profile:         model.Profile{ID: "p1", UserID: "u1", PartnerID: strPtr("u2")},
		Partner:         &model.Profile{ID: "p2", UserID: "u2", PartnerID: strPtr("u1")},
		Thoughts:        []model.Thought{{ID: "t-old", UserID: "u1", Text: "first"}},
		Missions:        []model.Mission{mission("m1", false, false), mission("m2", false, false)},
		Goals:           []model.Goal{{ID: "g1", UserID: "u1", Title: "Health"}},
		Visions:         []model.Vision{{ID: "v1", UserID: "u1", Content: "Run a marathon", MetricTarget: 42}},
		PartnerMissions: []model.Mission{{ID: "pm1", UserID: "u2", Task: "ship it", IsActive: true}},
		PartnerGoals:    []model.Goal{{ID: "pg1", UserID: "u2", Title: "Career"}},
	}}
	s := NewStore(backend, WithTimeout(50*time.Millisecond))
	require.True(t, s.Refresh(context.Background()).OK())
	return s, backend
}

func TestStoreRefresh(t *testing.T) {
	s, _ := seededStore(t)

	assert.True(t, s.Loaded())
	assert.Equal(t, "u1", s.UserID())
	assert.Equal(t, "u2", s.PartnerID())
	assert.Len(t, s.Missions(), 2)
	assert.Equal(t, "Career", s.GoalLabel(strPtr("pg1")))
	assert.Equal(t, model.DefaultGoalLabel, s.GoalLabel(strPtr("deleted")))
	assert.Equal(t, model.DefaultGoalLabel, s.GoalLabel(nil))
}

func TestStoreAccessorsReturnCopies(t *testing.T) {
	s, _ := seededStore(t)

	thoughts := s.Thoughts()
	thoughts[0].Text = "mutated"
	assert.Equal(t, "first", s.Thoughts()[0].Text)
}

func TestCaptureThoughtPrepends(t *testing.T) {
	s, _ := seededStore(t)

	created, res := s.CaptureThought(context.Background(), model.ThoughtInput{Text: "  new idea  "})
	require.True(t, res.OK())
	assert.Equal(t, "new idea", created.Text)

	thoughts := s.Thoughts()
	require.Len(t, thoughts, 2)
	assert.Equal(t, created.ID, thoughts[0].ID)
	assert.Equal(t, "t-old", thoughts[1].ID)
}

func TestCreateWithoutRowIsUnknown(t *testing.T) {
	ctx := context.Background()
	s, backend := seededStore(t)
	backend.empty = true

	_, res := s.CaptureThought(ctx, model.ThoughtInput{Text: "lost"})
	assert.Equal(t, Unknown, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrEmptyResponse)

	_, res = s.AddMission(ctx, model.MissionInput{Task: "lost"})
	assert.Equal(t, Unknown, res.Outcome)

	_, res = s.AddGoal(ctx, "Lost", "#22cc88", false)
	assert.Equal(t, Unknown, res.Outcome)

	_, res = s.AddVision(ctx, model.VisionInput{Content: "lost"})
	assert.Equal(t, Unknown, res.Outcome)

	res = s.Refresh(ctx)
	assert.Equal(t, Unknown, res.Outcome)

	assert.True(t, s.Stale())
	assert.Len(t, s.Thoughts(), 1)
	assert.Len(t, s.Missions(), 2)
	assert.Len(t, s.Goals(), 1)
	assert.Len(t, s.Visions(), 1)
}

func TestCaptureThoughtGuardSkipsRequest(t *testing.T) {
	s, backend := seededStore(t)
	before := backend.callCount()

	_, res := s.CaptureThought(context.Background(), model.ThoughtInput{Text: "   "})
	assert.Equal(t, Rejected, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrEmptyThought)
	assert.Equal(t, before, backend.callCount())

	_, res = s.CaptureThought(context.Background(), model.ThoughtInput{ImageURL: strPtr("https://cdn/x.png")})
	assert.True(t, res.OK())
}

func TestFailedCreateLeavesListsUnchanged(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{name: "rejected", err: fmt.Errorf("insert: %w", ErrRejected), want: Rejected},
		{name: "transport", err: errors.New("connection reset"), want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := seededStore(t)
			before, err := json.Marshal(s.Thoughts())
			require.NoError(t, err)

			backend.err = tt.err
			_, res := s.CaptureThought(context.Background(), model.ThoughtInput{Text: "will fail"})
			assert.Equal(t, tt.want, res.Outcome)

			after, err := json.Marshal(s.Thoughts())
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Equal(t, tt.want == Unknown, s.Stale())
		})
	}
}

func TestTimeoutIsUnknownAndMarksStale(t *testing.T) {
	s, backend := seededStore(t)
	backend.block = true

	_, res := s.AddMission(context.Background(), model.MissionInput{Task: "slow"})
	assert.Equal(t, Unknown, res.Outcome)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.True(t, s.Stale())
	assert.Len(t, s.Missions(), 2)

	backend.block = false
	require.True(t, s.Refresh(context.Background()).OK())
	assert.False(t, s.Stale())
}

func TestToggleMissionMergesPatchAndCues(t *testing.T) {
	s, _ := seededStore(t)
	ctx := context.Background()

	cue, res := s.ToggleMission(ctx, "m1", ActionComplete)
	require.True(t, res.OK())
	assert.Equal(t, CueComplete, cue)

	cue, res = s.ToggleMission(ctx, "m2", ActionCrush)
	require.True(t, res.OK())
	assert.Equal(t, CueGrandFinale, cue)

	ms := s.Missions()
	assert.Equal(t, "m1", ms[0].ID)
	assert.True(t, ms[1].Crushed)
	assert.True(t, ms[1].Completed)

	// un-completing a crushed mission clears crushed too
	_, res = s.ToggleMission(ctx, "m2", ActionComplete)
	require.True(t, res.OK())
	ms = s.Missions()
	assert.False(t, ms[1].Completed)
	assert.False(t, ms[1].Crushed)
}

func TestToggleMissionFailureHasNoCue(t *testing.T) {
	s, backend := seededStore(t)
	backend.err = fmt.Errorf("update: %w", ErrRejected)

	cue, res := s.ToggleMission(context.Background(), "m1", ActionCrush)
	assert.Equal(t, Rejected, res.Outcome)
	assert.Equal(t, CueNone, cue)
	assert.False(t, s.Missions()[0].Crushed)
}

func TestToggleMissionOnPartnerMissionRejected(t *testing.T) {
	s, _ := seededStore(t)
	_, res := s.ToggleMission(context.Background(), "pm1", ActionComplete)
	assert.ErrorIs(t, res.Err, ErrMissionNotFound)
}

func TestAddMissionAppends(t *testing.T) {
	s, _ := seededStore(t)
	m, res := s.AddMission(context.Background(), model.MissionInput{Task: "read"})
	require.True(t, res.OK())

	ms := s.Missions()
	require.Len(t, ms, 3)
	assert.Equal(t, m.ID, ms[2].ID)
}

func TestCheerWritesPartnerMission(t *testing.T) {
	s, _ := seededStore(t)

	res := s.Cheer(context.Background(), "pm1", "you got this")
	require.True(t, res.OK())
	require.NotNil(t, s.PartnerMissions()[0].CheerNote)
	assert.Equal(t, "you got this", *s.PartnerMissions()[0].CheerNote)

	assert.ErrorIs(t, s.Cheer(context.Background(), "m1", "self").Err, ErrMissionNotFound)
	assert.ErrorIs(t, s.Cheer(context.Background(), "pm1", " ").Err, ErrEmptyCheer)
}

func TestRolloverDeactivatesBoard(t *testing.T) {
	s, _ := seededStore(t)
	require.True(t, s.Rollover(context.Background()).OK())
	assert.Empty(t, s.ActiveMissions())
	assert.Len(t, s.Missions(), 2)
}

func TestThoughtFlagsAndDelete(t *testing.T) {
	s, _ := seededStore(t)
	ctx := context.Background()

	require.True(t, s.ToggleIgnite(ctx, "t-old").OK())
	assert.True(t, s.Thoughts()[0].Ignited)
	require.True(t, s.ToggleArchive(ctx, "t-old").OK())
	assert.True(t, s.Thoughts()[0].Archived)

	require.True(t, s.DeleteThought(ctx, "t-old").OK())
	assert.Empty(t, s.Thoughts())
}

func TestVisionsPrependAndQuickUpdate(t *testing.T) {
	s, _ := seededStore(t)
	ctx := context.Background()

	v, res := s.AddVision(ctx, model.VisionInput{Content: "Save", MetricTarget: 10000, MetricUnit: "$"})
	require.True(t, res.OK())
	assert.Equal(t, v.ID, s.Visions()[0].ID)

	require.True(t, s.UpdateVisionCurrent(ctx, "v1", 21).OK())
	assert.InDelta(t, 21, s.Visions()[1].MetricCurrent, 0)

	require.True(t, s.EditVision(ctx, "v1", model.VisionInput{Content: "Run an ultra", MetricTarget: 100}).OK())
	assert.Equal(t, "Run an ultra", s.Visions()[1].Content)

	require.True(t, s.DeleteVision(ctx, v.ID).OK())
	assert.Len(t, s.Visions(), 1)
}

func TestGoalsLifecycle(t *testing.T) {
	s, _ := seededStore(t)
	ctx := context.Background()

	_, res := s.AddGoal(ctx, "", "#fff", false)
	assert.ErrorIs(t, res.Err, ErrEmptyTitle)

	g, res := s.AddGoal(ctx, "Learn", "#00ff00", false)
	require.True(t, res.OK())
	assert.Equal(t, g.ID, s.Goals()[1].ID)

	require.True(t, s.SetGoalPrivate(ctx, g.ID, true).OK())
	assert.True(t, s.Goals()[1].IsPrivate)

	require.True(t, s.DeleteGoal(ctx, g.ID).OK())
	assert.Len(t, s.Goals(), 1)
}

func TestStoreStreakCountsOwnActivity(t *testing.T) {
	s, backend := seededStore(t)
	day := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	backend.snap.Thoughts = []model.Thought{{ID: "a", CreatedAt: day}}
	backend.snap.Missions = []model.Mission{{ID: "b", CreatedAt: day.AddDate(0, 0, 1)}}
	backend.snap.Visions = []model.Vision{{ID: "c", CreatedAt: day.Add(time.Hour)}}
	backend.snap.PartnerThoughts = []model.Thought{{ID: "d", CreatedAt: day.AddDate(0, 0, 5)}}
	require.True(t, s.Refresh(context.Background()).OK())

	assert.Equal(t, 2, s.Streak(time.UTC))
}
