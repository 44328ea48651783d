package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayvision/visionlog/internal/model"
)

func TestAllianceFlow(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	a := s.signUp(t, "a@example.com")
	b := s.signUp(t, "b@example.com")
	c := s.signUp(t, "c@example.com")

	_, err := s.allies.SendInvite(ctx, a.ID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrAllyNotFound)

	_, err = s.allies.SendInvite(ctx, a.ID, "A@example.com")
	assert.ErrorIs(t, err, ErrSelfInvite)

	first, err := s.allies.SendInvite(ctx, a.ID, "b@example.com")
	require.NoError(t, err)
	second, err := s.allies.SendInvite(ctx, a.ID, "b@example.com")
	require.NoError(t, err)

	pending, err := s.allies.Pending(b.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	assert.ErrorIs(t, s.allies.Confirm(ctx, b.ID, first.ID), ErrInviteNotFound)
	assert.ErrorIs(t, s.allies.Confirm(ctx, c.ID, second.ID), ErrInviteNotFound)

	require.NoError(t, s.allies.Confirm(ctx, b.ID, second.ID))

	partner, err := s.allies.PartnerOf(a.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, partner)
	partner, err = s.allies.PartnerOf(b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, partner)

	ev := s.events.last(t)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ev.recipients)
	assert.Equal(t, model.TableProfiles, ev.event.Table)

	_, err = s.allies.SendInvite(ctx, c.ID, "a@example.com")
	assert.ErrorIs(t, err, ErrAlreadyAllied)

	require.NoError(t, s.allies.Sever(ctx, b.ID))
	ev = s.events.last(t)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ev.recipients)

	partner, err = s.allies.PartnerOf(a.ID)
	require.NoError(t, err)
	assert.Empty(t, partner)

	assert.ErrorIs(t, s.allies.Sever(ctx, a.ID), ErrNotAllied)
}

func TestExpiredInvite(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	s.allies.inviteExpiry = time.Nanosecond
	a := s.signUp(t, "a@example.com")
	b := s.signUp(t, "b@example.com")

	invite, err := s.allies.SendInvite(ctx, a.ID, b.Email)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	pending, err := s.allies.Pending(b.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, s.allies.Confirm(ctx, b.ID, invite.ID), ErrInviteExpired)
}

func TestSnapshotPartnerView(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	a := s.signUp(t, "a@example.com")
	b := s.signUp(t, "b@example.com")

	snap, err := s.snapshot.Snapshot(a.ID)
	require.NoError(t, err)
	assert.Nil(t, snap.Partner)
	assert.Empty(t, snap.PartnerMissions)

	s.pair(t, a, b)

	secret, err := s.goals.Create(ctx, b.ID, "Secret", "", true)
	require.NoError(t, err)
	public, err := s.goals.Create(ctx, b.ID, "Public", "", false)
	require.NoError(t, err)

	_, err = s.missions.Create(ctx, b.ID, model.MissionInput{Task: "hidden", GoalID: &secret.ID})
	require.NoError(t, err)
	_, err = s.missions.Create(ctx, b.ID, model.MissionInput{Task: "shown", GoalID: &public.ID})
	require.NoError(t, err)
	_, err = s.missions.Create(ctx, b.ID, model.MissionInput{Task: "general"})
	require.NoError(t, err)

	_, err = s.thoughts.Create(ctx, b.ID, model.ThoughtInput{Text: "private note", IsPrivate: true})
	require.NoError(t, err)
	_, err = s.thoughts.Create(ctx, b.ID, model.ThoughtInput{Text: "shared note"})
	require.NoError(t, err)

	_, err = s.missions.Create(ctx, a.ID, model.MissionInput{Task: "mine"})
	require.NoError(t, err)

	snap, err = s.snapshot.Snapshot(a.ID)
	require.NoError(t, err)
	require.NotNil(t, snap.Partner)
	assert.Equal(t, b.ID, snap.Partner.UserID)
	require.Len(t, snap.Missions, 1)

	var tasks []string
	for _, m := range snap.PartnerMissions {
		tasks = append(tasks, m.Task)
	}
	assert.ElementsMatch(t, []string{"shown", "general"}, tasks)

	require.Len(t, snap.PartnerGoals, 1)
	assert.Equal(t, "Public", snap.PartnerGoals[0].Title)
	require.Len(t, snap.PartnerThoughts, 1)
	assert.Equal(t, "shared note", snap.PartnerThoughts[0].Text)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	a := s.signUp(t, "a@example.com")
	b := s.signUp(t, "b@example.com")
	s.pair(t, a, b)

	_, err := s.files.Upload(ctx, a.ID, model.FileTypeImage, fileHeader(t, "x.png", pngBytes))
	require.NoError(t, err)

	assert.ErrorIs(t, s.users.DeleteAccount(ctx, a.ID, "wrong"), ErrInvalidCurrentPassword)

	require.NoError(t, s.users.DeleteAccount(ctx, a.ID, "correct-horse-battery"))
	assert.Zero(t, s.storage.count())

	partner, err := s.allies.PartnerOf(b.ID)
	require.NoError(t, err)
	assert.Empty(t, partner)

	_, err = s.auth.SignIn("a@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePassword(t *testing.T) {
	s := newServices(t)
	u := s.signUp(t, "a@example.com")

	assert.ErrorIs(t, s.users.UpdatePassword(u.ID, "nope", "brand-new-secret"), ErrInvalidCurrentPassword)
	require.NoError(t, s.users.UpdatePassword(u.ID, "correct-horse-battery", "brand-new-secret"))

	_, err := s.auth.SignIn(u.Email, "brand-new-secret")
	assert.NoError(t, err)
}
