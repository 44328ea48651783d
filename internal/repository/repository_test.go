package repository

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayvision/visionlog/internal/db/dbtest"
	"github.com/relayvision/visionlog/internal/model"
)

func createUser(t *testing.T, conn *sqlx.DB, email string) *model.User {
	t.Helper()
	hash := "hash"
	user := &model.User{Email: email, PasswordHash: &hash}
	require.NoError(t, NewUserRepository(conn).Create(user))
	require.NoError(t, NewProfileRepository(conn).Create(&model.Profile{UserID: user.ID, Name: email}))
	return user
}

func TestUserRepository(t *testing.T) {
	conn := dbtest.New(t)
	users := NewUserRepository(conn)

	u := createUser(t, conn, "ada@example.com")

	got, err := users.ByEmail("ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.HasPassword())

	err = users.Create(&model.User{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = users.ByID("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestThoughtRepository(t *testing.T) {
	conn := dbtest.New(t)
	u := createUser(t, conn, "a@example.com")
	repo := NewThoughtRepository(conn)

	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	img := "https://cdn.example.com/public/images/x.png"
	older := &model.Thought{UserID: u.ID, Text: "older", CreatedAt: base}
	newer := &model.Thought{UserID: u.ID, Text: "newer", ImageURL: &img, IsPrivate: true, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	all, err := repo.Thoughts(u.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "newer", all[0].Text)
	require.NotNil(t, all[0].ImageURL)
	assert.Equal(t, img, *all[0].ImageURL)

	public, err := repo.PublicThoughts(u.ID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "older", public[0].Text)

	require.NoError(t, repo.UpdateFlags(u.ID, older.ID, true, false))
	got, err := repo.ByID(u.ID, older.ID)
	require.NoError(t, err)
	assert.True(t, got.Ignited)
	assert.False(t, got.Archived)

	assert.ErrorIs(t, repo.UpdateFlags("someone-else", older.ID, true, true), ErrThoughtNotFound)
	require.NoError(t, repo.Delete(u.ID, older.ID))
	assert.ErrorIs(t, repo.Delete(u.ID, older.ID), ErrThoughtNotFound)
}

func TestMissionRepository(t *testing.T) {
	conn := dbtest.New(t)
	u := createUser(t, conn, "m@example.com")
	repo := NewMissionRepository(conn)

	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, task := range []string{"run", "read", "run"} {
		m := &model.Mission{UserID: u.ID, Task: task, IsActive: true, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(m))
	}

	active, err := repo.ActiveMissions(u.ID)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "run", active[0].Task)

	require.NoError(t, repo.UpdateState(u.ID, active[1].ID, true, true))
	got, err := repo.ByID(active[1].ID)
	require.NoError(t, err)
	assert.True(t, got.Crushed)

	require.NoError(t, repo.SetCheerNote(active[0].ID, "nice"))
	got, err = repo.ByID(active[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.CheerNote)
	assert.Equal(t, "nice", *got.CheerNote)

	n, err := repo.Deactivate(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	active, err = repo.ActiveMissions(u.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.Missions(u.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	recent, err := repo.RecentTasks(u.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "read"}, recent)
}

func TestMissionCrushedRequiresCompleted(t *testing.T) {
	conn := dbtest.New(t)
	u := createUser(t, conn, "c@example.com")
	repo := NewMissionRepository(conn)

	m := &model.Mission{UserID: u.ID, Task: "x", IsActive: true}
	require.NoError(t, repo.Create(m))
	assert.Error(t, repo.UpdateState(u.ID, m.ID, false, true))
}

func TestGoalAndVisionRepositories(t *testing.T) {
	conn := dbtest.New(t)
	u := createUser(t, conn, "g@example.com")

	goals := NewGoalRepository(conn)
	g := &model.Goal{UserID: u.ID, Title: "Health", Color: "#ff0000"}
	require.NoError(t, goals.Create(g))
	require.NoError(t, goals.SetPrivate(u.ID, g.ID, true))
	all, err := goals.Goals(u.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsPrivate)
	assert.ErrorIs(t, goals.SetPrivate("someone-else", g.ID, false), ErrGoalNotFound)
	require.NoError(t, goals.Delete(u.ID, g.ID))
	_, err = goals.ByID(u.ID, g.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)

	visions := NewVisionRepository(conn)
	v := &model.Vision{UserID: u.ID, Content: "Save", MetricTarget: 10000, MetricUnit: "$"}
	require.NoError(t, visions.Create(v))
	require.NoError(t, visions.UpdateCurrent(u.ID, v.ID, 2500))
	v.Content = "Save more"
	v.MetricCurrent = 2600
	require.NoError(t, visions.Update(v))

	got, err := visions.ByID(u.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Save more", got.Content)
	assert.InDelta(t, 2600, got.MetricCurrent, 0)
	assert.ErrorIs(t, visions.UpdateCurrent("other", v.ID, 1), ErrVisionNotFound)
}

func TestProfileLinkAndUnlink(t *testing.T) {
	conn := dbtest.New(t)
	a := createUser(t, conn, "a@example.com")
	b := createUser(t, conn, "b@example.com")
	c := createUser(t, conn, "c@example.com")
	profiles := NewProfileRepository(conn)

	require.NoError(t, profiles.Link(a.ID, b.ID))

	pa, err := profiles.ByUserID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, pa.Partner())
	pb, err := profiles.ByUserID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, pb.Partner())

	assert.ErrorIs(t, profiles.Link(c.ID, a.ID), ErrAlreadyPaired)
	pc, err := profiles.ByUserID(c.ID)
	require.NoError(t, err)
	assert.False(t, pc.HasPartner(), "failed link must roll back")

	former, err := profiles.Unlink(b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, former)

	pa, err = profiles.ByUserID(a.ID)
	require.NoError(t, err)
	assert.False(t, pa.HasPartner())

	former, err = profiles.Unlink(b.ID)
	require.NoError(t, err)
	assert.Empty(t, former)
}

func TestAllyInviteRepository(t *testing.T) {
	conn := dbtest.New(t)
	a := createUser(t, conn, "a@example.com")
	b := createUser(t, conn, "b@example.com")
	invites := NewAllyInviteRepository(conn)

	inv := &model.AllyInvite{FromUserID: a.ID, ToUserID: b.ID}
	require.NoError(t, invites.Create(inv))

	pending, err := invites.Pending(b.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.InviteStatusPending, pending[0].Status)

	require.NoError(t, invites.DeletePendingBetween(b.ID, a.ID))
	pending, err = invites.Pending(b.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, invites.SetStatus(inv.ID, model.InviteStatusAccepted), ErrInviteNotFound)
}

func TestFileRepository(t *testing.T) {
	conn := dbtest.New(t)
	u := createUser(t, conn, "f@example.com")
	files := NewFileRepository(conn)

	f := &model.File{
		UserID:       u.ID,
		OwnerType:    "user",
		OwnerID:      u.ID,
		Type:         model.FileTypeImage,
		Filename:     "abc.png",
		OriginalName: "me.png",
		MimeType:     "image/png",
		Size:         10,
		StoragePath:  "public/images/abc.png",
		URL:          "https://cdn.example.com/public/images/abc.png",
	}
	require.NoError(t, files.Create(f))

	got, err := files.Owned(u.ID, f.URL)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	other := createUser(t, conn, "g@example.com")
	_, err = files.Owned(other.ID, f.URL)
	assert.ErrorIs(t, err, ErrFileNotFound)

	all, err := files.ByUser(u.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, files.Delete(f.ID))
	_, err = files.Owned(u.ID, f.URL)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, files.Delete(f.ID), ErrFileNotFound)
}
