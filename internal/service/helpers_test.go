package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relayvision/visionlog/internal/db/dbtest"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Save(_ context.Context, path string, body io.Reader, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = b
	return nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *memStorage) URL(path string) string {
	return "https://cdn.test/" + path
}

func (m *memStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type sent struct {
	recipients []string
	owner      string
	event      model.ChangeEvent
	ally       *model.ChangeEvent
}

type recPublisher struct {
	mu     sync.Mutex
	events []sent
}

func (p *recPublisher) Publish(_ context.Context, ownerID string, ev model.ChangeEvent, allyEv *model.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, sent{owner: ownerID, event: ev, ally: allyEv})
	return nil
}

func (p *recPublisher) PublishTo(_ context.Context, recipients []string, ev model.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, sent{recipients: recipients, event: ev})
	return nil
}

func (p *recPublisher) last(t *testing.T) sent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.events)
	return p.events[len(p.events)-1]
}

func (p *recPublisher) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// services wires every service over one fresh database.
type services struct {
	auth     *AuthService
	profiles *ProfileService
	thoughts *ThoughtService
	missions *MissionService
	goals    *GoalService
	visions  *VisionService
	allies   *AllyService
	files    *FileService
	snapshot *SnapshotService
	users    *UserService

	profileRepo repository.ProfileRepository
	storage     *memStorage
	events      *recPublisher
}

func newServices(t *testing.T) *services {
	t.Helper()
	conn := dbtest.New(t)

	userRepo := repository.NewUserRepository(conn)
	profileRepo := repository.NewProfileRepository(conn)
	thoughtRepo := repository.NewThoughtRepository(conn)
	missionRepo := repository.NewMissionRepository(conn)
	goalRepo := repository.NewGoalRepository(conn)
	visionRepo := repository.NewVisionRepository(conn)
	inviteRepo := repository.NewAllyInviteRepository(conn)
	fileRepo := repository.NewFileRepository(conn)

	store := newMemStorage()
	events := &recPublisher{}
	email := NewEmailService("", "noreply@example.com", "http://localhost:8090", "Vision Log", true)
	files := NewFileService(fileRepo, store)
	allies := NewAllyService(userRepo, profileRepo, inviteRepo, email, events, 72*time.Hour)

	return &services{
		auth:        NewAuthService(userRepo, profileRepo, "test-secret-test-secret-test-secret", time.Hour, false),
		profiles:    NewProfileService(profileRepo, files, events),
		thoughts:    NewThoughtService(thoughtRepo, goalRepo, files, events),
		missions:    NewMissionService(missionRepo, profileRepo, goalRepo, events),
		goals:       NewGoalService(goalRepo, events),
		visions:     NewVisionService(visionRepo, events),
		allies:      allies,
		files:       files,
		snapshot:    NewSnapshotService(profileRepo, thoughtRepo, missionRepo, goalRepo, visionRepo),
		users:       NewUserService(userRepo, profileRepo, files, email, allies),
		profileRepo: profileRepo,
		storage:     store,
		events:      events,
	}
}

func (s *services) signUp(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := s.auth.SignUp(email, "correct-horse-battery")
	require.NoError(t, err)
	return user
}

// pair links a and b through the invite flow.
func (s *services) pair(t *testing.T, a, b *model.User) {
	t.Helper()
	invite, err := s.allies.SendInvite(context.Background(), a.ID, b.Email)
	require.NoError(t, err)
	require.NoError(t, s.allies.Confirm(context.Background(), b.ID, invite.ID))
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func strPtr(s string) *string { return &s }
