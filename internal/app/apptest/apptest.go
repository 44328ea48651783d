// Package apptest wires a complete App over an in-memory database and
// in-memory object storage.
package apptest

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/relayvision/visionlog/internal/app"
	"github.com/relayvision/visionlog/internal/config"
	"github.com/relayvision/visionlog/internal/db/dbtest"
	"github.com/relayvision/visionlog/internal/realtime"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/service"
)

// MemStorage keeps uploaded objects in a map.
type MemStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{objects: map[string][]byte{}}
}

func (m *MemStorage) Save(_ context.Context, path string, body io.Reader, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = b
	return nil
}

func (m *MemStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *MemStorage) URL(path string) string {
	return "https://cdn.test/" + path
}

// Len reports how many objects are stored.
func (m *MemStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Config is a development config that needs no external services.
func Config() *config.Config {
	return &config.Config{
		AppName:        "Vision Log",
		AppEnv:         "development",
		AppURL:         "http://localhost:8090",
		DBDriver:       "sqlite",
		JWTSecret:      "test-secret-test-secret-test-secret",
		JWTExpiry:      time.Hour,
		InviteExpiry:   72 * time.Hour,
		AuthRateLimit:  100,
		AuthRateWindow: time.Minute,
		EmailFrom:      "noreply@example.com",
		MetricsEnabled: true,
		MaxUploadBytes: 50 << 20,
	}
}

// New builds an App the way app.New does, minus S3 and Redis. Email runs in
// log mode.
func New(t testing.TB, files *MemStorage) *app.App {
	t.Helper()
	conn := dbtest.New(t)
	cfg := Config()

	userRepo := repository.NewUserRepository(conn)
	profileRepo := repository.NewProfileRepository(conn)
	thoughtRepo := repository.NewThoughtRepository(conn)
	missionRepo := repository.NewMissionRepository(conn)
	goalRepo := repository.NewGoalRepository(conn)
	visionRepo := repository.NewVisionRepository(conn)

	email := service.NewEmailService("", cfg.EmailFrom, cfg.AppURL, cfg.AppName, true)
	fileService := service.NewFileService(repository.NewFileRepository(conn), files)
	allies := service.NewAllyService(userRepo, profileRepo, repository.NewAllyInviteRepository(conn), email, nil, cfg.InviteExpiry)

	hub := realtime.NewHub()
	broker := realtime.NewBroker(hub, allies, nil)
	allies.SetPublisher(broker)

	return &app.App{
		Cfg:             cfg,
		DB:              conn,
		Hub:             hub,
		Broker:          broker,
		AuthService:     service.NewAuthService(userRepo, profileRepo, cfg.JWTSecret, cfg.JWTExpiry, false),
		UserService:     service.NewUserService(userRepo, profileRepo, fileService, email, allies),
		ProfileService:  service.NewProfileService(profileRepo, fileService, broker),
		EmailService:    email,
		FileService:     fileService,
		ThoughtService:  service.NewThoughtService(thoughtRepo, goalRepo, fileService, broker),
		MissionService:  service.NewMissionService(missionRepo, profileRepo, goalRepo, broker),
		GoalService:     service.NewGoalService(goalRepo, broker),
		VisionService:   service.NewVisionService(visionRepo, broker),
		AllyService:     allies,
		SnapshotService: service.NewSnapshotService(profileRepo, thoughtRepo, missionRepo, goalRepo, visionRepo),
	}
}
