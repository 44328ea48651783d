package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/relayvision/visionlog/internal/config"
	"github.com/relayvision/visionlog/internal/db"
	"github.com/relayvision/visionlog/internal/realtime"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/service"
	"github.com/relayvision/visionlog/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Redis           *redis.Client
	Hub             *realtime.Hub
	Broker          *realtime.Broker
	AuthService     *service.AuthService
	UserService     *service.UserService
	ProfileService  *service.ProfileService
	EmailService    *service.EmailService
	FileService     *service.FileService
	ThoughtService  *service.ThoughtService
	MissionService  *service.MissionService
	GoalService     *service.GoalService
	VisionService   *service.VisionService
	AllyService     *service.AllyService
	SnapshotService *service.SnapshotService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Database, migrated on open
	database, err := db.Open(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	fileRepository := repository.NewFileRepository(database)
	thoughtRepository := repository.NewThoughtRepository(database)
	missionRepository := repository.NewMissionRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	visionRepository := repository.NewVisionRepository(database)
	inviteRepository := repository.NewAllyInviteRepository(database)

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Realtime; Redis is only needed when running more than one instance
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = realtime.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}
	hub := realtime.NewHub(originHost(cfg.AppURL))

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	fileService := service.NewFileService(fileRepository, fileStorage)
	allyService := service.NewAllyService(
		userRepository,
		profileRepository,
		inviteRepository,
		emailService,
		nil,
		cfg.InviteExpiry,
	)

	broker := realtime.NewBroker(hub, allyService, rdb)
	allyService.SetPublisher(broker)

	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	userService := service.NewUserService(userRepository, profileRepository, fileService, emailService, allyService)
	profileService := service.NewProfileService(profileRepository, fileService, broker)
	thoughtService := service.NewThoughtService(thoughtRepository, goalRepository, fileService, broker)
	missionService := service.NewMissionService(missionRepository, profileRepository, goalRepository, broker)
	goalService := service.NewGoalService(goalRepository, broker)
	visionService := service.NewVisionService(visionRepository, broker)
	snapshotService := service.NewSnapshotService(
		profileRepository,
		thoughtRepository,
		missionRepository,
		goalRepository,
		visionRepository,
	)

	slog.Info("app initialized", "redis", rdb != nil)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Redis:           rdb,
		Hub:             hub,
		Broker:          broker,
		AuthService:     authService,
		UserService:     userService,
		ProfileService:  profileService,
		EmailService:    emailService,
		FileService:     fileService,
		ThoughtService:  thoughtService,
		MissionService:  missionService,
		GoalService:     goalService,
		VisionService:   visionService,
		AllyService:     allyService,
		SnapshotService: snapshotService,
	}, nil
}

func (a *App) Close() error {
	if a.Redis != nil {
		err := a.Redis.Close()
		if err != nil {
			slog.Warn("failed to close redis", "error", err)
		}
	}
	return db.Close(a.DB)
}

// originHost turns APP_URL into the host pattern websocket.Accept checks
// browser origins against.
func originHost(appURL string) string {
	u, err := url.Parse(appURL)
	if err != nil || u.Host == "" {
		return appURL
	}
	return u.Host
}
