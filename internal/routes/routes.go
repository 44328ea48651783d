package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relayvision/visionlog/internal/app"
	"github.com/relayvision/visionlog/internal/handler"
	"github.com/relayvision/visionlog/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	ops := handler.NewOpsHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	account := handler.NewAccountHandler(app.AuthService, app.UserService, app.ProfileService, app.FileService, app.Cfg.MaxUploadBytes)
	snapshot := handler.NewSnapshotHandler(app.SnapshotService)
	thought := handler.NewThoughtHandler(app.ThoughtService)
	mission := handler.NewMissionHandler(app.MissionService)
	goal := handler.NewGoalHandler(app.GoalService)
	vision := handler.NewVisionHandler(app.VisionService)
	ally := handler.NewAllyHandler(app.AllyService, app.ProfileService)
	live := handler.NewRealtimeHandler(app.Hub)

	mux := http.NewServeMux()

	// ============================================================================
	// OPS
	// ============================================================================

	mux.HandleFunc("GET /healthz", ops.Health)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// ============================================================================
	// AUTH
	// ============================================================================

	rateLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)

	mux.HandleFunc("POST /api/auth/signup", rateLimiter(auth.SignUp))
	mux.HandleFunc("POST /api/auth/signin", rateLimiter(auth.SignIn))
	mux.HandleFunc("POST /api/auth/signout", auth.SignOut)
	mux.HandleFunc("GET /api/auth/session", middleware.RequireAuth(auth.Session))

	// ============================================================================
	// PROTECTED API
	// ============================================================================

	mux.HandleFunc("GET /api/snapshot", middleware.RequireAuth(snapshot.Get))

	// Thoughts
	mux.HandleFunc("GET /api/thoughts", middleware.RequireAuth(thought.List))
	mux.HandleFunc("POST /api/thoughts", middleware.RequireAuth(thought.Create))
	mux.HandleFunc("PATCH /api/thoughts/{id}", middleware.RequireAuth(thought.Update))
	mux.HandleFunc("DELETE /api/thoughts/{id}", middleware.RequireAuth(thought.Delete))

	// Missions
	mux.HandleFunc("GET /api/missions", middleware.RequireAuth(mission.List))
	mux.HandleFunc("POST /api/missions", middleware.RequireAuth(mission.Create))
	mux.HandleFunc("GET /api/missions/recent", middleware.RequireAuth(mission.Recent))
	mux.HandleFunc("POST /api/missions/rollover", middleware.RequireAuth(mission.Rollover))
	mux.HandleFunc("POST /api/missions/{id}/toggle", middleware.RequireAuth(mission.Toggle))
	mux.HandleFunc("POST /api/missions/{id}/cheer", middleware.RequireAuth(mission.Cheer))
	mux.HandleFunc("DELETE /api/missions/{id}", middleware.RequireAuth(mission.Delete))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("PATCH /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Visions
	mux.HandleFunc("GET /api/visions", middleware.RequireAuth(vision.List))
	mux.HandleFunc("POST /api/visions", middleware.RequireAuth(vision.Create))
	mux.HandleFunc("PUT /api/visions/{id}", middleware.RequireAuth(vision.Update))
	mux.HandleFunc("PATCH /api/visions/{id}/current", middleware.RequireAuth(vision.UpdateCurrent))
	mux.HandleFunc("DELETE /api/visions/{id}", middleware.RequireAuth(vision.Delete))

	// Media, profile and account
	mux.HandleFunc("POST /api/media", middleware.RequireAuth(account.UploadMedia))
	mux.HandleFunc("PATCH /api/profile", middleware.RequireAuth(account.UpdateName))
	mux.HandleFunc("POST /api/profile/avatar", middleware.RequireAuth(account.UploadAvatar))
	mux.HandleFunc("PUT /api/account/password", middleware.RequireAuth(account.ChangePassword))
	mux.HandleFunc("DELETE /api/account", middleware.RequireAuth(account.DeleteAccount))

	// Pairing
	mux.HandleFunc("POST /api/rpc/send_ally_invite", middleware.RequireAuth(ally.SendInvite))
	mux.HandleFunc("POST /api/rpc/confirm_alliance", middleware.RequireAuth(ally.Confirm))
	mux.HandleFunc("POST /api/rpc/sever_connection", middleware.RequireAuth(ally.Sever))
	mux.HandleFunc("GET /api/allies/invites", middleware.RequireAuth(ally.Invites))

	// Realtime
	mux.HandleFunc("GET /api/realtime", middleware.RequireAuth(live.Subscribe))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		middleware.MatchRoute(mux),
		middleware.Metrics,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.ProfileService),
		middleware.CSRFProtection(app.Cfg.IsProduction()), // after auth: only cookie sessions are checked
	)

	return handler
}
