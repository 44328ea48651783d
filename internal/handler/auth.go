package handler

import (
	"log/slog"
	"net/http"

	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/metrics"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	user, err := h.authService.SignUp(in.Email, in.Password)
	countAttempt("signup", err)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.startSession(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	user, err := h.authService.SignIn(in.Email, in.Password)
	countAttempt("signin", err)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.startSession(w, r, http.StatusOK, user)
}

// SignOut only clears the cookie. Tokens are stateless and expire on their own.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type sessionInfo struct {
	User    *model.User    `json:"user"`
	Profile *model.Profile `json:"profile"`
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	user, err := h.userService.ByID(userID)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionInfo{User: user, Profile: ctxkeys.Profile(r.Context())})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to generate jwt", "error", err, "user_id", user.ID)
		fail(w, r, err)
		return
	}

	expiry := h.authService.Expiry()
	h.authService.SetJWTCookie(w, token, expiry)

	writeJSON(w, status, model.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiry,
		User:        *user,
	})
}

func countAttempt(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.Get().AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}
