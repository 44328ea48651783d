package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/service"
)

// AuthMiddleware resolves the session from a bearer token or the auth cookie
// and adds the user ID and profile to the context. Requests without a valid
// session continue anonymously.
func AuthMiddleware(authService *service.AuthService, profileService *service.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, source := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.UserIDFromToken(token)
			if err != nil {
				if source == ctxkeys.AuthCookie {
					authService.ClearJWTCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			profile, err := profileService.ByUserID(userID)
			if err != nil {
				// Token outlived its account
				slog.Warn("session without profile", "user_id", userID, "error", err)
				if source == ctxkeys.AuthCookie {
					authService.ClearJWTCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			ctx = ctxkeys.WithProfile(ctx, profile)
			ctx = ctxkeys.WithAuthSource(ctx, source)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken prefers the Authorization header over the cookie.
func sessionToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return strings.TrimSpace(token), ctxkeys.AuthBearer
	}

	cookie, err := r.Cookie(service.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, ctxkeys.AuthCookie
	}

	return "", ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Not signed in")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// writeError mirrors the handler package's error body so clients decode one shape.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
