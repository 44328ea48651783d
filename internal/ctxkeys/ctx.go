package ctxkeys

import (
	"context"

	"github.com/relayvision/visionlog/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserIDKey     contextKey = "user_id"
	ProfileKey    contextKey = "profile"
	AuthSourceKey contextKey = "auth_source"
	RequestIDKey  contextKey = "request_id"
)

// Auth sources. Cookie sessions are the ones that need CSRF checks.
const (
	AuthBearer = "bearer"
	AuthCookie = "cookie"
)

func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func Profile(ctx context.Context) *model.Profile {
	profile, _ := ctx.Value(ProfileKey).(*model.Profile)
	return profile
}

func WithProfile(ctx context.Context, profile *model.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

func AuthSource(ctx context.Context) string {
	source, _ := ctx.Value(AuthSourceKey).(string)
	return source
}

func WithAuthSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, AuthSourceKey, source)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
