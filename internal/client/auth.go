package client

import (
	"context"
	"log/slog"

	"github.com/relayvision/visionlog/internal/model"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates an account and starts a session.
func (c *Client) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	return c.authenticate(ctx, "/api/auth/signup", email, password)
}

// SignIn starts a session with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	return c.authenticate(ctx, "/api/auth/signin", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*model.Session, error) {
	var session model.Session
	resp, err := c.r(ctx).
		SetBody(credentials{Email: email, Password: password}).
		SetResult(&session).
		Post(path)
	if err := check(resp, err); err != nil {
		return nil, err
	}

	err = c.session.Set(&session)
	if err != nil {
		slog.Warn("failed to persist session", "error", err)
	}
	return &session, nil
}

// SignOut ends the session. Tokens are stateless, so the local session is
// cleared even when the server cannot be reached.
func (c *Client) SignOut(ctx context.Context) error {
	resp, err := c.r(ctx).Post("/api/auth/signout")
	if err := check(resp, err); err != nil {
		slog.Debug("server sign out failed", "error", err)
	}
	return c.session.Clear()
}

// SessionInfo is what the server knows about the signed-in user.
type SessionInfo struct {
	User    model.User    `json:"user"`
	Profile model.Profile `json:"profile"`
}

// GetSession asks the server to confirm the stored session. A refused token
// clears it locally.
func (c *Client) GetSession(ctx context.Context) (*SessionInfo, error) {
	var info SessionInfo
	resp, err := c.r(ctx).SetResult(&info).Get("/api/auth/session")
	if err := check(resp, err); err != nil {
		if IsUnauthorized(err) && c.session.Current() != nil {
			if clearErr := c.session.Clear(); clearErr != nil {
				slog.Warn("failed to clear session", "error", clearErr)
			}
		}
		return nil, err
	}
	return &info, nil
}

// UpdateName changes the display name.
func (c *Client) UpdateName(ctx context.Context, name string) (*model.Profile, error) {
	var profile model.Profile
	resp, err := c.r(ctx).SetBody(map[string]string{"name": name}).SetResult(&profile).Patch("/api/profile")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword replaces the password after re-checking the current one.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	resp, err := c.r(ctx).
		SetBody(map[string]string{"current_password": current, "new_password": next}).
		Put("/api/account/password")
	return check(resp, err)
}

// DeleteAccount removes the account and everything in it, then signs out.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	resp, err := c.r(ctx).SetBody(map[string]string{"password": password}).Delete("/api/account")
	if err := check(resp, err); err != nil {
		return err
	}
	return c.session.Clear()
}
