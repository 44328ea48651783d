package client

import (
	"context"
	"time"

	"github.com/relayvision/visionlog/internal/model"
)

// Invite is a pending alliance request addressed to the signed-in user.
type Invite struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	FromName   string    `json:"from_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// SendAllyInvite asks the account behind email to pair up.
func (c *Client) SendAllyInvite(ctx context.Context, email string) (*model.AllyInvite, error) {
	var invite model.AllyInvite
	resp, err := c.r(ctx).
		SetBody(map[string]string{"email": email}).
		SetResult(&invite).
		Post("/api/rpc/send_ally_invite")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &invite, nil
}

// ConfirmAlliance accepts an invite.
func (c *Client) ConfirmAlliance(ctx context.Context, inviteID string) error {
	resp, err := c.r(ctx).
		SetBody(map[string]string{"invite_id": inviteID}).
		Post("/api/rpc/confirm_alliance")
	return check(resp, err)
}

// SeverConnection ends the alliance for both sides.
func (c *Client) SeverConnection(ctx context.Context) error {
	resp, err := c.r(ctx).Post("/api/rpc/sever_connection")
	return check(resp, err)
}

// Invites lists open invites addressed to the signed-in user.
func (c *Client) Invites(ctx context.Context) ([]Invite, error) {
	var invites []Invite
	resp, err := c.r(ctx).SetResult(&invites).Get("/api/allies/invites")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return invites, nil
}
