package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relayvision/visionlog/internal/model"
)

var (
	ErrInviteNotFound = errors.New("invite not found")
)

type AllyInviteRepository interface {
	Create(invite *model.AllyInvite) error
	ByID(inviteID string) (*model.AllyInvite, error)
	Pending(toUserID string) ([]model.AllyInvite, error)
	SetStatus(inviteID, status string) error
	DeletePendingBetween(userA, userB string) error
}

type allyInviteRepository struct {
	db *sqlx.DB
}

func NewAllyInviteRepository(db *sqlx.DB) AllyInviteRepository {
	return &allyInviteRepository{db: db}
}

func (r *allyInviteRepository) Create(invite *model.AllyInvite) error {
	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now().UTC()
	}
	if invite.Status == "" {
		invite.Status = model.InviteStatusPending
	}

	query := `INSERT INTO ally_invites (id, from_user_id, to_user_id, status, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, invite.ID, invite.FromUserID, invite.ToUserID, invite.Status, invite.CreatedAt)
	return err
}

func (r *allyInviteRepository) ByID(inviteID string) (*model.AllyInvite, error) {
	return get[model.AllyInvite](r.db, ErrInviteNotFound, `SELECT * FROM ally_invites WHERE id = $1`, inviteID)
}

func (r *allyInviteRepository) Pending(toUserID string) ([]model.AllyInvite, error) {
	return list[model.AllyInvite](r.db, `SELECT * FROM ally_invites WHERE to_user_id = $1 AND status = $2 ORDER BY created_at DESC`, toUserID, model.InviteStatusPending)
}

func (r *allyInviteRepository) SetStatus(inviteID, status string) error {
	query := `UPDATE ally_invites SET status = $1 WHERE id = $2`

	return oneRow(ErrInviteNotFound)(r.db.Exec(query, status, inviteID))
}

// DeletePendingBetween drops open invites in either direction, so a re-invite replaces the old one.
func (r *allyInviteRepository) DeletePendingBetween(userA, userB string) error {
	query := `DELETE FROM ally_invites
	          WHERE status = $1
	          AND ((from_user_id = $2 AND to_user_id = $3) OR (from_user_id = $3 AND to_user_id = $2))`

	_, err := r.db.Exec(query, model.InviteStatusPending, userA, userB)
	return err
}
