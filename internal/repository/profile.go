package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relayvision/visionlog/internal/model"
)

var (
	ErrAlreadyPaired = errors.New("one of the accounts already has an ally")
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	Create(profile *model.Profile) error
	UpdateName(userID, name string) error
	UpdateAvatar(userID, avatarURL string) error
	Link(userA, userB string) error
	Unlink(userID string) (string, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	return get[model.Profile](r.db, ErrProfileNotFound, `SELECT * FROM profiles WHERE user_id = $1`, userID)
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = now
	}

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, name, avatar_url, partner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, profile.ID, profile.UserID, profile.Name, profile.AvatarURL, profile.PartnerID, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) UpdateName(userID, name string) error {
	query := `UPDATE profiles SET name = $1, updated_at = $2 WHERE user_id = $3`
	return oneRow(ErrProfileNotFound)(r.db.Exec(query, name, time.Now().UTC(), userID))
}

func (r *profileRepository) UpdateAvatar(userID, avatarURL string) error {
	query := `UPDATE profiles SET avatar_url = $1, updated_at = $2 WHERE user_id = $3`
	return oneRow(ErrProfileNotFound)(r.db.Exec(query, avatarURL, time.Now().UTC(), userID))
}

// Link pairs two unpaired accounts in one transaction, keeping the link reciprocal.
func (r *profileRepository) Link(userA, userB string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query := `UPDATE profiles SET partner_id = $1, updated_at = $2 WHERE user_id = $3 AND partner_id IS NULL`

	for _, pair := range [][2]string{{userB, userA}, {userA, userB}} {
		if err := oneRow(ErrAlreadyPaired)(tx.Exec(query, pair[0], now, pair[1])); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Unlink clears the user's link and the reciprocal one. It returns the former
// partner's user ID, or "" when the user had no ally.
func (r *profileRepository) Unlink(userID string) (string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var partnerID sql.NullString
	err = tx.Get(&partnerID, `SELECT partner_id FROM profiles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrProfileNotFound
	}
	if err != nil {
		return "", err
	}
	if !partnerID.Valid || partnerID.String == "" {
		return "", nil
	}

	now := time.Now().UTC()
	_, err = tx.Exec(`UPDATE profiles SET partner_id = NULL, updated_at = $1 WHERE user_id IN ($2, $3)`, now, userID, partnerID.String)
	if err != nil {
		return "", err
	}

	return partnerID.String, tx.Commit()
}
