package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relayvision/visionlog/internal/model"
)

var (
	ErrThoughtNotFound = errors.New("thought not found")
)

type ThoughtRepository interface {
	Create(thought *model.Thought) error
	ByID(userID, thoughtID string) (*model.Thought, error)
	Thoughts(userID string) ([]model.Thought, error)
	PublicThoughts(userID string) ([]model.Thought, error)
	UpdateFlags(userID, thoughtID string, ignited, archived bool) error
	Delete(userID, thoughtID string) error
}

type thoughtRepository struct {
	db *sqlx.DB
}

func NewThoughtRepository(db *sqlx.DB) ThoughtRepository {
	return &thoughtRepository{db: db}
}

func (r *thoughtRepository) Create(thought *model.Thought) error {
	if thought.ID == "" {
		thought.ID = uuid.New().String()
	}
	if thought.CreatedAt.IsZero() {
		thought.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO thoughts (id, user_id, text, image_url, video_url, audio_url, is_quote, ignited, archived, goal_id, color, is_private, created_at)
	          VALUES (:id, :user_id, :text, :image_url, :video_url, :audio_url, :is_quote, :ignited, :archived, :goal_id, :color, :is_private, :created_at)`

	_, err := r.db.NamedExec(query, thought)
	return err
}

func (r *thoughtRepository) ByID(userID, thoughtID string) (*model.Thought, error) {
	return get[model.Thought](r.db, ErrThoughtNotFound, `SELECT * FROM thoughts WHERE id = $1 AND user_id = $2`, thoughtID, userID)
}

// Thoughts returns every thought of the user, newest first.
func (r *thoughtRepository) Thoughts(userID string) ([]model.Thought, error) {
	return list[model.Thought](r.db, `SELECT * FROM thoughts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// PublicThoughts returns the thoughts an ally may see.
func (r *thoughtRepository) PublicThoughts(userID string) ([]model.Thought, error) {
	return list[model.Thought](r.db, `SELECT * FROM thoughts WHERE user_id = $1 AND is_private = $2 ORDER BY created_at DESC`, userID, false)
}

func (r *thoughtRepository) UpdateFlags(userID, thoughtID string, ignited, archived bool) error {
	query := `UPDATE thoughts SET ignited = $1, archived = $2 WHERE id = $3 AND user_id = $4`

	return oneRow(ErrThoughtNotFound)(r.db.Exec(query, ignited, archived, thoughtID, userID))
}

func (r *thoughtRepository) Delete(userID, thoughtID string) error {
	query := `DELETE FROM thoughts WHERE id = $1 AND user_id = $2`
	return oneRow(ErrThoughtNotFound)(r.db.Exec(query, thoughtID, userID))
}
