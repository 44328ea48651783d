package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relayvision/visionlog/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string) ([]model.Goal, error)
	SetPrivate(userID, goalID string, private bool) error
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO goals (id, user_id, title, color, is_private, created_at)
	          VALUES (:id, :user_id, :title, :color, :is_private, :created_at)`

	_, err := r.db.NamedExec(query, goal)
	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	return get[model.Goal](r.db, ErrGoalNotFound, `SELECT * FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
}

func (r *goalRepository) Goals(userID string) ([]model.Goal, error) {
	return list[model.Goal](r.db, `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at ASC`, userID)
}

func (r *goalRepository) SetPrivate(userID, goalID string, private bool) error {
	query := `UPDATE goals SET is_private = $1 WHERE id = $2 AND user_id = $3`

	return oneRow(ErrGoalNotFound)(r.db.Exec(query, private, goalID, userID))
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	return oneRow(ErrGoalNotFound)(r.db.Exec(query, goalID, userID))
}
