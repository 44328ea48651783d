package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relayvision/visionlog/internal/model"
)

var (
	ErrVisionNotFound = errors.New("vision not found")
)

type VisionRepository interface {
	Create(vision *model.Vision) error
	ByID(userID, visionID string) (*model.Vision, error)
	Visions(userID string) ([]model.Vision, error)
	Update(vision *model.Vision) error
	UpdateCurrent(userID, visionID string, current float64) error
	Delete(userID, visionID string) error
}

type visionRepository struct {
	db *sqlx.DB
}

func NewVisionRepository(db *sqlx.DB) VisionRepository {
	return &visionRepository{db: db}
}

func (r *visionRepository) Create(vision *model.Vision) error {
	if vision.ID == "" {
		vision.ID = uuid.New().String()
	}
	if vision.CreatedAt.IsZero() {
		vision.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO visions (id, user_id, content, metric_start, metric_current, metric_target, metric_unit, created_at)
	          VALUES (:id, :user_id, :content, :metric_start, :metric_current, :metric_target, :metric_unit, :created_at)`

	_, err := r.db.NamedExec(query, vision)
	return err
}

func (r *visionRepository) ByID(userID, visionID string) (*model.Vision, error) {
	return get[model.Vision](r.db, ErrVisionNotFound, `SELECT * FROM visions WHERE id = $1 AND user_id = $2`, visionID, userID)
}

// Visions returns the user's visions, newest first.
func (r *visionRepository) Visions(userID string) ([]model.Vision, error) {
	return list[model.Vision](r.db, `SELECT * FROM visions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *visionRepository) Update(vision *model.Vision) error {
	query := `UPDATE visions
	          SET content = $1, metric_start = $2, metric_current = $3, metric_target = $4, metric_unit = $5
	          WHERE id = $6 AND user_id = $7`

	return oneRow(ErrVisionNotFound)(r.db.Exec(query,
		vision.Content,
		vision.MetricStart,
		vision.MetricCurrent,
		vision.MetricTarget,
		vision.MetricUnit,
		vision.ID,
		vision.UserID,
	))
}

func (r *visionRepository) UpdateCurrent(userID, visionID string, current float64) error {
	query := `UPDATE visions SET metric_current = $1 WHERE id = $2 AND user_id = $3`

	return oneRow(ErrVisionNotFound)(r.db.Exec(query, current, visionID, userID))
}

func (r *visionRepository) Delete(userID, visionID string) error {
	query := `DELETE FROM visions WHERE id = $1 AND user_id = $2`
	return oneRow(ErrVisionNotFound)(r.db.Exec(query, visionID, userID))
}
