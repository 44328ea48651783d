package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relayvision/visionlog/internal/model"
)

var (
	ErrMissionNotFound = errors.New("mission not found")
)

type MissionRepository interface {
	Create(mission *model.Mission) error
	ByID(missionID string) (*model.Mission, error)
	Missions(userID string) ([]model.Mission, error)
	ActiveMissions(userID string) ([]model.Mission, error)
	RecentTasks(userID string, limit int) ([]string, error)
	UpdateState(userID, missionID string, completed, crushed bool) error
	SetCheerNote(missionID, note string) error
	Deactivate(userID string) (int64, error)
	Delete(userID, missionID string) error
}

type missionRepository struct {
	db *sqlx.DB
}

func NewMissionRepository(db *sqlx.DB) MissionRepository {
	return &missionRepository{db: db}
}

func (r *missionRepository) Create(mission *model.Mission) error {
	if mission.ID == "" {
		mission.ID = uuid.New().String()
	}
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO missions (id, user_id, task, completed, crushed, is_active, goal_id, color_tag, cheer_note, created_at)
	          VALUES (:id, :user_id, :task, :completed, :crushed, :is_active, :goal_id, :color_tag, :cheer_note, :created_at)`

	_, err := r.db.NamedExec(query, mission)
	return err
}

// ByID loads a mission regardless of owner; callers check access.
func (r *missionRepository) ByID(missionID string) (*model.Mission, error) {
	return get[model.Mission](r.db, ErrMissionNotFound, `SELECT * FROM missions WHERE id = $1`, missionID)
}

// Missions returns the full history in board order (oldest first).
func (r *missionRepository) Missions(userID string) ([]model.Mission, error) {
	return list[model.Mission](r.db, `SELECT * FROM missions WHERE user_id = $1 ORDER BY created_at ASC`, userID)
}

func (r *missionRepository) ActiveMissions(userID string) ([]model.Mission, error) {
	return list[model.Mission](r.db, `SELECT * FROM missions WHERE user_id = $1 AND is_active = $2 ORDER BY created_at ASC`, userID, true)
}

// RecentTasks returns distinct task texts from archived missions, most recent first.
func (r *missionRepository) RecentTasks(userID string, limit int) ([]string, error) {
	query := `SELECT task FROM missions
	          WHERE user_id = $1 AND is_active = $2
	          GROUP BY task
	          ORDER BY MAX(created_at) DESC
	          LIMIT $3`

	return list[string](r.db, query, userID, false, limit)
}

func (r *missionRepository) UpdateState(userID, missionID string, completed, crushed bool) error {
	query := `UPDATE missions SET completed = $1, crushed = $2 WHERE id = $3 AND user_id = $4`

	return oneRow(ErrMissionNotFound)(r.db.Exec(query, completed, crushed, missionID, userID))
}

func (r *missionRepository) SetCheerNote(missionID, note string) error {
	query := `UPDATE missions SET cheer_note = $1 WHERE id = $2`

	return oneRow(ErrMissionNotFound)(r.db.Exec(query, note, missionID))
}

// Deactivate archives the current board and returns how many missions moved.
func (r *missionRepository) Deactivate(userID string) (int64, error) {
	query := `UPDATE missions SET is_active = $1 WHERE user_id = $2 AND is_active = $3`

	result, err := r.db.Exec(query, false, userID, true)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *missionRepository) Delete(userID, missionID string) error {
	query := `DELETE FROM missions WHERE id = $1 AND user_id = $2`
	return oneRow(ErrMissionNotFound)(r.db.Exec(query, missionID, userID))
}
