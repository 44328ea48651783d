package model

import "time"

type Mission struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Task      string    `db:"task" json:"task"`
	Completed bool      `db:"completed" json:"completed"`
	Crushed   bool      `db:"crushed" json:"crushed"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	GoalID    *string   `db:"goal_id" json:"goal_id"`
	ColorTag  *string   `db:"color_tag" json:"color_tag"`
	CheerNote *string   `db:"cheer_note" json:"cheer_note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsOpen reports whether the mission still needs doing today.
func (m *Mission) IsOpen() bool {
	return !m.Completed && !m.Crushed
}

type MissionInput struct {
	Task     string  `json:"task"`
	GoalID   *string `json:"goal_id,omitempty"`
	ColorTag *string `json:"color_tag,omitempty"`
}
