package model

import (
	"time"
)

// DefaultGoalLabel is shown for missions and thoughts whose goal is unset or deleted.
const DefaultGoalLabel = "General"

type Goal struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Color     string    `db:"color" json:"color"`
	IsPrivate bool      `db:"is_private" json:"is_private"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GoalLabel resolves a goal reference against the known goals.
func GoalLabel(goals []Goal, goalID *string) string {
	if goalID == nil {
		return DefaultGoalLabel
	}
	for _, g := range goals {
		if g.ID == *goalID {
			return g.Title
		}
	}
	return DefaultGoalLabel
}
