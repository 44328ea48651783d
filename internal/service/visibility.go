package service

import (
	"errors"
	"log/slog"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
)

// goalPrivacy reports whether a goal id names one of the owner's private goals.
// A nil goalPrivacy treats every goal as public.
type goalPrivacy func(goalID string) bool

func (f goalPrivacy) private(goalID *string) bool {
	if f == nil || goalID == nil || *goalID == "" {
		return false
	}
	return f(*goalID)
}

// privateGoals builds a goalPrivacy from an already loaded goal list.
func privateGoals(goals []model.Goal) goalPrivacy {
	private := make(map[string]bool)
	for _, g := range goals {
		if g.IsPrivate {
			private[g.ID] = true
		}
	}
	return func(goalID string) bool { return private[goalID] }
}

// lookupGoalPrivacy resolves goals of userID on demand, once per id.
// Unknown goals are public; lookup failures count as private.
func lookupGoalPrivacy(repo repository.GoalRepository, userID string) goalPrivacy {
	seen := make(map[string]bool)
	return func(goalID string) bool {
		if private, ok := seen[goalID]; ok {
			return private
		}
		private := false
		goal, err := repo.ByID(userID, goalID)
		switch {
		case err == nil:
			private = goal.IsPrivate
		case !errors.Is(err, repository.ErrGoalNotFound):
			slog.Warn("failed to resolve goal privacy", "user_id", userID, "goal_id", goalID, "error", err)
			private = true
		}
		seen[goalID] = private
		return private
	}
}

// visibleToAlly decides whether the owner's ally may see row. Profiles and
// public goals are shared. Thoughts must be public and missions on today's
// board, and neither may sit under a private goal. Visions are never shared.
func visibleToAlly(row any, goals goalPrivacy) bool {
	switch r := row.(type) {
	case *model.Profile:
		return r != nil
	case model.Profile:
		return true
	case *model.Goal:
		return r != nil && !r.IsPrivate
	case model.Goal:
		return !r.IsPrivate
	case *model.Thought:
		return r != nil && visibleToAlly(*r, goals)
	case model.Thought:
		return !r.IsPrivate && !goals.private(r.GoalID)
	case *model.Mission:
		return r != nil && visibleToAlly(*r, goals)
	case model.Mission:
		return r.IsActive && !goals.private(r.GoalID)
	}
	return false
}

// allyRow returns row when the ally may see it and nil otherwise.
func allyRow(row any, goals goalPrivacy) any {
	if row == nil || !visibleToAlly(row, goals) {
		return nil
	}
	return row
}
