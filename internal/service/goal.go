package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/validation"
)

type GoalService struct {
	repo   repository.GoalRepository
	events EventPublisher
}

func NewGoalService(repo repository.GoalRepository, events EventPublisher) *GoalService {
	return &GoalService{
		repo:   repo,
		events: publisherOrNop(events),
	}
}

func (s *GoalService) List(userID string) ([]model.Goal, error) {
	return s.repo.Goals(userID)
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(userID, goalID)
}

func (s *GoalService) Create(ctx context.Context, userID, title, color string, private bool) (*model.Goal, error) {
	title = strings.TrimSpace(title)

	err := validation.ValidateGoalTitle(title)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateColor(color)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		UserID:    userID,
		Title:     title,
		Color:     color,
		IsPrivate: private,
	}

	err = record(model.TableGoals, "insert", s.repo.Create(goal))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	publish(ctx, s.events, nil, userID, model.TableGoals, model.EventInsert, goal, nil)
	return goal, nil
}

// SetPrivate hides or shows the goal, and the missions and thoughts under it, from the ally.
func (s *GoalService) SetPrivate(ctx context.Context, userID, goalID string, private bool) (*model.Goal, error) {
	// Verify ownership
	old, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	err = record(model.TableGoals, "update", s.repo.SetPrivate(userID, goalID, private))
	if err != nil {
		return nil, err
	}

	updated := *old
	updated.IsPrivate = private
	publish(ctx, s.events, nil, userID, model.TableGoals, model.EventUpdate, updated, old)
	return &updated, nil
}

// Delete removes the goal. Missions and thoughts that referenced it fall
// back to the default label.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	old, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return err
	}

	err = record(model.TableGoals, "delete", s.repo.Delete(userID, goalID))
	if err != nil {
		return err
	}

	publish(ctx, s.events, nil, userID, model.TableGoals, model.EventDelete, nil, old)
	return nil
}
