package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/relayvision/visionlog/internal/board"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/validation"
)

// RecentLimit caps the task suggestions offered when planning tomorrow.
const RecentLimit = 20

var (
	ErrCheerOwnMission = errors.New("you can only cheer your ally's missions")
	ErrMissionArchived = errors.New("mission is no longer on today's board")
)

type MissionService struct {
	repo        repository.MissionRepository
	profileRepo repository.ProfileRepository
	goalRepo    repository.GoalRepository
	events      EventPublisher
}

func NewMissionService(
	repo repository.MissionRepository,
	profileRepo repository.ProfileRepository,
	goalRepo repository.GoalRepository,
	events EventPublisher,
) *MissionService {
	return &MissionService{
		repo:        repo,
		profileRepo: profileRepo,
		goalRepo:    goalRepo,
		events:      publisherOrNop(events),
	}
}

// List returns the user's missions in creation order. With activeOnly it
// returns today's board only.
func (s *MissionService) List(userID string, activeOnly bool) ([]model.Mission, error) {
	if activeOnly {
		return s.repo.ActiveMissions(userID)
	}
	return s.repo.Missions(userID)
}

func (s *MissionService) Create(ctx context.Context, userID string, in model.MissionInput) (*model.Mission, error) {
	task := strings.TrimSpace(in.Task)

	err := validation.ValidateTask(task)
	if err != nil {
		return nil, err
	}
	if in.ColorTag != nil {
		err = validation.ValidateColor(*in.ColorTag)
		if err != nil {
			return nil, err
		}
	}

	mission := &model.Mission{
		UserID:   userID,
		Task:     task,
		IsActive: true,
		GoalID:   in.GoalID,
		ColorTag: in.ColorTag,
	}

	err = record(model.TableMissions, "insert", s.repo.Create(mission))
	if err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	publish(ctx, s.events, lookupGoalPrivacy(s.goalRepo, userID), userID, model.TableMissions, model.EventInsert, mission, nil)
	return mission, nil
}

// Toggle runs the mission state machine for one action and persists the result.
func (s *MissionService) Toggle(ctx context.Context, userID, missionID string, action board.Action) (*model.Mission, error) {
	old, err := s.repo.ByID(missionID)
	if err != nil {
		return nil, err
	}
	if old.UserID != userID {
		return nil, repository.ErrMissionNotFound
	}
	if !old.IsActive {
		return nil, ErrMissionArchived
	}

	updated := *old
	patch := board.ApplyToggle(*old, action)
	patch.Apply(&updated)

	err = record(model.TableMissions, "update", s.repo.UpdateState(userID, missionID, updated.Completed, updated.Crushed))
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, lookupGoalPrivacy(s.goalRepo, userID), userID, model.TableMissions, model.EventUpdate, updated, old)
	return &updated, nil
}

// Cheer leaves a note on one of the ally's missions.
func (s *MissionService) Cheer(ctx context.Context, userID, missionID, note string) (*model.Mission, error) {
	note = strings.TrimSpace(note)

	err := validation.ValidateCheer(note)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}
	if !profile.HasPartner() {
		return nil, ErrNotAllied
	}

	old, err := s.repo.ByID(missionID)
	if err != nil {
		return nil, err
	}
	if old.UserID == userID {
		return nil, ErrCheerOwnMission
	}
	goals := lookupGoalPrivacy(s.goalRepo, old.UserID)
	if old.UserID != profile.Partner() || !visibleToAlly(*old, goals) {
		return nil, repository.ErrMissionNotFound
	}

	err = record(model.TableMissions, "update", s.repo.SetCheerNote(missionID, note))
	if err != nil {
		return nil, err
	}

	updated := *old
	updated.CheerNote = &note
	publish(ctx, s.events, goals, old.UserID, model.TableMissions, model.EventUpdate, updated, old)
	return &updated, nil
}

// Rollover archives today's board. It returns how many missions moved.
func (s *MissionService) Rollover(ctx context.Context, userID string) (int64, error) {
	active, err := s.repo.ActiveMissions(userID)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.Deactivate(userID)
	if err = record(model.TableMissions, "rollover", err); err != nil {
		return 0, err
	}

	goals := lookupGoalPrivacy(s.goalRepo, userID)
	for i := range active {
		updated := active[i]
		updated.IsActive = false
		publish(ctx, s.events, goals, userID, model.TableMissions, model.EventUpdate, updated, active[i])
	}
	return n, nil
}

// Recent returns distinct tasks from past boards, most recent first.
func (s *MissionService) Recent(userID string) ([]string, error) {
	return s.repo.RecentTasks(userID, RecentLimit)
}

func (s *MissionService) Delete(ctx context.Context, userID, missionID string) error {
	old, err := s.repo.ByID(missionID)
	if err != nil {
		return err
	}
	if old.UserID != userID {
		return repository.ErrMissionNotFound
	}

	err = record(model.TableMissions, "delete", s.repo.Delete(userID, missionID))
	if err != nil {
		return err
	}

	publish(ctx, s.events, lookupGoalPrivacy(s.goalRepo, userID), userID, model.TableMissions, model.EventDelete, nil, old)
	return nil
}
