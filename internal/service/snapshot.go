package service

import (
	"errors"
	"fmt"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
)

// SnapshotService assembles the full refetch payload for one user.
type SnapshotService struct {
	profileRepo repository.ProfileRepository
	thoughtRepo repository.ThoughtRepository
	missionRepo repository.MissionRepository
	goalRepo    repository.GoalRepository
	visionRepo  repository.VisionRepository
}

func NewSnapshotService(
	profileRepo repository.ProfileRepository,
	thoughtRepo repository.ThoughtRepository,
	missionRepo repository.MissionRepository,
	goalRepo repository.GoalRepository,
	visionRepo repository.VisionRepository,
) *SnapshotService {
	return &SnapshotService{
		profileRepo: profileRepo,
		thoughtRepo: thoughtRepo,
		missionRepo: missionRepo,
		goalRepo:    goalRepo,
		visionRepo:  visionRepo,
	}
}

func (s *SnapshotService) Snapshot(userID string) (*model.Snapshot, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	snap := &model.Snapshot{
		Profile:         *profile,
		PartnerThoughts: []model.Thought{},
		PartnerMissions: []model.Mission{},
		PartnerGoals:    []model.Goal{},
	}

	snap.Thoughts, err = s.thoughtRepo.Thoughts(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	snap.Missions, err = s.missionRepo.Missions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	snap.Goals, err = s.goalRepo.Goals(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	snap.Visions, err = s.visionRepo.Visions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visions: %w", err)
	}

	if !profile.HasPartner() {
		return snap, nil
	}

	err = s.partnerView(snap, profile.Partner())
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// partnerView fills in what visibleToAlly lets the ally see.
func (s *SnapshotService) partnerView(snap *model.Snapshot, partnerID string) error {
	partner, err := s.profileRepo.ByUserID(partnerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get ally profile: %w", err)
	}
	snap.Partner = partner

	allGoals, err := s.goalRepo.Goals(partnerID)
	if err != nil {
		return fmt.Errorf("failed to list ally goals: %w", err)
	}
	goals := privateGoals(allGoals)
	for _, g := range allGoals {
		if visibleToAlly(g, goals) {
			snap.PartnerGoals = append(snap.PartnerGoals, g)
		}
	}

	thoughts, err := s.thoughtRepo.PublicThoughts(partnerID)
	if err != nil {
		return fmt.Errorf("failed to list ally thoughts: %w", err)
	}
	for _, t := range thoughts {
		if visibleToAlly(t, goals) {
			snap.PartnerThoughts = append(snap.PartnerThoughts, t)
		}
	}

	missions, err := s.missionRepo.ActiveMissions(partnerID)
	if err != nil {
		return fmt.Errorf("failed to list ally missions: %w", err)
	}
	for _, m := range missions {
		if visibleToAlly(m, goals) {
			snap.PartnerMissions = append(snap.PartnerMissions, m)
		}
	}

	return nil
}
