package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/validation"
)

type VisionService struct {
	repo   repository.VisionRepository
	events EventPublisher
}

func NewVisionService(repo repository.VisionRepository, events EventPublisher) *VisionService {
	return &VisionService{
		repo:   repo,
		events: publisherOrNop(events),
	}
}

// List returns the user's visions, newest first.
func (s *VisionService) List(userID string) ([]model.Vision, error) {
	return s.repo.Visions(userID)
}

func (s *VisionService) Create(ctx context.Context, userID string, in model.VisionInput) (*model.Vision, error) {
	in, err := cleanVision(in)
	if err != nil {
		return nil, err
	}

	vision := &model.Vision{
		UserID:        userID,
		Content:       in.Content,
		MetricStart:   in.MetricStart,
		MetricCurrent: in.MetricCurrent,
		MetricTarget:  in.MetricTarget,
		MetricUnit:    in.MetricUnit,
	}

	err = record(model.TableVisions, "insert", s.repo.Create(vision))
	if err != nil {
		return nil, fmt.Errorf("failed to create vision: %w", err)
	}

	publish(ctx, s.events, nil, userID, model.TableVisions, model.EventInsert, vision, nil)
	return vision, nil
}

// Update replaces the statement and the whole metric block.
func (s *VisionService) Update(ctx context.Context, userID, visionID string, in model.VisionInput) (*model.Vision, error) {
	in, err := cleanVision(in)
	if err != nil {
		return nil, err
	}

	old, err := s.repo.ByID(userID, visionID)
	if err != nil {
		return nil, err
	}

	updated := *old
	updated.Content = in.Content
	updated.MetricStart = in.MetricStart
	updated.MetricCurrent = in.MetricCurrent
	updated.MetricTarget = in.MetricTarget
	updated.MetricUnit = in.MetricUnit

	err = record(model.TableVisions, "update", s.repo.Update(&updated))
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, nil, userID, model.TableVisions, model.EventUpdate, updated, old)
	return &updated, nil
}

// UpdateCurrent is the quick update: only the current metric value changes.
func (s *VisionService) UpdateCurrent(ctx context.Context, userID, visionID string, current float64) (*model.Vision, error) {
	err := validation.ValidateMetric(current)
	if err != nil {
		return nil, err
	}

	old, err := s.repo.ByID(userID, visionID)
	if err != nil {
		return nil, err
	}

	err = record(model.TableVisions, "update", s.repo.UpdateCurrent(userID, visionID, current))
	if err != nil {
		return nil, err
	}

	updated := *old
	updated.MetricCurrent = current
	publish(ctx, s.events, nil, userID, model.TableVisions, model.EventUpdate, updated, old)
	return &updated, nil
}

func (s *VisionService) Delete(ctx context.Context, userID, visionID string) error {
	old, err := s.repo.ByID(userID, visionID)
	if err != nil {
		return err
	}

	err = record(model.TableVisions, "delete", s.repo.Delete(userID, visionID))
	if err != nil {
		return err
	}

	publish(ctx, s.events, nil, userID, model.TableVisions, model.EventDelete, nil, old)
	return nil
}

func cleanVision(in model.VisionInput) (model.VisionInput, error) {
	in.Content = strings.TrimSpace(in.Content)
	in.MetricUnit = strings.TrimSpace(in.MetricUnit)
	err := validation.ValidateVision(in.Content, in.MetricStart, in.MetricCurrent, in.MetricTarget, in.MetricUnit)
	return in, err
}
