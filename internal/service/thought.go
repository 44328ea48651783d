package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/validation"
)

type ThoughtService struct {
	repo        repository.ThoughtRepository
	goalRepo    repository.GoalRepository
	fileService *FileService
	events      EventPublisher
}

func NewThoughtService(
	repo repository.ThoughtRepository,
	goalRepo repository.GoalRepository,
	fileService *FileService,
	events EventPublisher,
) *ThoughtService {
	return &ThoughtService{
		repo:        repo,
		goalRepo:    goalRepo,
		fileService: fileService,
		events:      publisherOrNop(events),
	}
}

// List returns the user's thoughts, newest first.
func (s *ThoughtService) List(userID string) ([]model.Thought, error) {
	return s.repo.Thoughts(userID)
}

func (s *ThoughtService) Create(ctx context.Context, userID string, in model.ThoughtInput) (*model.Thought, error) {
	text := strings.TrimSpace(in.Text)

	err := validation.ValidateThought(text, in.HasMedia())
	if err != nil {
		return nil, err
	}
	if in.Color != nil {
		err = validation.ValidateColor(*in.Color)
		if err != nil {
			return nil, err
		}
	}

	thought := &model.Thought{
		UserID:    userID,
		Text:      text,
		ImageURL:  in.ImageURL,
		VideoURL:  in.VideoURL,
		AudioURL:  in.AudioURL,
		IsQuote:   in.IsQuote,
		GoalID:    in.GoalID,
		Color:     in.Color,
		IsPrivate: in.IsPrivate,
	}

	err = record(model.TableThoughts, "insert", s.repo.Create(thought))
	if err != nil {
		return nil, fmt.Errorf("failed to create thought: %w", err)
	}

	publish(ctx, s.events, lookupGoalPrivacy(s.goalRepo, userID), userID, model.TableThoughts, model.EventInsert, thought, nil)
	return thought, nil
}

// Update applies the non-nil flags of patch.
func (s *ThoughtService) Update(ctx context.Context, userID, thoughtID string, patch model.ThoughtPatch) (*model.Thought, error) {
	old, err := s.repo.ByID(userID, thoughtID)
	if err != nil {
		return nil, err
	}

	updated := *old
	if patch.Ignited != nil {
		updated.Ignited = *patch.Ignited
	}
	if patch.Archived != nil {
		updated.Archived = *patch.Archived
	}

	err = record(model.TableThoughts, "update", s.repo.UpdateFlags(userID, thoughtID, updated.Ignited, updated.Archived))
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, lookupGoalPrivacy(s.goalRepo, userID), userID, model.TableThoughts, model.EventUpdate, updated, old)
	return &updated, nil
}

func (s *ThoughtService) SetIgnited(ctx context.Context, userID, thoughtID string, ignited bool) (*model.Thought, error) {
	return s.Update(ctx, userID, thoughtID, model.ThoughtPatch{Ignited: &ignited})
}

func (s *ThoughtService) SetArchived(ctx context.Context, userID, thoughtID string, archived bool) (*model.Thought, error) {
	return s.Update(ctx, userID, thoughtID, model.ThoughtPatch{Archived: &archived})
}

// Delete removes the thought and any media attached to it.
func (s *ThoughtService) Delete(ctx context.Context, userID, thoughtID string) error {
	old, err := s.repo.ByID(userID, thoughtID)
	if err != nil {
		return err
	}

	err = record(model.TableThoughts, "delete", s.repo.Delete(userID, thoughtID))
	if err != nil {
		return err
	}

	if s.fileService != nil {
		for _, url := range old.MediaURLs() {
			delErr := s.fileService.DeleteByURL(ctx, userID, url)
			if delErr != nil {
				slog.Warn("failed to delete thought media", "thought_id", thoughtID, "url", url, "error", delErr)
			}
		}
	}

	publish(ctx, s.events, lookupGoalPrivacy(s.goalRepo, userID), userID, model.TableThoughts, model.EventDelete, nil, old)
	return nil
}
