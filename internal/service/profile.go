package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	fileService *FileService
	events      EventPublisher
}

func NewProfileService(profileRepo repository.ProfileRepository, fileService *FileService, events EventPublisher) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		fileService: fileService,
		events:      publisherOrNop(events),
	}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(userID)
}

func (s *ProfileService) UpdateName(ctx context.Context, userID, name string) (*model.Profile, error) {
	name = strings.TrimSpace(name)

	err := validation.ValidateName(name)
	if err != nil {
		return nil, err
	}

	old, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	err = record(model.TableProfiles, "update", s.profileRepo.UpdateName(userID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to update name: %w", err)
	}

	updated := *old
	updated.Name = name
	publish(ctx, s.events, nil, userID, model.TableProfiles, model.EventUpdate, updated, old)
	return &updated, nil
}

// UpdateAvatar uploads a new avatar image and drops the previous one.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID string, header *multipart.FileHeader) (*model.Profile, error) {
	old, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	file, err := s.fileService.Upload(ctx, userID, model.FileTypeAvatar, header)
	if err != nil {
		return nil, err
	}

	err = record(model.TableProfiles, "update", s.profileRepo.UpdateAvatar(userID, file.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	if old.AvatarURL != "" {
		delErr := s.fileService.DeleteByURL(ctx, userID, old.AvatarURL)
		if delErr != nil {
			slog.Warn("failed to delete previous avatar", "user_id", userID, "error", delErr)
		}
	}

	updated := *old
	updated.AvatarURL = file.URL
	publish(ctx, s.events, nil, userID, model.TableProfiles, model.EventUpdate, updated, old)
	return &updated, nil
}
