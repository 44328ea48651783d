package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/validation"
)

var ErrInvalidCurrentPassword = errors.New("current password is incorrect")

// UserService covers account-level changes after sign up.
type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	fileService       *FileService
	emailService      *EmailService
	allyService       *AllyService
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	fileService *FileService,
	emailService *EmailService,
	allyService *AllyService,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		fileService:       fileService,
		emailService:      emailService,
		allyService:       allyService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) UpdatePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return ErrInvalidCurrentPassword
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword))
	if err != nil {
		return ErrInvalidCurrentPassword
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(userID, string(hashedPassword))
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteAccount removes the user and everything they own. The password is
// checked again so a stolen session alone cannot wipe an account.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() || bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCurrentPassword
	}

	if s.allyService != nil {
		err = s.allyService.Sever(ctx, userID)
		if err != nil && !errors.Is(err, ErrNotAllied) {
			slog.Warn("failed to sever alliance before deletion", "user_id", userID, "error", err)
		}
	}

	if s.fileService != nil {
		err = s.fileService.DeleteAllUserFilesFromStorage(ctx, userID)
		if err != nil {
			// Orphaned objects are better than a failed deletion
			slog.Warn("failed to delete user files from storage", "user_id", userID, "error", err)
		}
	}

	// Foreign key CASCADE removes profiles, thoughts, missions, goals, visions, invites and file records
	err = s.userRepository.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if s.emailService != nil {
		err = s.emailService.SendAccountDeletedEmail(ctx, user.Email)
		if err != nil {
			slog.Warn("failed to send account deleted email", "user_id", userID, "error", err)
		}
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
