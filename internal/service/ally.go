package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/validation"
)

var (
	ErrAllyNotFound   = errors.New("no account found for that email")
	ErrSelfInvite     = errors.New("you cannot invite yourself")
	ErrAlreadyAllied  = errors.New("one of you already has an ally")
	ErrNotAllied      = errors.New("you have no ally")
	ErrInviteExpired  = errors.New("this invite has expired")
	ErrInviteNotFound = errors.New("invite not found")
)

// AllyService manages the single reciprocal pairing between two accounts.
type AllyService struct {
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	inviteRepo   repository.AllyInviteRepository
	emailService *EmailService
	events       EventPublisher
	inviteExpiry time.Duration
}

func NewAllyService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	inviteRepo repository.AllyInviteRepository,
	emailService *EmailService,
	events EventPublisher,
	inviteExpiry time.Duration,
) *AllyService {
	return &AllyService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		inviteRepo:   inviteRepo,
		emailService: emailService,
		events:       publisherOrNop(events),
		inviteExpiry: inviteExpiry,
	}
}

// SetPublisher swaps the event sink. The broker resolves audiences through
// this service, so it is wired after construction.
func (s *AllyService) SetPublisher(events EventPublisher) {
	s.events = publisherOrNop(events)
}

// PartnerOf returns the ally's user ID, or "" when unpaired.
func (s *AllyService) PartnerOf(userID string) (string, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return "", nil
		}
		return "", err
	}
	return profile.Partner(), nil
}

// SendInvite asks the account behind email to become the caller's ally.
// A new invite replaces any open one between the same two accounts.
func (s *AllyService) SendInvite(ctx context.Context, fromUserID, email string) (*model.AllyInvite, error) {
	email = validation.NormalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}

	to, err := s.userRepo.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAllyNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if to.ID == fromUserID {
		return nil, ErrSelfInvite
	}

	from, err := s.profileRepo.ByUserID(fromUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.profileRepo.ByUserID(to.ID)
	if err != nil {
		return nil, err
	}
	if from.HasPartner() || target.HasPartner() {
		return nil, ErrAlreadyAllied
	}

	err = s.inviteRepo.DeletePendingBetween(fromUserID, to.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear old invites: %w", err)
	}

	invite := &model.AllyInvite{
		FromUserID: fromUserID,
		ToUserID:   to.ID,
	}
	err = s.inviteRepo.Create(invite)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	if s.emailService != nil {
		err = s.emailService.SendAllyInviteEmail(ctx, to.Email, from.Name)
		if err != nil {
			slog.Warn("failed to send ally invite email", "invite_id", invite.ID, "error", err)
		}
	}

	slog.Info("ally invite sent", "invite_id", invite.ID, "from_user_id", fromUserID, "to_user_id", to.ID)
	return invite, nil
}

// Pending returns unexpired invites addressed to the user.
func (s *AllyService) Pending(userID string) ([]model.AllyInvite, error) {
	invites, err := s.inviteRepo.Pending(userID)
	if err != nil {
		return nil, err
	}

	open := make([]model.AllyInvite, 0, len(invites))
	for _, invite := range invites {
		if !invite.IsExpired(s.inviteExpiry) {
			open = append(open, invite)
		}
	}
	return open, nil
}

// Confirm accepts an invite addressed to the user and links both profiles.
func (s *AllyService) Confirm(ctx context.Context, userID, inviteID string) error {
	invite, err := s.inviteRepo.ByID(inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return err
	}
	if invite.ToUserID != userID || invite.Status != model.InviteStatusPending {
		return ErrInviteNotFound
	}
	if invite.IsExpired(s.inviteExpiry) {
		return ErrInviteExpired
	}

	fromOld, err := s.profileRepo.ByUserID(invite.FromUserID)
	if err != nil {
		return err
	}
	toOld, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return err
	}

	err = record(model.TableProfiles, "link", s.profileRepo.Link(invite.FromUserID, userID))
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyPaired) {
			return ErrAlreadyAllied
		}
		return fmt.Errorf("failed to link profiles: %w", err)
	}

	err = s.inviteRepo.SetStatus(invite.ID, model.InviteStatusAccepted)
	if err != nil {
		slog.Warn("failed to mark invite accepted", "invite_id", invite.ID, "error", err)
	}

	s.publishLink(ctx, fromOld, toOld, &userID, &invite.FromUserID)

	if s.emailService != nil {
		from, err := s.userRepo.ByID(invite.FromUserID)
		if err == nil {
			err = s.emailService.SendAllyConfirmedEmail(ctx, from.Email, toOld.Name)
		}
		if err != nil {
			slog.Warn("failed to send ally confirmed email", "invite_id", invite.ID, "error", err)
		}
	}

	slog.Info("alliance confirmed", "user_id", userID, "ally_id", invite.FromUserID)
	return nil
}

// Sever ends the alliance for both sides.
func (s *AllyService) Sever(ctx context.Context, userID string) error {
	self, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return err
	}
	if !self.HasPartner() {
		return ErrNotAllied
	}
	other, err := s.profileRepo.ByUserID(self.Partner())
	if err != nil {
		return err
	}

	formerID, err := s.profileRepo.Unlink(userID)
	if err = record(model.TableProfiles, "unlink", err); err != nil {
		return fmt.Errorf("failed to unlink profiles: %w", err)
	}
	if formerID == "" {
		return ErrNotAllied
	}

	s.publishLink(ctx, self, other, nil, nil)

	slog.Info("alliance severed", "user_id", userID, "ally_id", formerID)
	return nil
}

// publishLink emits the profile change of both sides to both sides, since
// after an unlink neither is the other's audience any more.
func (s *AllyService) publishLink(ctx context.Context, a, b *model.Profile, aPartner, bPartner *string) {
	recipients := []string{a.UserID, b.UserID}
	now := time.Now().UTC()

	newA := *a
	newA.PartnerID = aPartner
	newA.UpdatedAt = now
	publishTo(ctx, s.events, recipients, model.TableProfiles, model.EventUpdate, newA, a)

	newB := *b
	newB.PartnerID = bPartner
	newB.UpdatedAt = now
	publishTo(ctx, s.events, recipients, model.TableProfiles, model.EventUpdate, newB, b)
}
