package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

// SendAllyInviteEmail tells the invitee someone wants to pair up.
func (s *EmailService) SendAllyInviteEmail(ctx context.Context, email, fromName string) error {
	subject, body := allyInviteEmailTemplate(fromName, s.appURL, s.appName)
	return s.send(ctx, "ally_invite", email, subject, body)
}

// SendAllyConfirmedEmail tells the inviter the invite was accepted.
func (s *EmailService) SendAllyConfirmedEmail(ctx context.Context, email, allyName string) error {
	subject, body := allyConfirmedEmailTemplate(allyName, s.appURL, s.appName)
	return s.send(ctx, "ally_confirmed", email, subject, body)
}

func (s *EmailService) SendAccountDeletedEmail(ctx context.Context, email string) error {
	subject, body := accountDeletedEmailTemplate(s.appName)
	return s.send(ctx, "account_deleted", email, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
