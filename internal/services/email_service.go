package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"transport_backend/internal/email"
	"transport_backend/pkg/apperrors"
)

const (
	subjectOTP           = "Your OTP for Verification"
	subjectPasswordReset = "Reset Your Password"
)

// EmailService - письма приложения поверх провайдера и очереди
type EmailService interface {
	// SendOTPEmail отправляет код синхронно с коротким повтором
	SendOTPEmail(ctx context.Context, to, otp string, expiresIn time.Duration) error
	// QueuePasswordResetEmail ставит письмо в очередь диспетчера
	QueuePasswordResetEmail(ctx context.Context, to, userName, token string, expiresIn time.Duration) error
}

type emailService struct {
	provider     email.Provider
	dispatcher   *email.Dispatcher
	templates    email.TemplateRenderer
	otpPolicy    email.RetryPolicy
	appName      string
	clientOrigin string
}

func NewEmailService(
	provider email.Provider,
	dispatcher *email.Dispatcher,
	templates email.TemplateRenderer,
	appName, clientOrigin string,
) EmailService {
	return &emailService{
		provider:   provider,
		dispatcher: dispatcher,
		templates:  templates,
		otpPolicy: email.RetryPolicy{
			MaxTries:        3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     time.Second,
		},
		appName:      appName,
		clientOrigin: clientOrigin,
	}
}

func (s *emailService) SendOTPEmail(ctx context.Context, to, otp string, expiresIn time.Duration) error {
	msg := &email.Email{
		To:      []string{to},
		Subject: subjectOTP,
		Body:    fmt.Sprintf("Your verification OTP is: %s", otp),
	}

	html, err := s.templates.Render(email.TemplateOTP, email.TemplateData{
		"OTP":       otp,
		"ExpiresIn": humanizeDuration(expiresIn),
		"AppName":   s.appName,
	})
	if err == nil {
		msg.HTMLBody = html
	}

	if err := email.SendWithRetry(ctx, s.provider, msg, s.otpPolicy); err != nil {
		return apperrors.NewExternalServiceError(err, "email", "Failed to send OTP email.")
	}
	return nil
}

func (s *emailService) QueuePasswordResetEmail(ctx context.Context, to, userName, token string, expiresIn time.Duration) error {
	resetURL := s.ResetURL(token, to)

	html, err := s.templates.Render(email.TemplatePasswordReset, email.TemplateData{
		"UserName":  userName,
		"ResetURL":  resetURL,
		"ExpiresIn": humanizeDuration(expiresIn),
		"AppName":   s.appName,
	})
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	return s.dispatcher.Enqueue(&email.Email{
		To:       []string{to},
		Subject:  subjectPasswordReset,
		Body:     fmt.Sprintf("Reset your password: %s", resetURL),
		HTMLBody: html,
	})
}

// ResetURL - {CLIENT_ORIGIN}/reset-password?token=..&email=..
func (s *emailService) ResetURL(token, to string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", to)
	return s.clientOrigin + "/reset-password?" + q.Encode()
}

func humanizeDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
