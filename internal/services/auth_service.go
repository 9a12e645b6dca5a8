package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"transport_backend/internal/auth"
	"transport_backend/internal/logger"
	"transport_backend/internal/metrics"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services/dto"
	"transport_backend/internal/sms"
	"transport_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// DefaultUnverifiedReclaimAge - через сколько неверифицированный аккаунт можно занять заново
const DefaultUnverifiedReclaimAge = 24 * time.Hour

const (
	msgAccountCreated  = "Your account has been created."
	msgForgotPassword  = "If an account with that email exists, you'll receive a password reset link."
	msgPasswordChanged = "Password has been reset successfully."
)

// dummyHash - сравнение для несуществующего пользователя, чтобы время ответа не выдавало email
var dummyHash, _ = auth.HashPassword("transport-backend-dummy-password")

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, db *gorm.DB, req *dto.SignInRequest) (*dto.AuthResponse, error)

	// SendMobileOTP / SendEmailOTP возвращают выданный код (для dev-режима)
	SendMobileOTP(ctx context.Context, db *gorm.DB, mobile string) (string, error)
	VerifyMobileOTP(ctx context.Context, db *gorm.DB, mobile, otp string) error
	SendEmailOTP(ctx context.Context, db *gorm.DB, email string) (string, error)
	VerifyEmailOTP(ctx context.Context, db *gorm.DB, email, otp string) error

	// ForgotPassword никогда не сообщает, существует ли аккаунт
	ForgotPassword(ctx context.Context, db *gorm.DB, email string) string
	ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) (string, error)
}

type authService struct {
	userRepo      repositories.UserRepository
	usedTokenRepo repositories.UsedTokenRepository
	otpService    OTPService
	emailService  EmailService
	smsSender     sms.Sender
	tokens        *auth.TokenService
	reclaimAge    time.Duration
	now           func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	usedTokenRepo repositories.UsedTokenRepository,
	otpService OTPService,
	emailService EmailService,
	smsSender sms.Sender,
	tokens *auth.TokenService,
	reclaimAge time.Duration,
) AuthService {
	if reclaimAge <= 0 {
		reclaimAge = DefaultUnverifiedReclaimAge
	}
	return &authService{
		userRepo:      userRepo,
		usedTokenRepo: usedTokenRepo,
		otpService:    otpService,
		emailService:  emailService,
		smsSender:     smsSender,
		tokens:        tokens,
		reclaimAge:    reclaimAge,
		now:           time.Now,
	}
}

// =======================
// Регистрация и вход
// =======================

func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		Mobile:       strings.TrimSpace(req.Mobile),
		PasswordHash: hash,
		Type:         models.UserTypeCustomer,
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.reclaimOrConflict(ctx, tx, user.Email, user.Mobile); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailOrMobileExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	token, err := s.tokens.IssueSessionToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID)
	return &dto.AuthResponse{
		Success: true,
		Token:   token,
		User:    dto.NewUserDTO(user),
		Message: msgAccountCreated,
	}, nil
}

func (s *authService) reclaimOrConflict(ctx context.Context, tx *gorm.DB, email, mobile string) error {
	return reclaimOrConflict(ctx, tx, s.userRepo, email, mobile, s.now().Add(-s.reclaimAge))
}

// reclaimOrConflict удаляет брошенные неверифицированные аккаунты с тем же email/mobile.
// Если хоть один конфликтующий аккаунт верифицирован или создан после cutoff, это конфликт.
func reclaimOrConflict(ctx context.Context, tx *gorm.DB, userRepo repositories.UserRepository, email, mobile string, cutoff time.Time) error {
	conflicts, err := userRepo.FindConflicts(tx, email, mobile)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if len(conflicts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(conflicts))
	for _, u := range conflicts {
		if u.IsVerified || u.CreatedAt.After(cutoff) {
			return apperrors.ErrEmailOrMobileExists
		}
		ids = append(ids, u.ID)
	}

	if err := userRepo.DeleteByIDs(tx, ids); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Reclaimed stale unverified accounts", "count", len(ids))
	return nil
}

func (s *authService) SignIn(ctx context.Context, db *gorm.DB, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db.WithContext(ctx), normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
		auth.CheckPasswordHash(req.Password, dummyHash)
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) || !user.IsVerified {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSessionToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Success: true,
		Token:   token,
		User:    dto.NewUserDTO(user),
	}, nil
}

// =======================
// OTP
// =======================

func (s *authService) SendMobileOTP(ctx context.Context, db *gorm.DB, mobile string) (string, error) {
	mobile = strings.TrimSpace(mobile)
	code, err := s.otpService.Issue(ctx, db, models.OTPChannelMobile, mobile)
	if err != nil {
		return "", err
	}

	if err := s.smsSender.Send(ctx, mobile, otpMessage(code)); err != nil {
		return "", apperrors.NewExternalServiceError(err, "sms", "Failed to send OTP SMS.")
	}
	return code, nil
}

func (s *authService) VerifyMobileOTP(ctx context.Context, db *gorm.DB, mobile, otp string) error {
	mobile = strings.TrimSpace(mobile)
	if err := s.otpService.Verify(ctx, db, models.OTPChannelMobile, mobile, otp); err != nil {
		return err
	}

	n, err := s.userRepo.MarkVerifiedByMobile(db.WithContext(ctx), mobile)
	if err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Mobile verified", "users", n)
	return nil
}

func (s *authService) SendEmailOTP(ctx context.Context, db *gorm.DB, email string) (string, error) {
	email = normalizeEmail(email)
	code, err := s.otpService.Issue(ctx, db, models.OTPChannelEmail, email)
	if err != nil {
		return "", err
	}

	if err := s.emailService.SendOTPEmail(ctx, email, code, s.otpService.TTL()); err != nil {
		return "", err
	}
	return code, nil
}

func (s *authService) VerifyEmailOTP(ctx context.Context, db *gorm.DB, email, otp string) error {
	email = normalizeEmail(email)
	if err := s.otpService.Verify(ctx, db, models.OTPChannelEmail, email, otp); err != nil {
		return err
	}

	n, err := s.userRepo.MarkVerifiedByEmail(db.WithContext(ctx), email)
	if err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Email verified", "users", n)
	return nil
}

// =======================
// Сброс пароля
// =======================

func (s *authService) ForgotPassword(ctx context.Context, db *gorm.DB, email string) string {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(db.WithContext(ctx), email)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxWithError(ctx, "forgot-password lookup failed", err)
		}
		return msgForgotPassword
	}

	token, err := s.tokens.IssueResetToken(user.ID, user.Email)
	if err != nil {
		logger.CtxWithError(ctx, "failed to issue reset token", err, "user_id", user.ID)
		return msgForgotPassword
	}

	if err := s.emailService.QueuePasswordResetEmail(ctx, user.Email, user.Name, token, s.tokens.ResetTTL()); err != nil {
		logger.CtxWithError(ctx, "failed to queue reset email", err, "user_id", user.ID)
	}
	return msgForgotPassword
}

func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) (string, error) {
	db = db.WithContext(ctx)

	// 1. Журнал: уже использованный токен отклоняется безусловно
	consumed, err := s.usedTokenRepo.IsConsumed(db, req.Token)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	if consumed {
		metrics.PasswordResetsTotal.WithLabelValues("used").Inc()
		return "", apperrors.ErrResetTokenUsed
	}

	// 2. Подпись и срок
	claims, err := s.tokens.VerifyResetToken(req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			metrics.PasswordResetsTotal.WithLabelValues("expired").Inc()
			return "", apperrors.ErrResetTokenExpired
		}
		metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
		return "", apperrors.ErrResetTokenInvalid
	}

	// 3. Пользователь
	user, err := s.userRepo.FindByID(db, claims.UserID())
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", apperrors.ErrResetUserNotFound
		}
		return "", apperrors.InternalError(err)
	}

	// 4. Хеш до транзакции
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	// 5. Отметка в журнале и смена пароля атомарно
	tx := db.Begin()
	if tx.Error != nil {
		return "", apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	marked, err := s.usedTokenRepo.MarkConsumed(tx, req.Token, claims.Expiry())
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	if !marked {
		metrics.PasswordResetsTotal.WithLabelValues("used").Inc()
		return "", apperrors.ErrResetTokenUsed
	}

	if err := s.userRepo.UpdatePassword(tx, user.ID, hash); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", apperrors.ErrResetUserNotFound
		}
		return "", apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return "", apperrors.InternalError(err)
	}

	metrics.PasswordResetsTotal.WithLabelValues("success").Inc()
	logger.CtxInfo(ctx, "Password reset", "user_id", user.ID)
	return msgPasswordChanged, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func otpMessage(code string) string {
	return fmt.Sprintf("Your verification OTP is: %s", code)
}
