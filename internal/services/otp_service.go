package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"transport_backend/internal/logger"
	"transport_backend/internal/metrics"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// DefaultOTPTTL - время жизни одноразового кода
const DefaultOTPTTL = 10 * time.Minute

var otpSpace = big.NewInt(1_000_000)

// OTPService выдает и проверяет 6-значные коды для (channel, address)
type OTPService interface {
	Issue(ctx context.Context, db *gorm.DB, channel models.OTPChannel, address string) (string, error)
	Verify(ctx context.Context, db *gorm.DB, channel models.OTPChannel, address, code string) error
	TTL() time.Duration
}

type otpService struct {
	codeRepo repositories.OneTimeCodeRepository
	ttl      time.Duration
	now      func() time.Time
}

func NewOTPService(codeRepo repositories.OneTimeCodeRepository, ttl time.Duration) OTPService {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &otpService{
		codeRepo: codeRepo,
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewOTPServiceWithClock - для тестов истечения
func NewOTPServiceWithClock(codeRepo repositories.OneTimeCodeRepository, ttl time.Duration, now func() time.Time) OTPService {
	s := NewOTPService(codeRepo, ttl).(*otpService)
	s.now = now
	return s
}

func (s *otpService) TTL() time.Duration { return s.ttl }

func (s *otpService) Issue(ctx context.Context, db *gorm.DB, channel models.OTPChannel, address string) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	row := &models.OneTimeCode{
		Channel:   channel,
		Address:   address,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.codeRepo.Upsert(db.WithContext(ctx), row); err != nil {
		return "", apperrors.InternalError(err)
	}

	metrics.OTPIssuedTotal.WithLabelValues(string(channel)).Inc()
	return code, nil
}

func (s *otpService) Verify(ctx context.Context, db *gorm.DB, channel models.OTPChannel, address, code string) error {
	db = db.WithContext(ctx)
	notRequested := otpNotRequestedError(channel)

	pending, err := s.codeRepo.FindActive(db, channel, address, s.now())
	if err != nil {
		if apperrors.Is(err, repositories.ErrOneTimeCodeNotFound) {
			return notRequested
		}
		return apperrors.InternalError(err)
	}

	if subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		if err := s.codeRepo.IncrementAttempts(db, pending.ID); err != nil {
			logger.CtxWithError(ctx, "failed to increment otp attempts", err, "channel", channel)
		}
		return apperrors.ErrOTPInvalid
	}

	// Удаление условное: конкурентный верификатор мог успеть раньше
	deleted, err := s.codeRepo.DeleteIfMatch(db, channel, address, pending.Code)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !deleted {
		return notRequested
	}
	return nil
}

func otpNotRequestedError(channel models.OTPChannel) *apperrors.AppError {
	if channel == models.OTPChannelEmail {
		return apperrors.ErrOTPNotRequestedEmail
	}
	return apperrors.ErrOTPNotRequestedMobile
}

// generateOTP - равномерно в [0, 10^6), с ведущими нулями
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
