package services_test

import (
	"context"
	"testing"
	"time"

	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services"
	"transport_backend/pkg/apperrors"
	"transport_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wrongCode возвращает код, гарантированно отличный от code
func wrongCode(code string) string {
	last := code[len(code)-1]
	if last == '9' {
		return code[:len(code)-1] + "0"
	}
	return code[:len(code)-1] + string(last+1)
}

func TestOTPService_VerifiesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	svc := services.NewOTPService(repositories.NewOneTimeCodeRepository(), 10*time.Minute)

	code, err := svc.Issue(ctx, db, models.OTPChannelMobile, "+77001234567")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, code)

	require.NoError(t, svc.Verify(ctx, db, models.OTPChannelMobile, "+77001234567", code))

	err = svc.Verify(ctx, db, models.OTPChannelMobile, "+77001234567", code)
	assert.ErrorIs(t, err, apperrors.ErrOTPNotRequestedMobile)
}

func TestOTPService_WrongCodeKeepsOriginalValid(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	svc := services.NewOTPService(repositories.NewOneTimeCodeRepository(), 10*time.Minute)

	code, err := svc.Issue(ctx, db, models.OTPChannelEmail, "a@example.com")
	require.NoError(t, err)

	err = svc.Verify(ctx, db, models.OTPChannelEmail, "a@example.com", wrongCode(code))
	assert.ErrorIs(t, err, apperrors.ErrOTPInvalid)

	assert.NoError(t, svc.Verify(ctx, db, models.OTPChannelEmail, "a@example.com", code))
}

func TestOTPService_ReissueReplacesCode(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	svc := services.NewOTPService(repositories.NewOneTimeCodeRepository(), 10*time.Minute)

	first, err := svc.Issue(ctx, db, models.OTPChannelEmail, "a@example.com")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, db, models.OTPChannelEmail, "a@example.com")
	require.NoError(t, err)

	if first != second {
		err = svc.Verify(ctx, db, models.OTPChannelEmail, "a@example.com", first)
		assert.ErrorIs(t, err, apperrors.ErrOTPInvalid)
	}
	assert.NoError(t, svc.Verify(ctx, db, models.OTPChannelEmail, "a@example.com", second))
}

func TestOTPService_Expired(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	repo := repositories.NewOneTimeCodeRepository()

	now := time.Now()
	issuer := services.NewOTPServiceWithClock(repo, 10*time.Minute, func() time.Time { return now })
	code, err := issuer.Issue(ctx, db, models.OTPChannelMobile, "+77001234567")
	require.NoError(t, err)

	later := services.NewOTPServiceWithClock(repo, 10*time.Minute, func() time.Time { return now.Add(11 * time.Minute) })
	err = later.Verify(ctx, db, models.OTPChannelMobile, "+77001234567", code)
	assert.ErrorIs(t, err, apperrors.ErrOTPNotRequestedMobile)
}

func TestOTPService_NeverRequested(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := services.NewOTPService(repositories.NewOneTimeCodeRepository(), 0)

	err := svc.Verify(context.Background(), db, models.OTPChannelEmail, "x@example.com", "123456")
	assert.ErrorIs(t, err, apperrors.ErrOTPNotRequestedEmail)
	assert.Equal(t, services.DefaultOTPTTL, svc.TTL())
}
