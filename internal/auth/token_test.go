package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSessionToken_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, 30*time.Minute)

	token, err := svc.IssueSessionToken("user-1")
	require.NoError(t, err)

	userID, err := svc.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSessionToken_Expired(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testSecret, time.Hour, 30*time.Minute).WithClock(fixedClock(start))

	token, err := svc.IssueSessionToken("user-1")
	require.NoError(t, err)

	// Через минуту после истечения
	later := svc.WithClock(fixedClock(start.Add(61 * time.Minute)))
	_, err = later.VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := NewTokenService("other", time.Hour, time.Hour).IssueSessionToken("user-1")
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour, time.Hour).VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := SessionClaims{
		UserID: "user-1",
		Type:   TokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour, time.Hour).VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenTypes_AreNotInterchangeable(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, 30*time.Minute)

	resetToken, err := svc.IssueResetToken("user-1", "a@b.c")
	require.NoError(t, err)
	_, err = svc.VerifySessionToken(resetToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "reset-токен не годится как сессия")

	sessionToken, err := svc.IssueSessionToken("user-1")
	require.NoError(t, err)
	_, err = svc.VerifyResetToken(sessionToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "сессия не годится для сброса пароля")
}

func TestResetToken_ClaimsAndUniqueness(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testSecret, time.Hour, 30*time.Minute).WithClock(fixedClock(start))

	first, err := svc.IssueResetToken("user-1", "a@b.c")
	require.NoError(t, err)
	second, err := svc.IssueResetToken("user-1", "a@b.c")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	claims, err := svc.VerifyResetToken(first)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "a@b.c", claims.Email)
	assert.True(t, claims.Expiry().Equal(start.Add(30*time.Minute)))

	_, err = svc.WithClock(fixedClock(start.Add(31 * time.Minute))).VerifyResetToken(first)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_Garbage(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, time.Hour)
	for _, token := range []string{"", "abc", "a.b.c"} {
		_, err := svc.VerifySessionToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
