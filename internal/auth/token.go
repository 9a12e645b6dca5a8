package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken - подпись, формат, алгоритм или тип токена не подходят.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken - подпись верна, но exp в прошлом.
	ErrExpiredToken = errors.New("token expired")
)

const (
	TokenTypeSession = "session"
	TokenTypeReset   = "reset"
)

// SessionClaims - claims токена сессии.
type SessionClaims struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// ResetClaims - claims одноразового токена сброса пароля.
type ResetClaims struct {
	Email string `json:"email"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// UserID возвращает subject токена сброса.
func (c *ResetClaims) UserID() string {
	return c.Subject
}

// Expiry - момент истечения (нужен журналу использованных токенов).
func (c *ResetClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenService выпускает и проверяет HS256 токены.
// Сессионные и reset-токены подписываются одним секретом,
// поэтому тип обязательно сверяется при проверке.
type TokenService struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, sessionTTL, resetTTL time.Duration) *TokenService {
	if sessionTTL <= 0 {
		sessionTTL = 60 * time.Minute
	}
	if resetTTL <= 0 {
		resetTTL = 30 * time.Minute
	}
	return &TokenService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

// WithClock подменяет часы (для тестов истечения).
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *TokenService) SessionTTL() time.Duration { return s.sessionTTL }

func (s *TokenService) ResetTTL() time.Duration { return s.resetTTL }

// IssueSessionToken выпускает токен сессии для userID.
func (s *TokenService) IssueSessionToken(userID string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: userID,
		Type:   TokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}
	return s.sign(claims)
}

// VerifySessionToken возвращает userID или ErrInvalidToken / ErrExpiredToken.
func (s *TokenService) VerifySessionToken(tokenStr string) (string, error) {
	var claims SessionClaims
	if err := s.parse(tokenStr, &claims); err != nil {
		return "", err
	}
	if claims.Type != TokenTypeSession {
		return "", ErrInvalidToken
	}

	userID := claims.Subject
	if userID == "" {
		userID = claims.UserID
	}
	if userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// IssueResetToken выпускает токен сброса пароля.
// jti делает каждый токен уникальным даже в пределах одной секунды.
func (s *TokenService) IssueResetToken(userID, email string) (string, error) {
	now := s.now()
	claims := ResetClaims{
		Email: email,
		Type:  TokenTypeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTTL)),
		},
	}
	return s.sign(claims)
}

// VerifyResetToken возвращает claims или ErrInvalidToken / ErrExpiredToken.
func (s *TokenService) VerifyResetToken(tokenStr string) (*ResetClaims, error) {
	var claims ResetClaims
	if err := s.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeReset || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (s *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(tokenStr string, claims jwt.Claims) error {
	if tokenStr == "" {
		return ErrInvalidToken
	}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return mapJWTError(err)
	}
	return nil
}

// mapJWTError сводит ошибки библиотеки к двум различимым вариантам.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	return ErrInvalidToken
}
