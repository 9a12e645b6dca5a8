package middleware

import (
	"errors"
	"strings"

	"transport_backend/internal/auth"
	"transport_backend/internal/logger"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/pkg/apperrors"
	"transport_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware пускает дальше только с действующим токеном сессии
// существующего пользователя.
func AuthMiddleware(tokens *auth.TokenService, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			return
		}

		user, err := resolveUser(c, tokens, userRepo, tokenStr)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware прикрепляет пользователя, если токен валиден, но никогда не отклоняет
func OptionalAuthMiddleware(tokens *auth.TokenService, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if user, err := resolveUser(c, tokens, userRepo, tokenStr); err == nil {
				setIdentity(c, user)
			}
		}
		c.Next()
	}
}

// AdminMiddleware - только после AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, _ := c.Get(contextkeys.UserTypeKey)
		if t, ok := userType.(models.UserType); !ok || t != models.UserTypeAdmin {
			apperrors.HandleError(c, apperrors.ErrNotAdmin)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func resolveUser(c *gin.Context, tokens *auth.TokenService, userRepo repositories.UserRepository, tokenStr string) (*models.User, error) {
	userID, err := tokens.VerifySessionToken(tokenStr)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.ErrNotAuthenticated
	}

	db, ok := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
	if !ok {
		return nil, apperrors.InternalError(errors.New("db is not configured"))
	}

	user, err := userRepo.FindByID(db.WithContext(c.Request.Context()), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrAuthUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func setIdentity(c *gin.Context, user *models.User) {
	c.Set(contextkeys.UserIDKey, user.ID)
	c.Set(contextkeys.UserTypeKey, user.Type)
	ctx := logger.WithUserID(c.Request.Context(), user.ID)
	c.Request = c.Request.WithContext(ctx)
}
