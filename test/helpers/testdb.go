package helpers

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"transport_backend/database"
	"transport_backend/internal/auth"
	"transport_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewTestDB открывает отдельную in-memory sqlite базу с теми же моделями,
// что и миграция goose.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(gormlogger.Silent))
	require.NoError(t, err, "не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Одна in-memory база на соединение
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "AutoMigrate для тестовой БД")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// UserOption меняет пользователя перед сохранением
type UserOption func(*models.User)

func WithType(userType models.UserType) UserOption {
	return func(u *models.User) { u.Type = userType }
}

func Unverified() UserOption {
	return func(u *models.User) {
		u.IsVerified = false
		u.IsEmailVerified = false
		u.IsMobileVerified = false
	}
}

func WithMobile(mobile string) UserOption {
	return func(u *models.User) { u.Mobile = mobile }
}

// CreateUser создает верифицированного пользователя с паролем password.
// Email и телефон уникальны в пределах теста.
func CreateUser(t *testing.T, db *gorm.DB, email, password string, opts ...UserOption) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err, "не удалось хешировать пароль")

	user := &models.User{
		Name:             "Test User",
		Email:            email,
		Mobile:           fmt.Sprintf("+7700%07d", dbSeq.Add(1)),
		PasswordHash:     hash,
		Type:             models.UserTypeCustomer,
		IsVerified:       true,
		IsEmailVerified:  true,
		IsMobileVerified: true,
	}
	for _, opt := range opts {
		opt(user)
	}

	require.NoError(t, db.Create(user).Error, "не удалось создать пользователя %s", email)
	return user
}
