package database_test

import (
	"testing"

	"transport_backend/database"
	"transport_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormConfig_TranslatesUniqueViolations(t *testing.T) {
	cfg := database.GormConfig(gormlogger.Silent)
	assert.True(t, cfg.TranslateError)

	db, err := gorm.Open(sqlite.Open("file:gorm_config?mode=memory&cache=shared"), cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	first := &models.User{Name: "A", Email: "a@example.com", Mobile: "+77001112233", PasswordHash: "x", Type: models.UserTypeCustomer}
	require.NoError(t, db.Create(first).Error)

	err = db.Create(&models.User{Name: "B", Email: "b@example.com", Mobile: "+77001112233", PasswordHash: "x", Type: models.UserTypeCustomer}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
