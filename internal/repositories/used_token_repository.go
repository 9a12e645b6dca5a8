package repositories

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"transport_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsedTokenRepository - журнал использованных reset-токенов.
// Сам токен не хранится, только его sha256.
type UsedTokenRepository interface {
	// IsConsumed - быстрая проверка повторного использования
	IsConsumed(db *gorm.DB, token string) (bool, error)

	// MarkConsumed атомарно добавляет токен в журнал.
	// false означает, что токен уже был там (победил другой запрос).
	MarkConsumed(db *gorm.DB, token string, expiresAt time.Time) (bool, error)

	// PurgeExpired удаляет записи, чьи токены уже истекли сами по себе
	PurgeExpired(db *gorm.DB, now time.Time) (int64, error)
}

type usedTokenRepository struct{}

func NewUsedTokenRepository() UsedTokenRepository {
	return &usedTokenRepository{}
}

// HashToken - ключ записи журнала
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *usedTokenRepository) IsConsumed(db *gorm.DB, token string) (bool, error) {
	var count int64
	err := db.Model(&models.UsedToken{}).
		Where("token_hash = ?", HashToken(token)).
		Count(&count).Error
	return count > 0, err
}

func (r *usedTokenRepository) MarkConsumed(db *gorm.DB, token string, expiresAt time.Time) (bool, error) {
	row := models.UsedToken{
		TokenHash:  HashToken(token),
		ExpiresAt:  expiresAt,
		ConsumedAt: time.Now(),
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *usedTokenRepository) PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at <= ?", now).Delete(&models.UsedToken{})
	return result.RowsAffected, result.Error
}
