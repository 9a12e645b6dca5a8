package repositories

import (
	"errors"
	"time"

	"transport_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrOneTimeCodeNotFound - кода нет или он истек
var ErrOneTimeCodeNotFound = errors.New("one-time code not found")

// OneTimeCodeRepository хранит ожидающие OTP коды по (channel, address)
type OneTimeCodeRepository interface {
	// Upsert перезаписывает код для адреса без условий (last-write-wins)
	Upsert(db *gorm.DB, code *models.OneTimeCode) error

	// FindActive возвращает неистекший код
	FindActive(db *gorm.DB, channel models.OTPChannel, address string, now time.Time) (*models.OneTimeCode, error)

	// DeleteIfMatch удаляет код, только если он все еще равен ожидаемому.
	// false означает, что код уже был потреблен конкурентно.
	DeleteIfMatch(db *gorm.DB, channel models.OTPChannel, address, code string) (bool, error)

	IncrementAttempts(db *gorm.DB, id string) error

	PurgeExpired(db *gorm.DB, now time.Time) (int64, error)
}

type oneTimeCodeRepository struct{}

func NewOneTimeCodeRepository() OneTimeCodeRepository {
	return &oneTimeCodeRepository{}
}

func (r *oneTimeCodeRepository) Upsert(db *gorm.DB, code *models.OneTimeCode) error {
	code.Attempts = 0
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel"}, {Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "attempts", "updated_at"}),
	}).Create(code).Error
}

func (r *oneTimeCodeRepository) FindActive(db *gorm.DB, channel models.OTPChannel, address string, now time.Time) (*models.OneTimeCode, error) {
	var code models.OneTimeCode
	err := db.Where("channel = ? AND address = ? AND expires_at > ?", channel, address, now).
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOneTimeCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *oneTimeCodeRepository) DeleteIfMatch(db *gorm.DB, channel models.OTPChannel, address, code string) (bool, error) {
	result := db.Where("channel = ? AND address = ? AND code = ?", channel, address, code).
		Delete(&models.OneTimeCode{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *oneTimeCodeRepository) IncrementAttempts(db *gorm.DB, id string) error {
	return db.Model(&models.OneTimeCode{}).Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}

func (r *oneTimeCodeRepository) PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at <= ?", now).Delete(&models.OneTimeCode{})
	return result.RowsAffected, result.Error
}
