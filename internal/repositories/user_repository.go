package repositories

import (
	"errors"
	"time"

	"transport_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	// FindConflicts - все пользователи с таким email ИЛИ mobile (одним запросом)
	FindConflicts(db *gorm.DB, email, mobile string) ([]models.User, error)
	Create(db *gorm.DB, user *models.User) error
	UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error
	UpdatePassword(db *gorm.DB, id, passwordHash string) error
	DeleteByIDs(db *gorm.DB, ids []string) error

	MarkVerifiedByEmail(db *gorm.DB, email string) (int64, error)
	MarkVerifiedByMobile(db *gorm.DB, mobile string) (int64, error)
	FindVerifiedDriverIDs(db *gorm.DB) ([]string, error)

	FindAll(db *gorm.DB, limit, offset int) ([]models.User, int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindConflicts(db *gorm.DB, email, mobile string) ([]models.User, error) {
	var users []models.User
	err := db.Where("email = ? OR mobile = ?", email, mobile).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	err := db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepositoryImpl) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePassword(db *gorm.DB, id, passwordHash string) error {
	return r.UpdateFields(db, id, map[string]interface{}{
		"password_hash": passwordHash,
	})
}

func (r *UserRepositoryImpl) DeleteByIDs(db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Where("id IN ?", ids).Delete(&models.User{}).Error
}

// MarkVerifiedByEmail помечает верифицированными всех пользователей с этим email
func (r *UserRepositoryImpl) MarkVerifiedByEmail(db *gorm.DB, email string) (int64, error) {
	result := db.Model(&models.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"is_verified":       true,
		"is_email_verified": true,
		"updated_at":        time.Now(),
	})
	return result.RowsAffected, result.Error
}

// MarkVerifiedByMobile помечает верифицированными всех пользователей с этим номером
func (r *UserRepositoryImpl) MarkVerifiedByMobile(db *gorm.DB, mobile string) (int64, error) {
	result := db.Model(&models.User{}).Where("mobile = ?", mobile).Updates(map[string]interface{}{
		"is_verified":        true,
		"is_mobile_verified": true,
		"updated_at":         time.Now(),
	})
	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) FindVerifiedDriverIDs(db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.Model(&models.User{}).
		Where("type = ? AND is_verified = ?", models.UserTypeDriver, true).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *UserRepositoryImpl) FindAll(db *gorm.DB, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}
