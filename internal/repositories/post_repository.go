package repositories

import (
	"errors"
	"time"

	"transport_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	Create(db *gorm.DB, post *models.Post) error
	// FindActiveByID - только активные посты, неактивные считаются удаленными
	FindActiveByID(db *gorm.DB, id string) (*models.Post, error)
	FindActive(db *gorm.DB, limit, offset int) ([]models.Post, int64, error)
	FindActiveByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Post, int64, error)
	UpdateContent(db *gorm.DB, post *models.Post) error
	UpdateLikes(db *gorm.DB, id string, likes []string) error
	Deactivate(db *gorm.DB, id string) error
}

type PostRepositoryImpl struct{}

func NewPostRepository() PostRepository {
	return &PostRepositoryImpl{}
}

func (r *PostRepositoryImpl) Create(db *gorm.DB, post *models.Post) error {
	if post.Likes == nil {
		post.Likes = datatypes.JSONSlice[string]{}
	}
	post.IsActive = true
	return db.Create(post).Error
}

func (r *PostRepositoryImpl) FindActiveByID(db *gorm.DB, id string) (*models.Post, error) {
	var post models.Post
	err := db.Where("id = ? AND is_active = ?", id, true).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) FindActive(db *gorm.DB, limit, offset int) ([]models.Post, int64, error) {
	return r.findPage(db.Where("is_active = ?", true), limit, offset)
}

func (r *PostRepositoryImpl) FindActiveByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Post, int64, error) {
	return r.findPage(db.Where("user_id = ? AND is_active = ?", userID, true), limit, offset)
}

func (r *PostRepositoryImpl) findPage(query *gorm.DB, limit, offset int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	if err := query.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, total, err
}

// UpdateContent заменяет title, content и imageIds целиком
func (r *PostRepositoryImpl) UpdateContent(db *gorm.DB, post *models.Post) error {
	result := db.Model(&models.Post{}).
		Where("id = ? AND is_active = ?", post.ID, true).
		Updates(map[string]interface{}{
			"title":      post.Title,
			"content":    post.Content,
			"image_ids":  post.ImageIDs,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepositoryImpl) UpdateLikes(db *gorm.DB, id string, likes []string) error {
	result := db.Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"likes":      datatypes.JSONSlice[string](likes),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Deactivate - мягкое удаление
func (r *PostRepositoryImpl) Deactivate(db *gorm.DB, id string) error {
	result := db.Model(&models.Post{}).Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
