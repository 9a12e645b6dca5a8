package repositories

import (
	"errors"

	"transport_backend/internal/models"

	"gorm.io/gorm"
)

var ErrMediaNotFound = errors.New("media not found")

type MediaRepository interface {
	Create(db *gorm.DB, media *models.Media) error
	FindByID(db *gorm.DB, id string) (*models.Media, error)
	// FindByIDs возвращает записи в порядке переданных id, пропуская отсутствующие
	FindByIDs(db *gorm.DB, ids []string) ([]models.Media, error)
	FindByFilename(db *gorm.DB, filename string) (*models.Media, error)
	FindByType(db *gorm.DB, mediaType models.MediaType, limit, offset int) ([]models.Media, int64, error)
	DeleteByIDs(db *gorm.DB, ids []string) (int64, error)
}

type MediaRepositoryImpl struct{}

func NewMediaRepository() MediaRepository {
	return &MediaRepositoryImpl{}
}

func (r *MediaRepositoryImpl) Create(db *gorm.DB, media *models.Media) error {
	return db.Create(media).Error
}

func (r *MediaRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Media, error) {
	var media models.Media
	if err := db.First(&media, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &media, nil
}

func (r *MediaRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Media, error) {
	if len(ids) == 0 {
		return []models.Media{}, nil
	}

	var found []models.Media
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]models.Media, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	result := make([]models.Media, 0, len(found))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *MediaRepositoryImpl) FindByFilename(db *gorm.DB, filename string) (*models.Media, error) {
	var media models.Media
	if err := db.First(&media, "filename = ?", filename).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &media, nil
}

func (r *MediaRepositoryImpl) FindByType(db *gorm.DB, mediaType models.MediaType, limit, offset int) ([]models.Media, int64, error) {
	var items []models.Media
	var total int64

	query := db.Model(&models.Media{}).Where("type = ?", mediaType)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *MediaRepositoryImpl) DeleteByIDs(db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Where("id IN ?", ids).Delete(&models.Media{})
	return result.RowsAffected, result.Error
}
