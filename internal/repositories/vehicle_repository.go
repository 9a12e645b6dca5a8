package repositories

import (
	"errors"

	"transport_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrVehicleRCExists = errors.New("vehicle rc number already exists")
)

type VehicleRepository interface {
	Create(db *gorm.DB, vehicle *models.Vehicle) error
	ExistsByRCNumber(db *gorm.DB, rcNumber string) (bool, error)
	FindByIDAndOwner(db *gorm.DB, id, ownerID string) (*models.Vehicle, error)
	FindByOwner(db *gorm.DB, ownerID string, limit, offset int) ([]models.Vehicle, int64, error)
	Save(db *gorm.DB, vehicle *models.Vehicle) error
	DeleteByIDAndOwner(db *gorm.DB, id, ownerID string) error
}

type VehicleRepositoryImpl struct{}

func NewVehicleRepository() VehicleRepository {
	return &VehicleRepositoryImpl{}
}

func (r *VehicleRepositoryImpl) Create(db *gorm.DB, vehicle *models.Vehicle) error {
	err := db.Create(vehicle).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrVehicleRCExists
	}
	return err
}

func (r *VehicleRepositoryImpl) ExistsByRCNumber(db *gorm.DB, rcNumber string) (bool, error) {
	var count int64
	err := db.Model(&models.Vehicle{}).Where("rc_number = ?", rcNumber).Count(&count).Error
	return count > 0, err
}

func (r *VehicleRepositoryImpl) FindByIDAndOwner(db *gorm.DB, id, ownerID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepositoryImpl) FindByOwner(db *gorm.DB, ownerID string, limit, offset int) ([]models.Vehicle, int64, error) {
	var vehicles []models.Vehicle
	var total int64

	query := db.Model(&models.Vehicle{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&vehicles).Error
	return vehicles, total, err
}

func (r *VehicleRepositoryImpl) Save(db *gorm.DB, vehicle *models.Vehicle) error {
	err := db.Save(vehicle).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrVehicleRCExists
	}
	return err
}

func (r *VehicleRepositoryImpl) DeleteByIDAndOwner(db *gorm.DB, id, ownerID string) error {
	result := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Vehicle{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}
