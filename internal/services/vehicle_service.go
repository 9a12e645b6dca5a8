package services

import (
	"context"
	"errors"

	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services/dto"
	"transport_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VehicleService - транспорт водителя, все операции ограничены владельцем
type VehicleService interface {
	ListVehicles(ctx context.Context, db *gorm.DB, ownerID string, page dto.PageRequest) (*dto.Page[models.Vehicle], error)
	GetVehicle(ctx context.Context, db *gorm.DB, ownerID, vehicleID string) (*models.Vehicle, error)
	RegisterVehicle(ctx context.Context, db *gorm.DB, ownerID string, req *dto.CreateVehicleRequest) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, db *gorm.DB, ownerID, vehicleID string, req *dto.UpdateVehicleRequest) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, db *gorm.DB, ownerID, vehicleID string) error
}

type vehicleService struct {
	vehicleRepo   repositories.VehicleRepository
	uploadService UploadService
}

func NewVehicleService(vehicleRepo repositories.VehicleRepository, uploadService UploadService) VehicleService {
	return &vehicleService{
		vehicleRepo:   vehicleRepo,
		uploadService: uploadService,
	}
}

func (s *vehicleService) ListVehicles(ctx context.Context, db *gorm.DB, ownerID string, page dto.PageRequest) (*dto.Page[models.Vehicle], error) {
	page = page.Normalize()
	vehicles, total, err := s.vehicleRepo.FindByOwner(db.WithContext(ctx), ownerID, page.Limit, page.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.Page[models.Vehicle]{
		Items:      vehicles,
		Pagination: dto.NewPagination(page, total),
	}, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, db *gorm.DB, ownerID, vehicleID string) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByIDAndOwner(db.WithContext(ctx), vehicleID, ownerID)
	if err != nil {
		return nil, mapVehicleError(err)
	}
	if err := s.attachMedia(ctx, db, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) RegisterVehicle(ctx context.Context, db *gorm.DB, ownerID string, req *dto.CreateVehicleRequest) (*models.Vehicle, error) {
	db = db.WithContext(ctx)

	exists, err := s.vehicleRepo.ExistsByRCNumber(db, req.RCNumber)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrVehicleRCExists
	}

	imageIDs := datatypes.JSONSlice[string](req.ImageIDs)
	if imageIDs == nil {
		imageIDs = datatypes.JSONSlice[string]{}
	}

	vehicle := &models.Vehicle{
		OwnerID:      ownerID,
		RCNumber:     req.RCNumber,
		RCPhoto:      req.RCPhoto,
		ImageIDs:     imageIDs,
		VehicleType:  req.VehicleType,
		BodyType:     req.BodyType,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LoadCapacity: req.LoadCapacity,
		Length:       req.Length,
		Height:       req.Height,
		Status:       models.VehicleStatusPending,
	}

	// Уникальный индекс ловит гонку между проверкой и вставкой
	if err := s.vehicleRepo.Create(db, vehicle); err != nil {
		return nil, mapVehicleError(err)
	}
	return vehicle, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, db *gorm.DB, ownerID, vehicleID string, req *dto.UpdateVehicleRequest) (*models.Vehicle, error) {
	db = db.WithContext(ctx)

	vehicle, err := s.vehicleRepo.FindByIDAndOwner(db, vehicleID, ownerID)
	if err != nil {
		return nil, mapVehicleError(err)
	}

	if req.RCNumber != nil && *req.RCNumber != vehicle.RCNumber {
		exists, err := s.vehicleRepo.ExistsByRCNumber(db, *req.RCNumber)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if exists {
			return nil, apperrors.ErrVehicleRCExists
		}
		vehicle.RCNumber = *req.RCNumber
	}

	// null rcPhoto и пустой imageIds сохраняют текущие значения
	if req.RCPhoto != nil {
		vehicle.RCPhoto = req.RCPhoto
	}
	if len(req.ImageIDs) > 0 {
		vehicle.ImageIDs = datatypes.JSONSlice[string](req.ImageIDs)
	}

	applyString(&vehicle.VehicleType, req.VehicleType)
	applyString(&vehicle.BodyType, req.BodyType)
	applyString(&vehicle.Make, req.Make)
	applyString(&vehicle.Model, req.Model)
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.LoadCapacity != nil {
		vehicle.LoadCapacity = *req.LoadCapacity
	}
	if req.Length != nil {
		vehicle.Length = *req.Length
	}
	if req.Height != nil {
		vehicle.Height = *req.Height
	}

	if err := s.vehicleRepo.Save(db, vehicle); err != nil {
		return nil, mapVehicleError(err)
	}
	if err := s.attachMedia(ctx, db, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, db *gorm.DB, ownerID, vehicleID string) error {
	if err := s.vehicleRepo.DeleteByIDAndOwner(db.WithContext(ctx), vehicleID, ownerID); err != nil {
		return mapVehicleError(err)
	}
	return nil
}

func (s *vehicleService) attachMedia(ctx context.Context, db *gorm.DB, vehicle *models.Vehicle) error {
	images, err := s.uploadService.ResolveMedia(ctx, db, vehicle.ImageIDs)
	if err != nil {
		return err
	}
	vehicle.Images = images

	vehicle.RCPhotoImage = nil
	if vehicle.RCPhoto != nil && *vehicle.RCPhoto != "" {
		rc, err := s.uploadService.ResolveMedia(ctx, db, []string{*vehicle.RCPhoto})
		if err != nil {
			return err
		}
		if len(rc) == 1 {
			vehicle.RCPhotoImage = &rc[0]
		}
	}
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func mapVehicleError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrVehicleNotFound):
		return apperrors.ErrVehicleNotFound
	case errors.Is(err, repositories.ErrVehicleRCExists):
		return apperrors.ErrVehicleRCExists
	default:
		return apperrors.InternalError(err)
	}
}
