package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"transport_backend/internal/auth"
	"transport_backend/internal/logger"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services/dto"
	"transport_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.UserDTO, error)
	ListUsers(ctx context.Context, db *gorm.DB, page dto.PageRequest) (*dto.Page[*dto.UserDTO], error)
	// CreateUser - создание администратором, пользователь сразу верифицирован
	CreateUser(ctx context.Context, db *gorm.DB, req *dto.CreateUserRequest) (*dto.UserDTO, error)
	PartialUpdate(ctx context.Context, db *gorm.DB, actor Actor, targetID string, req *dto.PartialUpdateUserRequest) (*dto.UserDTO, error)
}

// Actor - аутентифицированный вызывающий
type Actor struct {
	ID   string
	Type models.UserType
}

type userService struct {
	userRepo   repositories.UserRepository
	reclaimAge time.Duration
}

func NewUserService(userRepo repositories.UserRepository, reclaimAge time.Duration) UserService {
	if reclaimAge <= 0 {
		reclaimAge = DefaultUnverifiedReclaimAge
	}
	return &userService{
		userRepo:   userRepo,
		reclaimAge: reclaimAge,
	}
}

func (s *userService) GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db.WithContext(ctx), userID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return dto.NewUserDTO(user), nil
}

func (s *userService) ListUsers(ctx context.Context, db *gorm.DB, page dto.PageRequest) (*dto.Page[*dto.UserDTO], error) {
	page = page.Normalize()
	users, total, err := s.userRepo.FindAll(db.WithContext(ctx), page.Limit, page.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.Page[*dto.UserDTO]{
		Items:      dto.NewUserDTOs(users),
		Pagination: dto.NewPagination(page, total),
	}, nil
}

func (s *userService) CreateUser(ctx context.Context, db *gorm.DB, req *dto.CreateUserRequest) (*dto.UserDTO, error) {
	userType := req.Type
	if userType == "" {
		userType = models.UserTypeCustomer
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            normalizeEmail(req.Email),
		Mobile:           strings.TrimSpace(req.Mobile),
		PasswordHash:     hash,
		Type:             userType,
		IsVerified:       true,
		IsEmailVerified:  true,
		IsMobileVerified: true,
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := reclaimOrConflict(ctx, tx, s.userRepo, user.Email, user.Mobile, time.Now().Add(-s.reclaimAge)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailOrMobileExists
		}
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User created by admin", "created_user_id", user.ID, "type", user.Type)
	return dto.NewUserDTO(user), nil
}

func (s *userService) PartialUpdate(ctx context.Context, db *gorm.DB, actor Actor, targetID string, req *dto.PartialUpdateUserRequest) (*dto.UserDTO, error) {
	if !auth.CanUpdateUser(actor.ID, actor.Type, targetID) {
		return nil, apperrors.ErrUserUpdateForbidden
	}
	if req.Type != nil && !auth.HasPermission(actor.Type, auth.PermUsersSetType) {
		return nil, apperrors.ErrUserUpdateForbidden
	}

	db = db.WithContext(ctx)

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Mobile != nil {
		fields["mobile"] = strings.TrimSpace(*req.Mobile)
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(db, targetID, fields); err != nil {
			return nil, mapUserError(err)
		}
	}

	user, err := s.userRepo.FindByID(db, targetID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return dto.NewUserDTO(user), nil
}

func mapUserError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailOrMobileExists
	default:
		return apperrors.InternalError(err)
	}
}
