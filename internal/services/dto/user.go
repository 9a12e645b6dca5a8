package dto

import (
	"time"

	"transport_backend/internal/models"
)

// UserDTO - пользователь без хеша пароля
type UserDTO struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Mobile           string          `json:"mobile"`
	Type             models.UserType `json:"type"`
	IsVerified       bool            `json:"isVerified"`
	IsMobileVerified bool            `json:"isMobileVerified"`
	IsEmailVerified  bool            `json:"isEmailVerified"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func NewUserDTO(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Mobile:           u.Mobile,
		Type:             u.Type,
		IsVerified:       u.IsVerified,
		IsMobileVerified: u.IsMobileVerified,
		IsEmailVerified:  u.IsEmailVerified,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func NewUserDTOs(users []models.User) []*UserDTO {
	result := make([]*UserDTO, 0, len(users))
	for i := range users {
		result = append(result, NewUserDTO(&users[i]))
	}
	return result
}

// CreateUserRequest - создание пользователя администратором
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Mobile   string          `json:"mobile" validate:"required,is-mobile"`
	Password string          `json:"password" validate:"required,min=6"`
	Type     models.UserType `json:"type" validate:"omitempty,is-user-type"`
}

// PartialUpdateUserRequest - nil означает "не менять"
type PartialUpdateUserRequest struct {
	Name   *string          `json:"name" validate:"omitempty,min=1"`
	Mobile *string          `json:"mobile" validate:"omitempty,is-mobile"`
	Type   *models.UserType `json:"type" validate:"omitempty,is-user-type"`
}
