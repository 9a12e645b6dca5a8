package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate генерирует uuid на стороне приложения,
// чтобы не зависеть от uuid_generate_v4() в конкретной БД.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// All - список моделей для миграций (goose) и тестовой БД.
func All() []interface{} {
	return []interface{}{
		&User{},
		&OneTimeCode{},
		&UsedToken{},
		&Media{},
		&Post{},
		&Vehicle{},
		&Booking{},
		&Notification{},
	}
}
