package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string         `gorm:"type:uuid;not null;index" json:"userId"`
	Title   string         `gorm:"not null" json:"title"`
	Message string         `json:"message"`
	Payload datatypes.JSON `json:"payload"` // {"bookingId": "..."}
	IsRead  bool           `gorm:"default:false;index" json:"isRead"`
	ReadAt  *time.Time     `json:"readAt,omitempty"`
}
