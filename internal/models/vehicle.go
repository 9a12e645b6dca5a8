package models

import "gorm.io/datatypes"

type Vehicle struct {
	BaseModel
	OwnerID      string                      `gorm:"type:uuid;not null;index" json:"ownerId"`
	RCNumber     string                      `gorm:"column:rc_number;uniqueIndex;not null" json:"rcNumber"`
	RCPhoto      *string                     `gorm:"column:rc_photo" json:"rcPhoto"`
	ImageIDs     datatypes.JSONSlice[string] `gorm:"column:image_ids" json:"imageIds"`
	VehicleType  string                      `json:"vehicleType"`
	BodyType     string                      `json:"bodyType"`
	Make         string                      `json:"make"`
	Model        string                      `json:"model"`
	Year         int                         `json:"year"`
	LoadCapacity float64                     `json:"loadCapacity"`
	Length       float64                     `json:"length"`
	Height       float64                     `json:"height"`
	Status       VehicleStatus               `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	Images       []Media `gorm:"-" json:"images,omitempty"`
	RCPhotoImage *Media  `gorm:"-" json:"rcPhotoImage,omitempty"`
}
