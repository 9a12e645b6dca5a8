package models

import "gorm.io/datatypes"

type Post struct {
	BaseModel
	UserID   string                      `gorm:"type:uuid;not null;index" json:"userId"`
	Title    string                      `gorm:"not null" json:"title"`
	Content  string                      `gorm:"type:text;not null" json:"content"`
	ImageIDs datatypes.JSONSlice[string] `gorm:"column:image_ids" json:"imageIds"`
	Likes    datatypes.JSONSlice[string] `gorm:"column:likes" json:"likes"`
	IsActive bool                        `gorm:"not null;default:true;index" json:"isActive"`

	Images []Media `gorm:"-" json:"images,omitempty"`
}
