package models

type Media struct {
	BaseModel
	UserID       *string   `gorm:"type:uuid;index" json:"userId,omitempty"`
	Type         MediaType `gorm:"type:varchar(10);not null;index" json:"type"`
	URL          string    `gorm:"not null" json:"url"`
	Filename     string    `gorm:"not null;uniqueIndex" json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
}

func (Media) TableName() string { return "media" }
