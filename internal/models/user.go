package models

type User struct {
	BaseModel
	Name             string   `gorm:"not null" json:"name"`
	Email            string   `gorm:"uniqueIndex;not null" json:"email"`
	Mobile           string   `gorm:"uniqueIndex;not null" json:"mobile"`
	PasswordHash     string   `gorm:"column:password_hash;not null" json:"-"`
	Type             UserType `gorm:"type:varchar(20);not null;default:'customer'" json:"type"`
	IsVerified       bool     `gorm:"default:false" json:"isVerified"`
	IsMobileVerified bool     `gorm:"default:false" json:"isMobileVerified"`
	IsEmailVerified  bool     `gorm:"default:false" json:"isEmailVerified"`
}
