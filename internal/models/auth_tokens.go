package models

import "time"

// OneTimeCode - ожидающий подтверждения код для (channel, address).
type OneTimeCode struct {
	BaseModel
	Channel   OTPChannel `gorm:"type:varchar(10);not null;uniqueIndex:idx_otp_channel_address"`
	Address   string     `gorm:"not null;uniqueIndex:idx_otp_channel_address"`
	Code      string     `gorm:"type:varchar(6);not null"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	Attempts  int        `gorm:"not null;default:0"`
}

// UsedToken - запись журнала использованных reset-токенов.
// Хранится только sha256 от токена.
type UsedToken struct {
	TokenHash  string    `gorm:"type:varchar(64);primaryKey"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	ConsumedAt time.Time `gorm:"not null"`
}
