package models

import "time"

type Booking struct {
	BaseModel
	CustomerID     string        `gorm:"type:uuid;not null;index" json:"customerId"`
	FromAddress    string        `gorm:"not null" json:"fromAddress"`
	FromLatitude   float64       `json:"fromLatitude"`
	FromLongitude  float64       `json:"fromLongitude"`
	ToAddress      string        `gorm:"not null" json:"toAddress"`
	ToLatitude     float64       `json:"toLatitude"`
	ToLongitude    float64       `json:"toLongitude"`
	BookingDate    time.Time     `json:"bookingDate"`
	TruckType      string        `json:"truckType"`
	BodyType       string        `json:"bodyType"`
	TruckLength    float64       `json:"truckLength"`
	TruckHeight    float64       `json:"truckHeight"`
	LoadCapacity   float64       `json:"loadCapacity"`
	EstimatedKm    float64       `json:"estimatedKm"`
	EstimatedPrice float64       `json:"estimatedPrice"`
	DriverNotes    string        `gorm:"type:text" json:"driverNotes"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;default:'Unpaid'" json:"paymentStatus"`
}
