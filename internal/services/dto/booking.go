package dto

import "time"

type CreateBookingRequest struct {
	FromAddress    string    `json:"fromAddress" validate:"required"`
	FromLatitude   float64   `json:"fromLatitude" validate:"min=-90,max=90"`
	FromLongitude  float64   `json:"fromLongitude" validate:"min=-180,max=180"`
	ToAddress      string    `json:"toAddress" validate:"required"`
	ToLatitude     float64   `json:"toLatitude" validate:"min=-90,max=90"`
	ToLongitude    float64   `json:"toLongitude" validate:"min=-180,max=180"`
	BookingDate    time.Time `json:"bookingDate" validate:"required"`
	TruckType      string    `json:"truckType" validate:"required"`
	BodyType       string    `json:"bodyType"`
	TruckLength    float64   `json:"truckLength" validate:"omitempty,min=0"`
	TruckHeight    float64   `json:"truckHeight" validate:"omitempty,min=0"`
	LoadCapacity   float64   `json:"loadCapacity" validate:"omitempty,min=0"`
	EstimatedKm    float64   `json:"estimatedKm" validate:"omitempty,min=0"`
	EstimatedPrice float64   `json:"estimatedPrice" validate:"omitempty,min=0"`
	DriverNotes    string    `json:"driverNotes"`
}
