package repositories

import (
	"errors"

	"transport_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(db *gorm.DB, booking *models.Booking) error
	FindByIDAndCustomer(db *gorm.DB, id, customerID string) (*models.Booking, error)
	FindByCustomer(db *gorm.DB, customerID string, limit, offset int) ([]models.Booking, int64, error)
	DeleteByIDAndCustomer(db *gorm.DB, id, customerID string) error
}

type BookingRepositoryImpl struct{}

func NewBookingRepository() BookingRepository {
	return &BookingRepositoryImpl{}
}

func (r *BookingRepositoryImpl) Create(db *gorm.DB, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentStatusUnpaid
	}
	return db.Create(booking).Error
}

func (r *BookingRepositoryImpl) FindByIDAndCustomer(db *gorm.DB, id, customerID string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Where("id = ? AND customer_id = ?", id, customerID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) FindByCustomer(db *gorm.DB, customerID string, limit, offset int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	query := db.Model(&models.Booking{}).Where("customer_id = ?", customerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&bookings).Error
	return bookings, total, err
}

func (r *BookingRepositoryImpl) DeleteByIDAndCustomer(db *gorm.DB, id, customerID string) error {
	result := db.Where("id = ? AND customer_id = ?", id, customerID).Delete(&models.Booking{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
