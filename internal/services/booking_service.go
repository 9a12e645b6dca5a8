package services

import (
	"context"
	"errors"

	"transport_backend/internal/logger"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services/dto"
	"transport_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type BookingService interface {
	// CreateBooking сохраняет заказ и оповещает водителей.
	// Сбой оповещения не влияет на результат.
	CreateBooking(ctx context.Context, db *gorm.DB, customerID string, req *dto.CreateBookingRequest) (*models.Booking, error)
	ListMyBookings(ctx context.Context, db *gorm.DB, customerID string, page dto.PageRequest) (*dto.Page[models.Booking], error)
	GetBooking(ctx context.Context, db *gorm.DB, customerID, bookingID string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, db *gorm.DB, customerID, bookingID string) error
}

type bookingService struct {
	bookingRepo         repositories.BookingRepository
	notificationService NotificationService
}

func NewBookingService(bookingRepo repositories.BookingRepository, notificationService NotificationService) BookingService {
	return &bookingService{
		bookingRepo:         bookingRepo,
		notificationService: notificationService,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, db *gorm.DB, customerID string, req *dto.CreateBookingRequest) (*models.Booking, error) {
	booking := &models.Booking{
		CustomerID:     customerID,
		FromAddress:    req.FromAddress,
		FromLatitude:   req.FromLatitude,
		FromLongitude:  req.FromLongitude,
		ToAddress:      req.ToAddress,
		ToLatitude:     req.ToLatitude,
		ToLongitude:    req.ToLongitude,
		BookingDate:    req.BookingDate,
		TruckType:      req.TruckType,
		BodyType:       req.BodyType,
		TruckLength:    req.TruckLength,
		TruckHeight:    req.TruckHeight,
		LoadCapacity:   req.LoadCapacity,
		EstimatedKm:    req.EstimatedKm,
		EstimatedPrice: req.EstimatedPrice,
		DriverNotes:    req.DriverNotes,
		Status:         models.BookingStatusPending,
		PaymentStatus:  models.PaymentStatusUnpaid,
	}

	if err := s.bookingRepo.Create(db.WithContext(ctx), booking); err != nil {
		return nil, apperrors.InternalError(err)
	}

	n, err := s.notificationService.NotifyDrivers(ctx, db, booking)
	if err != nil {
		logger.CtxWithError(ctx, "booking fan-out failed", err, "booking_id", booking.ID)
	} else {
		logger.CtxInfo(ctx, "Drivers notified", "booking_id", booking.ID, "count", n)
	}

	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, db *gorm.DB, customerID string, page dto.PageRequest) (*dto.Page[models.Booking], error) {
	page = page.Normalize()
	items, total, err := s.bookingRepo.FindByCustomer(db.WithContext(ctx), customerID, page.Limit, page.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.Page[models.Booking]{
		Items:      items,
		Pagination: dto.NewPagination(page, total),
	}, nil
}

func (s *bookingService) GetBooking(ctx context.Context, db *gorm.DB, customerID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByIDAndCustomer(db.WithContext(ctx), bookingID, customerID)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return booking, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, db *gorm.DB, customerID, bookingID string) error {
	if err := s.bookingRepo.DeleteByIDAndCustomer(db.WithContext(ctx), bookingID, customerID); err != nil {
		return mapBookingError(err)
	}
	return nil
}

func mapBookingError(err error) error {
	if errors.Is(err, repositories.ErrBookingNotFound) {
		return apperrors.ErrBookingNotFound
	}
	return apperrors.InternalError(err)
}
