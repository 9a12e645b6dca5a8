package services

import (
	"context"
	"encoding/json"
	"errors"

	"transport_backend/internal/logger"
	"transport_backend/internal/metrics"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services/dto"
	"transport_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	bookingNotificationTitle   = "New Booking Available"
	bookingNotificationMessage = "A new booking has been created."
)

// PushSender - доставка push-уведомлений на устройства
type PushSender interface {
	Send(ctx context.Context, userIDs []string, title, message string, payload map[string]string) error
}

// LogPushSender только логирует; реальной доставки нет
type LogPushSender struct{}

func (LogPushSender) Send(ctx context.Context, userIDs []string, title, message string, payload map[string]string) error {
	logger.CtxDebug(ctx, "Push notification skipped", "recipients", len(userIDs), "title", title)
	return nil
}

type NotificationService interface {
	// NotifyDrivers пишет по уведомлению каждому верифицированному водителю.
	// Возвращает число записанных уведомлений.
	NotifyDrivers(ctx context.Context, db *gorm.DB, booking *models.Booking) (int64, error)

	GetUserNotifications(ctx context.Context, db *gorm.DB, userID string, page dto.PageRequest) (*dto.Page[models.Notification], error)
	MarkAsRead(ctx context.Context, db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	GetUnreadCount(ctx context.Context, db *gorm.DB, userID string) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	push             PushSender
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	push PushSender,
) NotificationService {
	if push == nil {
		push = LogPushSender{}
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		push:             push,
	}
}

func (s *notificationService) NotifyDrivers(ctx context.Context, db *gorm.DB, booking *models.Booking) (int64, error) {
	db = db.WithContext(ctx)

	driverIDs, err := s.userRepo.FindVerifiedDriverIDs(db)
	if err != nil {
		return 0, err
	}
	if len(driverIDs) == 0 {
		return 0, nil
	}

	payload := map[string]string{"bookingId": booking.ID}
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	notifications := make([]*models.Notification, 0, len(driverIDs))
	for _, id := range driverIDs {
		notifications = append(notifications, &models.Notification{
			UserID:  id,
			Title:   bookingNotificationTitle,
			Message: bookingNotificationMessage,
			Payload: datatypes.JSON(raw),
		})
	}

	n, err := s.notificationRepo.CreateBulkNotifications(db, notifications)
	if err != nil {
		return 0, err
	}
	metrics.NotificationsFannedOut.Add(float64(n))

	if err := s.push.Send(ctx, driverIDs, bookingNotificationTitle, bookingNotificationMessage, payload); err != nil {
		logger.CtxWithError(ctx, "push delivery failed", err, "booking_id", booking.ID)
	}
	return n, nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, db *gorm.DB, userID string, page dto.PageRequest) (*dto.Page[models.Notification], error) {
	page = page.Normalize()
	items, total, err := s.notificationRepo.FindUserNotifications(db.WithContext(ctx), userID, page.Limit, page.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.Page[models.Notification]{
		Items:      items,
		Pagination: dto.NewPagination(page, total),
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, db *gorm.DB, userID, notificationID string) error {
	db = db.WithContext(ctx)

	notification, err := s.notificationRepo.FindNotificationByID(db, notificationID)
	if err != nil {
		return mapNotificationError(err)
	}
	if notification.UserID != userID {
		return apperrors.ErrNotificationForbidden
	}

	if err := s.notificationRepo.MarkAsRead(db, notificationID); err != nil {
		return mapNotificationError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	n, err := s.notificationRepo.MarkAllAsRead(db.WithContext(ctx), userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	n, err := s.notificationRepo.GetUnreadCount(db.WithContext(ctx), userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func mapNotificationError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotificationNotFound
	}
	return apperrors.InternalError(err)
}
