package repositories

import (
	"errors"
	"time"

	"transport_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Размер пачки для массовой вставки уведомлений
const notificationBatchSize = 500

type NotificationRepository interface {
	CreateBulkNotifications(db *gorm.DB, notifications []*models.Notification) (int64, error)
	FindNotificationByID(db *gorm.DB, id string) (*models.Notification, error)
	FindUserNotifications(db *gorm.DB, userID string, limit, offset int) ([]models.Notification, int64, error)
	MarkAsRead(db *gorm.DB, notificationID string) error
	// MarkAllAsRead возвращает число помеченных уведомлений
	MarkAllAsRead(db *gorm.DB, userID string) (int64, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	DeleteReadNotifications(db *gorm.DB, olderThan time.Time) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) CreateBulkNotifications(db *gorm.DB, notifications []*models.Notification) (int64, error) {
	if len(notifications) == 0 {
		return 0, nil
	}
	result := db.CreateInBatches(notifications, notificationBatchSize)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) FindNotificationByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	err := db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(db *gorm.DB, userID string, limit, offset int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, notificationID string) error {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    &now,
			"updated_at": now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string) (int64, error) {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    &now,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) DeleteReadNotifications(db *gorm.DB, olderThan time.Time) (int64, error) {
	result := db.Where("is_read = ? AND created_at < ?", true, olderThan).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
