package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

type NotificationRepository interface {
	List(ctx context.Context, userID uuid.UUID, filter models.NotificationFilter) ([]models.Notification, error)
	Stats(ctx context.Context, userID uuid.UUID) (*models.NotificationStats, error)
	Create(ctx context.Context, notification *models.Notification) error
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID, isRead bool) (bool, error)
	MarkMultiple(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, isRead, isDeleted *bool) (int64, error)
	SoftDelete(ctx context.Context, notificationID, userID uuid.UUID) (bool, error)
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// List builds the filter as chained predicates so parameter binding stays
// structural; there is no hand-counted placeholder index to get wrong.
func (r *GormNotificationRepository) List(ctx context.Context, userID uuid.UUID, filter models.NotificationFilter) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.IsDeleted != nil {
		query = query.Where("is_deleted = ?", *filter.IsDeleted)
	} else {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	query = query.Where("expires_at IS NULL OR expires_at > ?", time.Now())

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *GormNotificationRepository) Stats(ctx context.Context, userID uuid.UUID) (*models.NotificationStats, error) {
	var stats models.NotificationStats
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Select(`COUNT(*) AS total_count,
			COUNT(*) FILTER (WHERE is_read = false) AS unread_count,
			COUNT(*) FILTER (WHERE is_read = false AND priority = 'high') AS high_priority_unread`).
		Where("user_id = ? AND is_deleted = ? AND (expires_at IS NULL OR expires_at > ?)",
			userID, false, time.Now()).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *GormNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *GormNotificationRepository) MarkRead(ctx context.Context, notificationID, userID uuid.UUID, isRead bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", isRead)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormNotificationRepository) MarkMultiple(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, isRead, isDeleted *bool) (int64, error) {
	updates := map[string]interface{}{}
	if isRead != nil {
		updates["is_read"] = *isRead
	}
	if isDeleted != nil {
		updates["is_deleted"] = *isDeleted
	}
	if len(updates) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) SoftDelete(ctx context.Context, notificationID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_deleted", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
