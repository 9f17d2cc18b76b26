package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, filter models.NotificationFilter) ([]models.Notification, *ServiceError)
	Stats(ctx context.Context, userID uuid.UUID) (*models.NotificationStats, *ServiceError)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID, isRead bool) *ServiceError
	MarkMultiple(ctx context.Context, userID uuid.UUID, req *models.MarkNotificationsRequest) (int64, *ServiceError)
	Delete(ctx context.Context, notificationID, userID uuid.UUID) *ServiceError

	// HandleEvent turns a consumed domain event into a notification row.
	// Called from the Kafka consumer loop, not from request handlers.
	HandleEvent(ctx context.Context, event models.DomainEvent) error
}

type notificationServiceImpl struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

func NewNotificationService(notifications repository.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationServiceImpl{notifications: notifications, logger: logger}
}

func (s *notificationServiceImpl) List(ctx context.Context, userID uuid.UUID, filter models.NotificationFilter) ([]models.Notification, *ServiceError) {
	notifications, err := s.notifications.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list notifications", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to fetch notifications")
	}
	return notifications, nil
}

func (s *notificationServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (*models.NotificationStats, *ServiceError) {
	stats, err := s.notifications.Stats(ctx, userID)
	if err != nil {
		s.logger.Error("failed to fetch notification stats", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to fetch notification stats")
	}
	return stats, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, notificationID, userID uuid.UUID, isRead bool) *ServiceError {
	updated, err := s.notifications.MarkRead(ctx, notificationID, userID, isRead)
	if err != nil {
		s.logger.Error("failed to mark notification", zap.Error(err))
		return internal("Failed to update notification")
	}
	if !updated {
		return notFound("Notification not found")
	}
	return nil
}

func (s *notificationServiceImpl) MarkMultiple(ctx context.Context, userID uuid.UUID, req *models.MarkNotificationsRequest) (int64, *ServiceError) {
	if req.IsRead == nil && req.IsDeleted == nil {
		return 0, badRequest("Nothing to update")
	}

	updated, err := s.notifications.MarkMultiple(ctx, userID, req.NotificationIDs, req.IsRead, req.IsDeleted)
	if err != nil {
		s.logger.Error("failed to mark notifications", zap.Error(err))
		return 0, internal("Failed to update notifications")
	}
	return updated, nil
}

func (s *notificationServiceImpl) Delete(ctx context.Context, notificationID, userID uuid.UUID) *ServiceError {
	deleted, err := s.notifications.SoftDelete(ctx, notificationID, userID)
	if err != nil {
		s.logger.Error("failed to delete notification", zap.Error(err))
		return internal("Failed to delete notification")
	}
	if !deleted {
		return notFound("Notification not found")
	}
	return nil
}

func (s *notificationServiceImpl) HandleEvent(ctx context.Context, event models.DomainEvent) error {
	notification := models.Notification{
		UserID:      event.UserID,
		ReferenceID: event.OrderID,
	}

	switch event.Event {
	case models.EventOrderCreated:
		refType := "order"
		notification.Type = models.NotificationTypeOrder
		notification.Priority = models.NotificationPriorityNormal
		notification.ReferenceType = &refType
		notification.Title = "Order placed"
		notification.Message = fmt.Sprintf("Your order %s has been placed and is awaiting confirmation.", event.OrderNumber)
	case models.EventOrderStatusChanged:
		refType := "order"
		notification.Type = models.NotificationTypeOrder
		notification.Priority = models.NotificationPriorityNormal
		notification.ReferenceType = &refType
		notification.Title = "Order " + string(event.Status)
		notification.Message = fmt.Sprintf("Your order %s is now %s.", event.OrderNumber, event.Status)
		if event.Status == models.OrderStatusCancelled {
			notification.Priority = models.NotificationPriorityHigh
		}
	case models.EventUserRegistered:
		notification.Type = models.NotificationTypeSystem
		notification.Priority = models.NotificationPriorityLow
		notification.Title = "Welcome to BatikKita"
		notification.Message = "Your account has been created. Happy shopping!"
	default:
		s.logger.Debug("ignoring unknown event", zap.String("event", event.Event))
		return nil
	}

	if err := s.notifications.Create(ctx, &notification); err != nil {
		s.logger.Error("failed to create notification from event",
			zap.String("event", event.Event), zap.Error(err))
		return err
	}
	return nil
}
