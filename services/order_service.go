package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
)

type OrderService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.OrderSummary, *ServiceError)
	// GetByID is owner-scoped: an order belonging to someone else is
	// indistinguishable from one that does not exist.
	GetByID(ctx context.Context, orderID, userID uuid.UUID) (*models.OrderWithItems, *ServiceError)
	AdminList(ctx context.Context) ([]models.AdminOrderRow, *ServiceError)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	orders repository.OrderRepository
	events EventPublisher
	logger *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, events EventPublisher, logger *zap.Logger) OrderService {
	return &orderServiceImpl{orders: orders, events: events, logger: logger}
}

func (s *orderServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.OrderSummary, *ServiceError) {
	summaries, err := s.orders.SummariesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to fetch orders")
	}
	return summaries, nil
}

func (s *orderServiceImpl) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*models.OrderWithItems, *ServiceError) {
	order, err := s.orders.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		s.logger.Error("failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internal("Failed to fetch order")
	}
	return &models.OrderWithItems{Order: *order, Items: order.OrderItems}, nil
}

func (s *orderServiceImpl) AdminList(ctx context.Context) ([]models.AdminOrderRow, *ServiceError) {
	rows, err := s.orders.AdminList(ctx)
	if err != nil {
		s.logger.Error("failed to list orders for admin", zap.Error(err))
		return nil, internal("Failed to fetch orders")
	}
	return rows, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, *ServiceError) {
	if !req.Status.Valid() {
		return nil, badRequest("Invalid order status: " + string(req.Status))
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		s.logger.Error("failed to update order status", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internal("Failed to update order status")
	}

	s.publishStatusChanged(ctx, order)
	return order, nil
}

func (s *orderServiceImpl) publishStatusChanged(ctx context.Context, order *models.Order) {
	if s.events == nil {
		return
	}
	orderID := order.ID
	event := models.DomainEvent{
		Event:       models.EventOrderStatusChanged,
		UserID:      order.UserID,
		OrderID:     &orderID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Timestamp:   time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order.status_changed event",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}
