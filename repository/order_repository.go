package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

// OrderRepository defines read access to orders plus the admin status
// transition. Order creation lives on CheckoutStore because it only ever
// happens inside the checkout transaction.
type OrderRepository interface {
	SummariesByUser(ctx context.Context, userID uuid.UUID) ([]models.OrderSummary, error)
	FindByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	AdminList(ctx context.Context) ([]models.AdminOrderRow, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus, notes *string) (*models.Order, error)
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// SummariesByUser returns the user's orders newest-first with item counts.
func (r *GormOrderRepository) SummariesByUser(ctx context.Context, userID uuid.UUID) ([]models.OrderSummary, error) {
	var summaries []models.OrderSummary
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`orders.id, orders.order_number, orders.status, orders.final_amount,
			COUNT(order_items.id) AS item_count, orders.created_at`).
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ?", userID).
		Group("orders.id, orders.order_number, orders.status, orders.final_amount, orders.created_at").
		Order("orders.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// FindByIDAndUserID loads an order with its items, scoped to the owner.
// A foreign order id yields gorm.ErrRecordNotFound, never the order.
func (r *GormOrderRepository) FindByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at")
		}).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) AdminList(ctx context.Context) ([]models.AdminOrderRow, error) {
	var rows []models.AdminOrderRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`orders.id, orders.order_number, orders.status, orders.final_amount,
			users.name AS user_name, users.email AS user_email,
			COUNT(order_items.id) AS item_count, orders.created_at`).
		Joins("JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Group("orders.id, orders.order_number, orders.status, orders.final_amount, users.name, users.email, orders.created_at").
		Order("orders.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus applies the new status and stamps shipped_at/delivered_at
// when entering those states. Transitions are deliberately unrestricted.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus, notes *string) (*models.Order, error) {
	updates := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case models.OrderStatusShipped:
		updates["shipped_at"] = now
	case models.OrderStatusDelivered:
		updates["delivered_at"] = now
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
