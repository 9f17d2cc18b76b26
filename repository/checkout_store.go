package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

// CheckoutStore is the data access surface of the checkout workflow. All
// mutating calls happen inside Transaction; the store passed to the
// callback is bound to that transaction, so a returned error rolls back
// every write.
type CheckoutStore interface {
	Transaction(ctx context.Context, fn func(tx CheckoutStore) error) error

	// GetActiveProductForUpdate locks the product row for the duration of
	// the transaction, making the stock check authoritative against
	// concurrent checkouts.
	GetActiveProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// GetValidCouponForUpdate fetches an active coupon inside its validity
	// window, row-locked so concurrent redemptions serialize on it.
	GetValidCouponForUpdate(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
	IncrementCouponUsage(ctx context.Context, id uuid.UUID) error
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	// DecrementStock subtracts quantity and bumps sold_count, guarded by
	// stock >= quantity. Returns false when the guard fails.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type GormCheckoutStore struct {
	db *gorm.DB
}

func NewGormCheckoutStore(db *gorm.DB) CheckoutStore {
	return &GormCheckoutStore{db: db}
}

func (s *GormCheckoutStore) Transaction(ctx context.Context, fn func(tx CheckoutStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormCheckoutStore{db: tx})
	})
}

func (s *GormCheckoutStore) GetActiveProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *GormCheckoutStore) GetValidCouponForUpdate(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ? AND is_active = ? AND valid_from <= ? AND valid_until >= ?", code, true, now, now).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *GormCheckoutStore) IncrementCouponUsage(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).
		Error
}

func (s *GormCheckoutStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *GormCheckoutStore) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return s.db.WithContext(ctx).Create(&items).Error
}

func (s *GormCheckoutStore) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"sold_count": gorm.Expr("sold_count + ?", quantity),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormCheckoutStore) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("cart_id IN (?)", s.db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{}).
		Error
}
