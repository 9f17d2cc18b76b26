package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

type CartRepository interface {
	// GetOrCreate upserts the user's cart row and returns it.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ItemsWithProduct(ctx context.Context, cartID uuid.UUID) ([]models.CartItemWithProduct, error)
	// FindItem locates an existing line for the same product/size/color
	// combination so quantities merge instead of duplicating rows.
	FindItem(ctx context.Context, cartID, productID uuid.UUID, size, color *string) (*models.CartItem, error)
	FindItemOwned(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItem(ctx context.Context, item *models.CartItem) error
	DeleteItemOwned(ctx context.Context, itemID, userID uuid.UUID) (bool, error)
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}

type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := models.Cart{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": gorm.Expr("NOW()")}),
		}).
		Create(&cart).Error
	if err != nil {
		return nil, err
	}
	if cart.ID == uuid.Nil {
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return nil, err
		}
	}
	return &cart, nil
}

func (r *GormCartRepository) ItemsWithProduct(ctx context.Context, cartID uuid.UUID) ([]models.CartItemWithProduct, error) {
	var items []models.CartItemWithProduct
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select(`cart_items.id, cart_items.cart_id, cart_items.product_id,
			products.name AS product_name, products.image_url AS product_image,
			cart_items.quantity, cart_items.size, cart_items.color, cart_items.price_at_time,
			products.price AS current_price, products.stock AS stock_available, cart_items.created_at`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ? AND products.is_active = ?", cartID, true).
		Order("cart_items.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormCartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID, size, color *string) (*models.CartItem, error) {
	query := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID)
	if size != nil {
		query = query.Where("size = ?", *size)
	} else {
		query = query.Where("size IS NULL")
	}
	if color != nil {
		query = query.Where("color = ?", *color)
	} else {
		query = query.Where("color IS NULL")
	}

	var item models.CartItem
	if err := query.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) FindItemOwned(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormCartRepository) UpdateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *GormCartRepository) DeleteItemOwned(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)", itemID,
			r.db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormCartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id IN (?)", r.db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{}).
		Error
}
