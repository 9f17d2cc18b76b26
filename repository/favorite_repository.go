package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FavoriteWithProduct, error)
	// Add is idempotent per user+product.
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

func (r *GormFavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FavoriteWithProduct, error) {
	var favorites []models.FavoriteWithProduct
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Select(`favorites.id, favorites.product_id, products.name, products.image_url,
			products.price, products.original_price, favorites.created_at`).
		Joins("JOIN products ON products.id = favorites.product_id").
		Where("favorites.user_id = ? AND products.is_active = ?", userID, true).
		Order("favorites.created_at DESC").
		Scan(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *GormFavoriteRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	favorite := models.Favorite{UserID: userID, ProductID: productID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&favorite).Error
}

func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
