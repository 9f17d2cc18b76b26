package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
)

type FavoriteService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.FavoriteWithProduct, *ServiceError)
	Add(ctx context.Context, userID, productID uuid.UUID) *ServiceError
	Remove(ctx context.Context, userID, productID uuid.UUID) *ServiceError
}

type favoriteServiceImpl struct {
	favorites repository.FavoriteRepository
	products  repository.ProductRepository
	logger    *zap.Logger
}

func NewFavoriteService(favorites repository.FavoriteRepository, products repository.ProductRepository, logger *zap.Logger) FavoriteService {
	return &favoriteServiceImpl{favorites: favorites, products: products, logger: logger}
}

func (s *favoriteServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]models.FavoriteWithProduct, *ServiceError) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list favorites", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to fetch favorites")
	}
	return favorites, nil
}

// Add is idempotent; favoriting an already-favorited product succeeds.
func (s *favoriteServiceImpl) Add(ctx context.Context, userID, productID uuid.UUID) *ServiceError {
	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Product not found")
		}
		s.logger.Error("failed to fetch product", zap.Error(err))
		return internal("Failed to add favorite")
	}

	if err := s.favorites.Add(ctx, userID, productID); err != nil {
		s.logger.Error("failed to add favorite", zap.Error(err))
		return internal("Failed to add favorite")
	}
	return nil
}

func (s *favoriteServiceImpl) Remove(ctx context.Context, userID, productID uuid.UUID) *ServiceError {
	removed, err := s.favorites.Remove(ctx, userID, productID)
	if err != nil {
		s.logger.Error("failed to remove favorite", zap.Error(err))
		return internal("Failed to remove favorite")
	}
	if !removed {
		return notFound("Favorite not found")
	}
	return nil
}
