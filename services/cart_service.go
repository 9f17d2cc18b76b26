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

type CartService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*models.CartSummary, *ServiceError)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddToCartRequest) (*models.CartItem, *ServiceError)
	UpdateItem(ctx context.Context, itemID, userID uuid.UUID, req *models.UpdateCartItemRequest) (*models.CartItem, *ServiceError)
	RemoveItem(ctx context.Context, itemID, userID uuid.UUID) *ServiceError
	Clear(ctx context.Context, userID uuid.UUID) *ServiceError
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

// Summary totals use the live product price, not the captured one, so the
// client sees what checkout will actually charge.
func (s *cartServiceImpl) Summary(ctx context.Context, userID uuid.UUID) (*models.CartSummary, *ServiceError) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to fetch cart")
	}

	items, err := s.carts.ItemsWithProduct(ctx, cart.ID)
	if err != nil {
		s.logger.Error("failed to list cart items", zap.Error(err))
		return nil, internal("Failed to fetch cart")
	}

	summary := models.CartSummary{Items: items}
	for _, item := range items {
		summary.TotalItems += item.Quantity
		summary.TotalPrice += item.CurrentPrice * int64(item.Quantity)
	}
	return &summary, nil
}

// AddItem merges into an existing line when the same product, size and
// color is already in the cart.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddToCartRequest) (*models.CartItem, *ServiceError) {
	product, err := s.products.FindActiveByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("failed to fetch product", zap.Error(err))
		return nil, internal("Failed to add to cart")
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get cart", zap.Error(err))
		return nil, internal("Failed to add to cart")
	}

	existing, err := s.carts.FindItem(ctx, cart.ID, req.ProductID, req.Size, req.Color)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to look up cart item", zap.Error(err))
		return nil, internal("Failed to add to cart")
	}

	quantity := req.Quantity
	if existing != nil {
		quantity += existing.Quantity
	}
	if quantity > product.Stock {
		return nil, badRequest("Insufficient stock for product: " + product.Name)
	}

	if existing != nil {
		existing.Quantity = quantity
		existing.PriceAtTime = product.Price
		if err := s.carts.UpdateItem(ctx, existing); err != nil {
			s.logger.Error("failed to update cart item", zap.Error(err))
			return nil, internal("Failed to add to cart")
		}
		return existing, nil
	}

	item := models.CartItem{
		CartID:      cart.ID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Size:        req.Size,
		Color:       req.Color,
		PriceAtTime: product.Price,
	}
	if err := s.carts.CreateItem(ctx, &item); err != nil {
		s.logger.Error("failed to create cart item", zap.Error(err))
		return nil, internal("Failed to add to cart")
	}
	return &item, nil
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, itemID, userID uuid.UUID, req *models.UpdateCartItemRequest) (*models.CartItem, *ServiceError) {
	item, err := s.carts.FindItemOwned(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Cart item not found")
		}
		s.logger.Error("failed to fetch cart item", zap.Error(err))
		return nil, internal("Failed to update cart item")
	}

	product, err := s.products.FindActiveByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, badRequest("Product is no longer available")
		}
		s.logger.Error("failed to fetch product", zap.Error(err))
		return nil, internal("Failed to update cart item")
	}
	if req.Quantity > product.Stock {
		return nil, badRequest("Insufficient stock for product: " + product.Name)
	}

	item.Quantity = req.Quantity
	if req.Size != nil {
		item.Size = req.Size
	}
	if req.Color != nil {
		item.Color = req.Color
	}

	if err := s.carts.UpdateItem(ctx, item); err != nil {
		s.logger.Error("failed to update cart item", zap.Error(err))
		return nil, internal("Failed to update cart item")
	}
	return item, nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, itemID, userID uuid.UUID) *ServiceError {
	deleted, err := s.carts.DeleteItemOwned(ctx, itemID, userID)
	if err != nil {
		s.logger.Error("failed to delete cart item", zap.Error(err))
		return internal("Failed to remove cart item")
	}
	if !deleted {
		return notFound("Cart item not found")
	}
	return nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID uuid.UUID) *ServiceError {
	if err := s.carts.ClearByUser(ctx, userID); err != nil {
		s.logger.Error("failed to clear cart", zap.Error(err))
		return internal("Failed to clear cart")
	}
	return nil
}
