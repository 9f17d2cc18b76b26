package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PKL-SST-2025/BatikKita-Be/cache"
	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
)

type ProductService interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, *ServiceError)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError)
	Deactivate(ctx context.Context, id uuid.UUID) *ServiceError

	ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, *ServiceError)
	CreateReview(ctx context.Context, productID, userID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, *ServiceError)
}

type productServiceImpl struct {
	products repository.ProductRepository
	cache    *cache.ProductCache
	logger   *zap.Logger
}

func NewProductService(products repository.ProductRepository, productCache *cache.ProductCache, logger *zap.Logger) ProductService {
	return &productServiceImpl{products: products, cache: productCache, logger: logger}
}

func (s *productServiceImpl) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, *ServiceError) {
	if cached, ok := s.cache.GetList(ctx, filter); ok {
		return cached, nil
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list products", zap.Error(err))
		return nil, internal("Failed to fetch products")
	}

	s.cache.SetList(ctx, filter, products)
	return products, nil
}

func (s *productServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	if cached, ok := s.cache.GetProduct(ctx, id); ok {
		return cached, nil
	}

	product, err := s.products.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, internal("Failed to fetch product")
	}

	s.cache.SetProduct(ctx, product)
	return product, nil
}

func (s *productServiceImpl) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	product := models.Product{
		Name:             req.Name,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		SKU:              req.SKU,
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
		Category:         req.Category,
		Brand:            req.Brand,
		Stock:            req.Stock,
		ImageURL:         req.ImageURL,
		IsActive:         true,
		SizeOptions:      req.SizeOptions,
		ColorOptions:     req.ColorOptions,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := s.products.Create(ctx, &product); err != nil {
		s.logger.Error("failed to create product", zap.Error(err))
		return nil, internal("Failed to create product")
	}

	s.cache.Invalidate(ctx, product.ID)
	return &product, nil
}

func (s *productServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.products.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, internal("Failed to update product")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.ShortDescription != nil {
		product.ShortDescription = req.ShortDescription
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, badRequest("Price must be positive")
		}
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = req.OriginalPrice
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = req.Brand
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, badRequest("Stock must not be negative")
		}
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.SizeOptions != nil {
		product.SizeOptions = req.SizeOptions
	}
	if req.ColorOptions != nil {
		product.ColorOptions = req.ColorOptions
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.logger.Error("failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, internal("Failed to update product")
	}

	s.cache.Invalidate(ctx, product.ID)
	return product, nil
}

func (s *productServiceImpl) Deactivate(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.products.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Product not found")
		}
		s.logger.Error("failed to deactivate product", zap.String("product_id", id.String()), zap.Error(err))
		return internal("Failed to delete product")
	}

	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *productServiceImpl) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, *ServiceError) {
	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("failed to fetch product", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, internal("Failed to fetch reviews")
	}

	reviews, err := s.products.ListReviews(ctx, productID)
	if err != nil {
		s.logger.Error("failed to list reviews", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, internal("Failed to fetch reviews")
	}
	return reviews, nil
}

func (s *productServiceImpl) CreateReview(ctx context.Context, productID, userID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, *ServiceError) {
	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("failed to fetch product", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, internal("Failed to create review")
	}

	exists, err := s.products.HasReview(ctx, productID, userID)
	if err != nil {
		s.logger.Error("failed to check existing review", zap.Error(err))
		return nil, internal("Failed to create review")
	}
	if exists {
		return nil, badRequest("You have already reviewed this product")
	}

	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.products.CreateReview(ctx, &review); err != nil {
		s.logger.Error("failed to create review", zap.Error(err))
		return nil, internal("Failed to create review")
	}
	return &review, nil
}
