package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
)

type CouponService interface {
	Create(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError)
	List(ctx context.Context) ([]models.Coupon, *ServiceError)
	Deactivate(ctx context.Context, code string) *ServiceError
}

type couponServiceImpl struct {
	coupons repository.CouponRepository
	logger  *zap.Logger
}

func NewCouponService(coupons repository.CouponRepository, logger *zap.Logger) CouponService {
	return &couponServiceImpl{coupons: coupons, logger: logger}
}

func (s *couponServiceImpl) Create(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, badRequest("valid_until must be after valid_from")
	}
	if req.DiscountType == models.DiscountTypePercentage && req.DiscountValue > 100 {
		return nil, badRequest("Percentage discount must not exceed 100")
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if _, err := s.coupons.FindByCode(ctx, code); err == nil {
		return nil, badRequest("Coupon code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check coupon code", zap.Error(err))
		return nil, internal("Failed to create coupon")
	}

	coupon := models.Coupon{
		Code:              code,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		IsActive:          true,
	}
	if err := s.coupons.Create(ctx, &coupon); err != nil {
		s.logger.Error("failed to create coupon", zap.Error(err))
		return nil, internal("Failed to create coupon")
	}
	return &coupon, nil
}

func (s *couponServiceImpl) List(ctx context.Context) ([]models.Coupon, *ServiceError) {
	coupons, err := s.coupons.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to list coupons", zap.Error(err))
		return nil, internal("Failed to fetch coupons")
	}
	return coupons, nil
}

func (s *couponServiceImpl) Deactivate(ctx context.Context, code string) *ServiceError {
	err := s.coupons.Deactivate(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Coupon not found")
		}
		s.logger.Error("failed to deactivate coupon", zap.Error(err))
		return internal("Failed to deactivate coupon")
	}
	return nil
}
