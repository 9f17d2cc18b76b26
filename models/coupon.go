package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon is usable while active, inside its validity window, and (when a
// limit is set) while used_count < usage_limit.
type Coupon struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code              string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountType      DiscountType   `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue     int64          `gorm:"not null" json:"discount_value"`
	MinOrderAmount    *int64         `json:"min_order_amount,omitempty"`
	MaxDiscountAmount *int64         `json:"max_discount_amount,omitempty"`
	UsageLimit        *int           `json:"usage_limit,omitempty"`
	UsedCount         int            `gorm:"not null;default:0" json:"used_count"`
	ValidFrom         time.Time      `gorm:"not null" json:"valid_from"`
	ValidUntil        time.Time      `gorm:"not null" json:"valid_until"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

type CreateCouponRequest struct {
	Code              string       `json:"code" binding:"required,min=3,max=64"`
	DiscountType      DiscountType `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue     int64        `json:"discount_value" binding:"required,gt=0"`
	MinOrderAmount    *int64       `json:"min_order_amount"`
	MaxDiscountAmount *int64       `json:"max_discount_amount"`
	UsageLimit        *int         `json:"usage_limit"`
	ValidFrom         time.Time    `json:"valid_from" binding:"required"`
	ValidUntil        time.Time    `json:"valid_until" binding:"required"`
}
