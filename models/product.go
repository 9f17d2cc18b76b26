package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product prices are stored in currency minor units (Rupiah has no
// fractional unit, so an int64 is exact).
type Product struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string         `gorm:"type:varchar(255);not null" json:"name"`
	Description      *string        `json:"description,omitempty"`
	ShortDescription *string        `gorm:"type:varchar(500)" json:"short_description,omitempty"`
	SKU              string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Price            int64          `gorm:"not null" json:"price"`
	OriginalPrice    *int64         `json:"original_price,omitempty"`
	Category         string         `gorm:"type:varchar(80);not null;index" json:"category"`
	Brand            *string        `gorm:"type:varchar(80)" json:"brand,omitempty"`
	Stock            int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	SoldCount        int            `gorm:"not null;default:0" json:"sold_count"`
	ImageURL         string         `gorm:"not null;default:''" json:"image_url"`
	IsActive         bool           `gorm:"not null;default:true" json:"is_active"`
	IsFeatured       bool           `gorm:"not null;default:false" json:"is_featured"`
	SizeOptions      StringList     `gorm:"type:jsonb" json:"size_options,omitempty"`
	ColorOptions     StringList     `gorm:"type:jsonb" json:"color_options,omitempty"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductFilter holds the optional catalog query parameters. Empty fields
// contribute no predicate.
type ProductFilter struct {
	Category    string `form:"category"`
	Search      string `form:"search"`
	MinPrice    *int64 `form:"min_price"`
	MaxPrice    *int64 `form:"max_price"`
	InStockOnly bool   `form:"in_stock_only"`
}

type CreateProductRequest struct {
	Name             string     `json:"name" binding:"required"`
	Description      *string    `json:"description"`
	ShortDescription *string    `json:"short_description"`
	SKU              string     `json:"sku" binding:"required"`
	Price            int64      `json:"price" binding:"required,gt=0"`
	OriginalPrice    *int64     `json:"original_price"`
	Category         string     `json:"category" binding:"required"`
	Brand            *string    `json:"brand"`
	Stock            int        `json:"stock" binding:"gte=0"`
	ImageURL         string     `json:"image_url"`
	IsActive         *bool      `json:"is_active"`
	IsFeatured       *bool      `json:"is_featured"`
	SizeOptions      StringList `json:"size_options"`
	ColorOptions     StringList `json:"color_options"`
}

type UpdateProductRequest struct {
	Name             *string    `json:"name"`
	Description      *string    `json:"description"`
	ShortDescription *string    `json:"short_description"`
	SKU              *string    `json:"sku"`
	Price            *int64     `json:"price"`
	OriginalPrice    *int64     `json:"original_price"`
	Category         *string    `json:"category"`
	Brand            *string    `json:"brand"`
	Stock            *int       `json:"stock"`
	ImageURL         *string    `json:"image_url"`
	IsActive         *bool      `json:"is_active"`
	IsFeatured       *bool      `json:"is_featured"`
	SizeOptions      StringList `json:"size_options"`
	ColorOptions     StringList `json:"color_options"`
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	UserName  string    `gorm:"-" json:"user_name"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type CreateReviewRequest struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_product" json:"product_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FavoriteWithProduct joins favorite rows with live product info for listing.
type FavoriteWithProduct struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	ImageURL      string    `json:"image_url"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"original_price,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
