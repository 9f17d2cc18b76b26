package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is one row per user; the unique index backs the get-or-create upsert.
type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type CartItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID      uuid.UUID `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Size        *string   `gorm:"type:varchar(20)" json:"size,omitempty"`
	Color       *string   `gorm:"type:varchar(40)" json:"color,omitempty"`
	PriceAtTime int64     `gorm:"not null" json:"price_at_time"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartItemWithProduct joins a cart item with the live product row so the
// client can show current price and stock next to the price captured when
// the item was added.
type CartItemWithProduct struct {
	ID             uuid.UUID `json:"id"`
	CartID         uuid.UUID `json:"cart_id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductImage   string    `json:"product_image"`
	Quantity       int       `json:"quantity"`
	Size           *string   `json:"size,omitempty"`
	Color          *string   `json:"color,omitempty"`
	PriceAtTime    int64     `json:"price_at_time"`
	CurrentPrice   int64     `json:"current_price"`
	StockAvailable int       `json:"stock_available"`
	CreatedAt      time.Time `json:"created_at"`
}

type CartSummary struct {
	TotalItems int                   `json:"total_items"`
	TotalPrice int64                 `json:"total_price"`
	Items      []CartItemWithProduct `json:"items"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Size      *string   `json:"size"`
	Color     *string   `json:"color"`
}

type UpdateCartItemRequest struct {
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Size     *string `json:"size"`
	Color    *string `json:"color"`
}
