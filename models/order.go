package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order monetary fields are minor units; FinalAmount is always
// TotalAmount + ShippingCost - DiscountAmount.
type Order struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string        `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	Status          OrderStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount     int64         `gorm:"not null" json:"total_amount"`
	ShippingCost    int64         `gorm:"not null" json:"shipping_cost"`
	DiscountAmount  *int64        `json:"discount_amount,omitempty"`
	FinalAmount     int64         `gorm:"not null" json:"final_amount"`
	PaymentMethod   string        `gorm:"type:varchar(40);not null" json:"payment_method"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	ShippingAddress Address       `gorm:"type:jsonb;not null" json:"shipping_address"`
	BillingAddress  Address       `gorm:"type:jsonb;not null" json:"billing_address"`
	Notes           *string       `json:"notes,omitempty"`
	ShippedAt       *time.Time    `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time    `json:"delivered_at,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	OrderItems      []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem snapshots product name, image and price at purchase time, so
// later product edits never alter historical order data.
type OrderItem struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName  string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductImage string    `gorm:"not null;default:''" json:"product_image"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	Size         *string   `gorm:"type:varchar(20)" json:"size,omitempty"`
	Color        *string   `gorm:"type:varchar(40)" json:"color,omitempty"`
	PriceAtTime  int64     `gorm:"not null" json:"price_at_time"`
	TotalPrice   int64     `gorm:"not null" json:"total_price"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Size      *string   `json:"size"`
	Color     *string   `json:"color"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress Address            `json:"shipping_address" binding:"required"`
	BillingAddress  *Address           `json:"billing_address"`
	PaymentMethod   string             `json:"payment_method" binding:"required"`
	Notes           *string            `json:"notes"`
	CouponCode      *string            `json:"coupon_code"`
}

type OrderWithItems struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

type OrderSummary struct {
	ID          uuid.UUID   `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	FinalAmount int64       `json:"final_amount"`
	ItemCount   int         `json:"item_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AdminOrderRow is an order summary joined with its owner, for the admin
// listing.
type AdminOrderRow struct {
	ID          uuid.UUID   `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	FinalAmount int64       `json:"final_amount"`
	UserName    string      `json:"user_name"`
	UserEmail   string      `json:"user_email"`
	ItemCount   int         `json:"item_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
	Notes  *string     `json:"notes"`
}
