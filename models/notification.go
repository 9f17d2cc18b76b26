package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeOrder     = "order"
	NotificationTypePromotion = "promotion"
	NotificationTypeSystem    = "system"

	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Message       string     `gorm:"not null" json:"message"`
	Type          string     `gorm:"type:varchar(40);not null;default:'system'" json:"type"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	ReferenceType *string    `gorm:"type:varchar(40)" json:"reference_type,omitempty"`
	Priority      string     `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	ActionURL     *string    `json:"action_url,omitempty"`
	IsRead        bool       `gorm:"not null;default:false" json:"is_read"`
	IsDeleted     bool       `gorm:"not null;default:false" json:"is_deleted"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// NotificationFilter holds the optional listing parameters; empty fields
// contribute no predicate.
type NotificationFilter struct {
	Type      string `form:"type"`
	IsRead    *bool  `form:"is_read"`
	IsDeleted *bool  `form:"is_deleted"`
	Priority  string `form:"priority"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

type NotificationStats struct {
	TotalCount         int64 `json:"total_count"`
	UnreadCount        int64 `json:"unread_count"`
	HighPriorityUnread int64 `json:"high_priority_unread"`
}

type MarkNotificationsRequest struct {
	NotificationIDs []uuid.UUID `json:"notification_ids" binding:"required,min=1"`
	IsRead          *bool       `json:"is_read"`
	IsDeleted       *bool       `json:"is_deleted"`
}
