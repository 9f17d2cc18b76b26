package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventUserRegistered     = "user.registered"
)

// DomainEvent is the envelope published to Kafka. Publishing is best-effort;
// the transaction that produced the event has already committed.
type DomainEvent struct {
	Event       string      `json:"event"`
	UserID      uuid.UUID   `json:"user_id"`
	OrderID     *uuid.UUID  `json:"order_id,omitempty"`
	OrderNumber string      `json:"order_number,omitempty"`
	Status      OrderStatus `json:"status,omitempty"`
	FinalAmount int64       `json:"final_amount,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}
