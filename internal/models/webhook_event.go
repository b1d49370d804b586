package models

import (
	"time"
)

// WebhookEvent is the local audit record for payment gateway webhooks.
// It gives the reconciler idempotency: an event already recorded for the
// same order and transaction is not applied twice.
type WebhookEvent struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	EventID        string     `gorm:"uniqueIndex;not null" json:"event_id"`
	OrderID        int64      `gorm:"index;not null" json:"order_id"`
	TransactionID  string     `gorm:"index" json:"transaction_id,omitempty"`
	ProviderStatus string     `gorm:"not null" json:"provider_status"`
	MappedStatus   string     `gorm:"not null" json:"mapped_status"`
	GroupOrderIDs  string     `json:"group_order_ids,omitempty"`
	Payload        string     `gorm:"type:text" json:"-"`
	ProcessedAt    *time.Time `gorm:"index" json:"processed_at"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
