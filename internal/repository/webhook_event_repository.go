package repository

import (
	"errors"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/models"

	"gorm.io/gorm"
)

// WebhookEventRepository is the data access interface for the local
// webhook audit store.
type WebhookEventRepository interface {
	Create(event *models.WebhookEvent) error
	FindProcessed(orderID int64, transactionID, providerStatus string) (*models.WebhookEvent, error)
	MarkProcessed(eventID string) error
	ListByOrderID(orderID int64) ([]models.WebhookEvent, error)
}

// GormWebhookEventRepository is the GORM implementation.
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates the webhook event repository.
func NewWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// Create records an incoming event.
func (r *GormWebhookEventRepository) Create(event *models.WebhookEvent) error {
	return r.db.Create(event).Error
}

// FindProcessed returns an already-applied event for the same order,
// transaction and provider status, or nil when none exists.
func (r *GormWebhookEventRepository) FindProcessed(orderID int64, transactionID, providerStatus string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	err := r.db.
		Where("order_id = ? AND transaction_id = ? AND provider_status = ? AND processed_at IS NOT NULL",
			orderID, transactionID, providerStatus).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// MarkProcessed stamps the processed time on an event.
func (r *GormWebhookEventRepository) MarkProcessed(eventID string) error {
	now := time.Now()
	return r.db.Model(&models.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Update("processed_at", &now).Error
}

// ListByOrderID returns the audit trail for an order, newest first.
func (r *GormWebhookEventRepository) ListByOrderID(orderID int64) ([]models.WebhookEvent, error) {
	var events []models.WebhookEvent
	if err := r.db.Where("order_id = ?", orderID).Order("id desc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
