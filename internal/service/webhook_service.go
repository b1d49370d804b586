package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/constants"
	"github.com/Innovatio-dev/tof-checkout/internal/logger"
	"github.com/Innovatio-dev/tof-checkout/internal/models"
	"github.com/Innovatio-dev/tof-checkout/internal/queue"
	"github.com/Innovatio-dev/tof-checkout/internal/repository"

	"github.com/google/uuid"
)

// statusTransition maps a provider deposit status onto the order status
// it implies.
type statusTransition struct {
	OrderStatus string
	SetPaid     bool
}

var webhookStatusTable = map[string]statusTransition{
	constants.WebhookStatusApproved:       {OrderStatus: constants.OrderStatusCompleted, SetPaid: true},
	constants.WebhookStatusDeclined:       {OrderStatus: constants.OrderStatusFailed},
	constants.WebhookStatusApprovedOnHold: {OrderStatus: constants.OrderStatusOnHold},
	constants.WebhookStatusAuthorized:     {OrderStatus: constants.OrderStatusOnHold},
	constants.WebhookStatusVoided:         {OrderStatus: constants.OrderStatusCancelled},
}

// WebhookService reconciles asynchronous payment-provider callbacks with
// order state, fanning each update out to the full order group.
type WebhookService struct {
	commerce commerce.Client
	events   repository.WebhookEventRepository
	queue    *queue.Client
}

// NewWebhookService creates the webhook reconciler.
func NewWebhookService(client commerce.Client, events repository.WebhookEventRepository, queueClient *queue.Client) *WebhookService {
	return &WebhookService{
		commerce: client,
		events:   events,
		queue:    queueClient,
	}
}

// WebhookInput is the decoded provider callback. OrderID arrives as a
// string or number depending on provider version.
type WebhookInput struct {
	Type          string          `json:"type"`
	OrderID       json.RawMessage `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	RawPayload    []byte          `json:"-"`
}

// ParsedOrderID extracts the numeric order ID.
func (w *WebhookInput) ParsedOrderID() (int64, error) {
	raw := strings.Trim(strings.TrimSpace(string(w.OrderID)), `"`)
	if raw == "" {
		return 0, ErrWebhookBadOrderID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrWebhookBadOrderID
	}
	return id, nil
}

// WebhookResult acknowledges a processed event.
type WebhookResult struct {
	Received        bool    `json:"received"`
	Duplicate       bool    `json:"duplicate,omitempty"`
	OrderStatus     string  `json:"orderStatus"`
	UpdatedOrderIDs []int64 `json:"updatedOrderIds"`
}

// Handle maps the provider status through the transition table and
// applies the update to every order in the group. Replayed events are
// acknowledged without touching the orders again.
func (s *WebhookService) Handle(ctx context.Context, input *WebhookInput) (*WebhookResult, error) {
	if input == nil {
		return nil, ErrWebhookBadStatus
	}

	providerStatus := strings.ToLower(strings.TrimSpace(input.Type))
	transition, ok := webhookStatusTable[providerStatus]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWebhookBadStatus, input.Type)
	}

	orderID, err := input.ParsedOrderID()
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if prior, err := s.events.FindProcessed(orderID, input.TransactionID, providerStatus); err != nil {
			logger.Warnw("webhook_event_lookup_failed", "order_id", orderID, "error", err)
		} else if prior != nil {
			return &WebhookResult{
				Received:        true,
				Duplicate:       true,
				OrderStatus:     prior.MappedStatus,
				UpdatedOrderIDs: splitOrderIDs(prior.GroupOrderIDs),
			}, nil
		}
	}

	primary, err := s.commerce.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}

	groupIDs := resolveOrderGroup(primary)
	eventID := s.recordEvent(orderID, providerStatus, transition.OrderStatus, input, groupIDs)
	setPaid := transition.SetPaid
	update := &commerce.OrderUpdate{
		Status:             transition.OrderStatus,
		SetPaid:            &setPaid,
		PaymentMethod:      constants.PaymentMethodBridger,
		PaymentMethodTitle: constants.PaymentMethodBridgerTitle,
		TransactionID:      input.TransactionID,
	}

	updated := make([]int64, 0, len(groupIDs))
	for _, id := range groupIDs {
		if _, err := s.commerce.UpdateOrder(ctx, id, update); err != nil {
			return nil, fmt.Errorf("order %d update failed: %w", id, err)
		}
		updated = append(updated, id)
	}

	s.markProcessed(eventID)
	s.notify(updated, transition.OrderStatus)

	return &WebhookResult{
		Received:        true,
		OrderStatus:     transition.OrderStatus,
		UpdatedOrderIDs: updated,
	}, nil
}

// resolveOrderGroup reads the sibling metadata stamped at checkout.
// Orders without grouping metadata reconcile alone.
func resolveOrderGroup(primary *commerce.Order) []int64 {
	raw := commerce.MetaString(primary.MetaData, constants.OrderMetaGroupIDs)
	ids := splitOrderIDs(raw)
	if len(ids) == 0 {
		return []int64{primary.ID}
	}
	if !containsID(ids, primary.ID) {
		ids = append([]int64{primary.ID}, ids...)
	}
	return ids
}

// recordEvent writes the audit row before any order is touched. The row
// stays unprocessed until every update in the group lands, so a crash
// mid-group does not suppress the provider's redelivery.
func (s *WebhookService) recordEvent(orderID int64, providerStatus, mappedStatus string, input *WebhookInput, groupIDs []int64) string {
	if s.events == nil {
		return ""
	}
	event := &models.WebhookEvent{
		EventID:        uuid.NewString(),
		OrderID:        orderID,
		TransactionID:  input.TransactionID,
		ProviderStatus: providerStatus,
		MappedStatus:   mappedStatus,
		GroupOrderIDs:  joinOrderIDs(groupIDs),
		Payload:        string(input.RawPayload),
	}
	if err := s.events.Create(event); err != nil {
		logger.Warnw("webhook_event_record_failed", "order_id", orderID, "error", err)
		return ""
	}
	return event.EventID
}

func (s *WebhookService) markProcessed(eventID string) {
	if s.events == nil || eventID == "" {
		return
	}
	if err := s.events.MarkProcessed(eventID); err != nil {
		logger.Warnw("webhook_event_mark_failed", "event_id", eventID, "error", err)
	}
}

func (s *WebhookService) notify(orderIDs []int64, status string) {
	if s.queue == nil {
		return
	}
	for _, id := range orderIDs {
		if err := s.queue.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{OrderID: id, Status: status}); err != nil {
			logger.Warnw("order_status_email_enqueue_failed", "order_id", id, "error", err)
		}
	}
}

func splitOrderIDs(raw string) []int64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
