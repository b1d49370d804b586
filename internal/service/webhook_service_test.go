package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/constants"
	"github.com/Innovatio-dev/tof-checkout/internal/models"
	"github.com/Innovatio-dev/tof-checkout/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newWebhookEventRepo(t *testing.T) *repository.GormWebhookEventRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.WebhookEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewWebhookEventRepository(db)
}

func webhookInput(status string, orderID string, txID string) *WebhookInput {
	payload := []byte(`{"type":"` + status + `","order_id":` + orderID + `,"transaction_id":"` + txID + `"}`)
	input := &WebhookInput{}
	json.Unmarshal(payload, input)
	input.RawPayload = payload
	return input
}

func TestHandleApprovedUpdatesWholeGroup(t *testing.T) {
	fc := newFakeCommerce()
	fc.orders[201] = &commerce.Order{
		ID:     201,
		Status: constants.OrderStatusPending,
		MetaData: []commerce.MetaData{
			{Key: constants.OrderMetaGroupIDs, Value: "201,202,203"},
		},
	}
	fc.orders[202] = &commerce.Order{ID: 202, Status: constants.OrderStatusPending}
	fc.orders[203] = &commerce.Order{ID: 203, Status: constants.OrderStatusPending}

	repo := newWebhookEventRepo(t)
	svc := NewWebhookService(fc, repo, nil)

	result, err := svc.Handle(context.Background(), webhookInput("Approved", `"201"`, "tx-1"))
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if !result.Received || result.Duplicate {
		t.Fatalf("unexpected ack: %+v", result)
	}
	if result.OrderStatus != constants.OrderStatusCompleted {
		t.Fatalf("mapped status = %q, want completed", result.OrderStatus)
	}
	if len(result.UpdatedOrderIDs) != 3 {
		t.Fatalf("updated ids = %v, want all three", result.UpdatedOrderIDs)
	}
	for _, id := range []int64{201, 202, 203} {
		update, ok := fc.updatedOrders[id]
		if !ok {
			t.Fatalf("order %d was not updated", id)
		}
		if update.Status != constants.OrderStatusCompleted {
			t.Fatalf("order %d status = %q, want completed", id, update.Status)
		}
		if update.SetPaid == nil || !*update.SetPaid {
			t.Fatalf("order %d SetPaid not set", id)
		}
		if update.TransactionID != "tx-1" {
			t.Fatalf("order %d transaction id = %q", id, update.TransactionID)
		}
	}

	events, err := repo.ListByOrderID(201)
	if err != nil {
		t.Fatalf("ListByOrderID: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events))
	}
	event := events[0]
	if event.EventID == "" || event.ProcessedAt == nil {
		t.Fatalf("event not stamped: %+v", event)
	}
	if event.GroupOrderIDs != "201,202,203" {
		t.Fatalf("group ids = %q", event.GroupOrderIDs)
	}
	if event.ProviderStatus != constants.WebhookStatusApproved || event.MappedStatus != constants.OrderStatusCompleted {
		t.Fatalf("event statuses = %q/%q", event.ProviderStatus, event.MappedStatus)
	}
}

func TestHandleDuplicateEventAcksWithoutReapplying(t *testing.T) {
	fc := newFakeCommerce()
	fc.orders[301] = &commerce.Order{ID: 301, Status: constants.OrderStatusPending}

	repo := newWebhookEventRepo(t)
	svc := NewWebhookService(fc, repo, nil)

	first, err := svc.Handle(context.Background(), webhookInput("approved", "301", "tx-9"))
	if err != nil {
		t.Fatalf("first Handle error: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first delivery flagged duplicate")
	}

	fc.updatedOrders = map[int64]*commerce.OrderUpdate{}

	second, err := svc.Handle(context.Background(), webhookInput("approved", "301", "tx-9"))
	if err != nil {
		t.Fatalf("second Handle error: %v", err)
	}
	if !second.Duplicate {
		t.Fatalf("replay not flagged duplicate")
	}
	if second.OrderStatus != constants.OrderStatusCompleted {
		t.Fatalf("replay status = %q, want the prior mapped status", second.OrderStatus)
	}
	if len(second.UpdatedOrderIDs) != 1 || second.UpdatedOrderIDs[0] != 301 {
		t.Fatalf("replay ids = %v", second.UpdatedOrderIDs)
	}
	if len(fc.updatedOrders) != 0 {
		t.Fatalf("replay touched orders: %v", fc.updatedOrders)
	}
}

func TestHandleGroupFailureAllowsRedelivery(t *testing.T) {
	fc := newFakeCommerce()
	// Order 502 is in the group metadata but missing from the backend,
	// so the second update of the fan-out fails.
	fc.orders[501] = &commerce.Order{
		ID:     501,
		Status: constants.OrderStatusPending,
		MetaData: []commerce.MetaData{
			{Key: constants.OrderMetaGroupIDs, Value: "501,502"},
		},
	}

	repo := newWebhookEventRepo(t)
	svc := NewWebhookService(fc, repo, nil)

	if _, err := svc.Handle(context.Background(), webhookInput("approved", "501", "tx-5")); err == nil {
		t.Fatalf("expected the group update to fail")
	}

	// The audit row exists but is not stamped processed, so the
	// provider's redelivery is not treated as a duplicate.
	events, err := repo.ListByOrderID(501)
	if err != nil {
		t.Fatalf("ListByOrderID: %v", err)
	}
	if len(events) != 1 || events[0].ProcessedAt != nil {
		t.Fatalf("unexpected audit state: %+v", events)
	}

	fc.orders[502] = &commerce.Order{ID: 502, Status: constants.OrderStatusPending}
	result, err := svc.Handle(context.Background(), webhookInput("approved", "501", "tx-5"))
	if err != nil {
		t.Fatalf("redelivery Handle error: %v", err)
	}
	if result.Duplicate {
		t.Fatalf("redelivery flagged duplicate before the group completed")
	}
	if len(result.UpdatedOrderIDs) != 2 {
		t.Fatalf("updated ids = %v, want both orders", result.UpdatedOrderIDs)
	}
}

func TestHandleStatusTable(t *testing.T) {
	cases := []struct {
		provider string
		status   string
		setPaid  bool
	}{
		{constants.WebhookStatusDeclined, constants.OrderStatusFailed, false},
		{constants.WebhookStatusApprovedOnHold, constants.OrderStatusOnHold, false},
		{constants.WebhookStatusAuthorized, constants.OrderStatusOnHold, false},
		{constants.WebhookStatusVoided, constants.OrderStatusCancelled, false},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			fc := newFakeCommerce()
			fc.orders[401] = &commerce.Order{ID: 401, Status: constants.OrderStatusPending}
			svc := NewWebhookService(fc, newWebhookEventRepo(t), nil)

			result, err := svc.Handle(context.Background(), webhookInput(tc.provider, "401", "tx-2"))
			if err != nil {
				t.Fatalf("Handle error: %v", err)
			}
			if result.OrderStatus != tc.status {
				t.Fatalf("mapped status = %q, want %q", result.OrderStatus, tc.status)
			}
			update := fc.updatedOrders[401]
			if update == nil {
				t.Fatalf("order not updated")
			}
			if update.SetPaid == nil || *update.SetPaid != tc.setPaid {
				t.Fatalf("SetPaid = %v, want %v", update.SetPaid, tc.setPaid)
			}
		})
	}
}

func TestHandleRejectsUnknownStatus(t *testing.T) {
	svc := NewWebhookService(newFakeCommerce(), newWebhookEventRepo(t), nil)

	_, err := svc.Handle(context.Background(), webhookInput("refund_pending", "1", "tx"))
	if !errors.Is(err, ErrWebhookBadStatus) {
		t.Fatalf("err = %v, want ErrWebhookBadStatus", err)
	}
}

func TestHandleRejectsBadOrderID(t *testing.T) {
	svc := NewWebhookService(newFakeCommerce(), newWebhookEventRepo(t), nil)

	for _, raw := range []string{`"abc"`, `0`, `-5`, `""`} {
		_, err := svc.Handle(context.Background(), webhookInput("approved", raw, "tx"))
		if !errors.Is(err, ErrWebhookBadOrderID) {
			t.Fatalf("order_id %s: err = %v, want ErrWebhookBadOrderID", raw, err)
		}
	}
}

func TestHandleOrderNotFound(t *testing.T) {
	svc := NewWebhookService(newFakeCommerce(), newWebhookEventRepo(t), nil)

	_, err := svc.Handle(context.Background(), webhookInput("approved", "777", "tx"))
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestParsedOrderIDFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`" 42 "`, 0},
	}
	for _, tc := range cases {
		input := &WebhookInput{OrderID: json.RawMessage(tc.raw)}
		got, err := input.ParsedOrderID()
		if tc.want == 0 {
			if !errors.Is(err, ErrWebhookBadOrderID) {
				t.Fatalf("%s: err = %v, want ErrWebhookBadOrderID", tc.raw, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%s: got %d, %v", tc.raw, got, err)
		}
	}
}

func TestHandleWithoutEventStore(t *testing.T) {
	fc := newFakeCommerce()
	fc.orders[601] = &commerce.Order{ID: 601, Status: constants.OrderStatusPending}

	svc := NewWebhookService(fc, nil, nil)

	result, err := svc.Handle(context.Background(), webhookInput("Approved", "601", "tx-nostore"))
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if !result.Received || result.Duplicate {
		t.Fatalf("unexpected ack: %+v", result)
	}
	if got := fc.updatedOrders[601]; got == nil || got.Status != constants.OrderStatusCompleted {
		t.Fatalf("order 601 was not reconciled: %+v", got)
	}
}
