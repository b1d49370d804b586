package public

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/config"
	"github.com/Innovatio-dev/tof-checkout/internal/constants"
	"github.com/Innovatio-dev/tof-checkout/internal/provider"
	"github.com/Innovatio-dev/tof-checkout/internal/service"

	"github.com/gin-gonic/gin"
)

// stubCommerce serves a single order lookup and fails everything else.
type stubCommerce struct {
	order *commerce.Order
}

func (s *stubCommerce) GetCustomerByEmail(ctx context.Context, email string) (*commerce.Customer, error) {
	return nil, fmt.Errorf("unexpected call")
}

func (s *stubCommerce) CreateCustomer(ctx context.Context, input *commerce.CustomerInput) (*commerce.Customer, error) {
	return nil, fmt.Errorf("unexpected call")
}

func (s *stubCommerce) UpdateCustomer(ctx context.Context, customerID int64, input *commerce.CustomerInput) (*commerce.Customer, error) {
	return nil, fmt.Errorf("unexpected call")
}

func (s *stubCommerce) GetCouponByCode(ctx context.Context, code string) (*commerce.Coupon, error) {
	return nil, fmt.Errorf("unexpected call")
}

func (s *stubCommerce) GetProduct(ctx context.Context, productID int64) (*commerce.Product, error) {
	return nil, fmt.Errorf("unexpected call")
}

func (s *stubCommerce) GetVariation(ctx context.Context, productID, variationID int64) (*commerce.Variation, error) {
	return nil, fmt.Errorf("unexpected call")
}

func (s *stubCommerce) CreateOrder(ctx context.Context, input *commerce.OrderInput) (*commerce.Order, error) {
	return nil, fmt.Errorf("unexpected call")
}

func (s *stubCommerce) GetOrder(ctx context.Context, orderID int64) (*commerce.Order, error) {
	if s.order != nil && s.order.ID == orderID {
		return s.order, nil
	}
	return nil, commerce.ErrNotFound
}

func (s *stubCommerce) UpdateOrder(ctx context.Context, orderID int64, update *commerce.OrderUpdate) (*commerce.Order, error) {
	return nil, fmt.Errorf("unexpected call")
}

// TestCreatePaymentSessionAcceptsCheckoutOrderID feeds the orderId field
// exactly as the checkout response serializes it into the session
// request, which is how the storefront chains the two calls.
func TestCreatePaymentSessionAcceptsCheckoutOrderID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	checkoutBody, err := json.Marshal(&service.CheckoutResult{
		State:   service.StateTokenIssued,
		OrderID: 9001,
	})
	if err != nil {
		t.Fatalf("marshal checkout result: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(checkoutBody, &fields); err != nil {
		t.Fatalf("unmarshal checkout result: %v", err)
	}
	sessionBody := fmt.Sprintf(`{"orderId":%s,"email":"buyer@example.com"}`, fields["orderId"])

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/session", strings.NewReader(sessionBody))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	stub := &stubCommerce{order: &commerce.Order{
		ID:     9001,
		Status: constants.OrderStatusCompleted,
		Total:  "679.00",
	}}
	h := New(&provider.Container{
		PaymentService: service.NewPaymentService(stub, config.BridgerConfig{
			APIURL:     "http://127.0.0.1:0",
			Username:   "merchant",
			Password:   "secret",
			CashierKey: "cashier-key",
		}),
	})
	h.CreatePaymentSession(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"status_code":0`) {
		t.Fatalf("expected success envelope, got %s", body)
	}
	if !strings.Contains(body, `"skipPayment":true`) {
		t.Fatalf("expected skip-payment result, got %s", body)
	}
}
