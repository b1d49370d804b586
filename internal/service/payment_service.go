package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/cache"
	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/config"
	"github.com/Innovatio-dev/tof-checkout/internal/constants"
	"github.com/Innovatio-dev/tof-checkout/internal/logger"
	"github.com/Innovatio-dev/tof-checkout/internal/payment/bridgerpay"

	"github.com/shopspring/decimal"
)

// fallbackTokenLifetime is assumed when the gateway reports a lifetime
// shorter than the refresh buffer.
const fallbackTokenLifetimeSeconds = 7000

// PaymentService exchanges the cached or freshly-issued gateway auth
// token for a cashier session the browser widget embeds.
type PaymentService struct {
	commerce     commerce.Client
	gatewayCfg   bridgerpay.Config
	refreshGrace time.Duration
}

// NewPaymentService creates the payment bridge.
func NewPaymentService(client commerce.Client, cfg config.BridgerConfig) *PaymentService {
	buffer := cfg.TokenRefreshBufferSeconds
	if buffer <= 0 {
		buffer = 120
	}
	return &PaymentService{
		commerce: client,
		gatewayCfg: bridgerpay.Config{
			APIURL:     cfg.APIURL,
			Username:   cfg.Username,
			Password:   cfg.Password,
			CashierKey: cfg.CashierKey,
			Theme:      cfg.Theme,
		},
		refreshGrace: time.Duration(buffer) * time.Second,
	}
}

// PaymentSessionInput carries the order reference and payer details.
type PaymentSessionInput struct {
	OrderID   int64  `json:"orderId"`
	Country   string `json:"country"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

// PaymentSessionResult is either a skip-payment signal (the order needs
// no gateway) or the cashier credential pair for the payment iframe.
type PaymentSessionResult struct {
	SkipPayment  bool   `json:"skipPayment,omitempty"`
	CashierKey   string `json:"cashierKey,omitempty"`
	CashierToken string `json:"cashierToken,omitempty"`
}

// CreateSession fetches the order, decides whether payment is needed,
// and opens a cashier session against the gateway.
func (s *PaymentService) CreateSession(ctx context.Context, input *PaymentSessionInput) (*PaymentSessionResult, error) {
	if input == nil || input.OrderID <= 0 {
		return nil, ErrInvalidParams
	}

	order, err := s.commerce.GetOrder(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}

	total := parseAmount(order.Total)
	if order.PaymentMethod == constants.PaymentMethodCoupon ||
		order.Status == constants.OrderStatusCompleted ||
		total.LessThanOrEqual(decimal.Zero) {
		return &PaymentSessionResult{SkipPayment: true}, nil
	}

	token, err := s.ensureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentAuthFailed, err)
	}

	amount, _ := total.Round(2).Float64()
	cashierToken, err := bridgerpay.CreateSession(ctx, &s.gatewayCfg, token, bridgerpay.SessionInput{
		OrderID:   fmt.Sprintf("%d", order.ID),
		Currency:  orderCurrency(order),
		Country:   input.Country,
		Amount:    amount,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		ZipCode:   input.ZipCode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentSessionFailed, err)
	}

	return &PaymentSessionResult{
		CashierKey:   s.gatewayCfg.CashierKey,
		CashierToken: cashierToken,
	}, nil
}

// ensureToken reuses the cached gateway token when it is still outside
// the refresh buffer, logging in afresh otherwise. Concurrent refreshes
// may race and both overwrite the cache; the gateway tolerates the
// double login, so no locking here.
func (s *PaymentService) ensureToken(ctx context.Context) (string, error) {
	now := time.Now()
	cached, hit, err := cache.GetMerchantAuth(ctx)
	if err != nil {
		logger.Warnw("merchant_auth_cache_read_failed", "error", err)
	}
	if hit && cached.Valid(now, s.refreshGrace) {
		return cached.AccessToken, nil
	}

	auth, err := bridgerpay.Login(ctx, &s.gatewayCfg)
	if err != nil {
		return "", err
	}

	lifetime := auth.ExpiresIn
	if lifetime < int64(s.refreshGrace/time.Second) {
		lifetime = fallbackTokenLifetimeSeconds
	}
	entry := &cache.MerchantAuth{
		AccessToken: auth.AccessToken,
		ExpiresAt:   now.Unix() + lifetime,
		ObtainedAt:  now.Unix(),
	}
	if err := cache.SetMerchantAuth(ctx, entry); err != nil {
		logger.Warnw("merchant_auth_cache_write_failed", "error", err)
	}
	return auth.AccessToken, nil
}

func orderCurrency(order *commerce.Order) string {
	if strings.TrimSpace(order.Currency) != "" {
		return order.Currency
	}
	return constants.SiteCurrencyDefault
}
