package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/config"
)

const defaultTimeout = 15 * time.Second

// wooClient talks to a WooCommerce REST backend.
type wooClient struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client
}

// NewWooClient builds a Client from configuration.
func NewWooClient(cfg config.WooConfig) (Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("%w: base_url / consumer key / consumer secret required", ErrConfigInvalid)
	}
	prefix := strings.TrimSpace(cfg.APIPrefix)
	if prefix == "" {
		prefix = "/wp-json/wc/v3"
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &wooClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + prefix,
		key:        strings.TrimSpace(cfg.ConsumerKey),
		secret:     strings.TrimSpace(cfg.ConsumerSecret),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// apiError is the backend's error envelope. Messages may carry HTML
// entities, so they are unescaped before surfacing.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

func (c *wooClient) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%w: %s (%s)", ErrRequestFailed, html.UnescapeString(apiErr.Message), apiErr.Code)
		}
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

func (c *wooClient) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrRequestFailed)
	}
	query := url.Values{}
	query.Set("email", email)
	query.Set("role", "all")

	var customers []Customer
	if err := c.do(ctx, http.MethodGet, "/customers", query, nil, &customers); err != nil {
		return nil, err
	}
	for i := range customers {
		if strings.EqualFold(customers[i].Email, email) {
			return &customers[i], nil
		}
	}
	return nil, nil
}

func (c *wooClient) CreateCustomer(ctx context.Context, input *CustomerInput) (*Customer, error) {
	if input == nil || strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: customer email is required", ErrRequestFailed)
	}
	var customer Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, input, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *wooClient) UpdateCustomer(ctx context.Context, customerID int64, input *CustomerInput) (*Customer, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: empty customer update", ErrRequestFailed)
	}
	var customer Customer
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", customerID), nil, input, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *wooClient) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: coupon code is required", ErrRequestFailed)
	}
	query := url.Values{}
	query.Set("code", code)

	var coupons []Coupon
	if err := c.do(ctx, http.MethodGet, "/coupons", query, nil, &coupons); err != nil {
		return nil, err
	}
	if len(coupons) == 0 {
		return nil, nil
	}
	return &coupons[0], nil
}

func (c *wooClient) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var product Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, nil, &product)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *wooClient) GetVariation(ctx context.Context, productID, variationID int64) (*Variation, error) {
	var variation Variation
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/variations/%d", productID, variationID), nil, nil, &variation)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

func (c *wooClient) CreateOrder(ctx context.Context, input *OrderInput) (*Order, error) {
	if input == nil || len(input.LineItems) == 0 {
		return nil, fmt.Errorf("%w: order requires line items", ErrRequestFailed)
	}
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *wooClient) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *wooClient) UpdateOrder(ctx context.Context, orderID int64, update *OrderUpdate) (*Order, error) {
	if update == nil {
		return nil, fmt.Errorf("%w: empty order update", ErrRequestFailed)
	}
	var order Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), nil, update, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
