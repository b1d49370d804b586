package commerce

import (
	"strings"
	"time"
)

// MetaData is a key/value entry attached to customers, coupons and orders.
type MetaData struct {
	ID    int64       `json:"id,omitempty"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// MetaString returns the string value of the first entry with the given
// key, or "" when absent.
func MetaString(meta []MetaData, key string) string {
	for _, m := range meta {
		if m.Key != key {
			continue
		}
		if s, ok := m.Value.(string); ok {
			return s
		}
	}
	return ""
}

// Billing is the billing block on customers and orders.
type Billing struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country,omitempty"`
	State     string `json:"state,omitempty"`
	City      string `json:"city,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	Address2  string `json:"address_2,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
}

// Shipping is the shipping block on customers and orders. It mirrors
// Billing minus the contact fields.
type Shipping struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Country   string `json:"country,omitempty"`
	State     string `json:"state,omitempty"`
	City      string `json:"city,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	Address2  string `json:"address_2,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
}

// Customer is a commerce backend customer record.
type Customer struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Username  string   `json:"username,omitempty"`
	Billing   Billing  `json:"billing,omitempty"`
	Shipping  Shipping `json:"shipping,omitempty"`
}

// CustomerInput is the payload for creating a customer.
type CustomerInput struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Username  string   `json:"username,omitempty"`
	Password  string   `json:"password,omitempty"`
	Billing   Billing  `json:"billing,omitempty"`
	Shipping  Shipping `json:"shipping,omitempty"`
}

// Coupon is a commerce backend coupon record.
type Coupon struct {
	ID                 int64      `json:"id"`
	Code               string     `json:"code"`
	Amount             string     `json:"amount"`
	Status             string     `json:"status"`
	DiscountType       string     `json:"discount_type"`
	DateExpires        string     `json:"date_expires,omitempty"`
	DateExpiresGMT     string     `json:"date_expires_gmt,omitempty"`
	UsageLimit         *int       `json:"usage_limit,omitempty"`
	UsageCount         int        `json:"usage_count"`
	IndividualUse      bool       `json:"individual_use"`
	ProductIDs         []int64    `json:"product_ids,omitempty"`
	ExcludedProductIDs []int64    `json:"excluded_product_ids,omitempty"`
	EmailRestrictions  []string   `json:"email_restrictions,omitempty"`
	MinimumAmount      string     `json:"minimum_amount,omitempty"`
	MaximumAmount      string     `json:"maximum_amount,omitempty"`
	CouponCategories   []string   `json:"coupon_categories,omitempty"`
	MetaData           []MetaData `json:"meta_data,omitempty"`
}

// ExpiresAt parses the coupon expiry. The backend emits timestamps both
// with and without a zone suffix; the GMT field wins when present.
func (c *Coupon) ExpiresAt() *time.Time {
	raw := strings.TrimSpace(c.DateExpiresGMT)
	if raw == "" {
		raw = strings.TrimSpace(c.DateExpires)
	}
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}

// HasCategory reports whether the coupon carries the given category slug.
func (c *Coupon) HasCategory(slug string) bool {
	for _, cat := range c.CouponCategories {
		if strings.EqualFold(strings.TrimSpace(cat), slug) {
			return true
		}
	}
	return false
}

// Product is a commerce backend product record.
type Product struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	RegularPrice string `json:"regular_price,omitempty"`
	SalePrice    string `json:"sale_price,omitempty"`
	Status       string `json:"status"`
}

// Variation is a product variation record.
type Variation struct {
	ID           int64  `json:"id"`
	Price        string `json:"price"`
	RegularPrice string `json:"regular_price,omitempty"`
	SalePrice    string `json:"sale_price,omitempty"`
	Status       string `json:"status"`
}

// LineItem is an order line.
type LineItem struct {
	ID          int64      `json:"id,omitempty"`
	ProductID   int64      `json:"product_id"`
	VariationID int64      `json:"variation_id,omitempty"`
	Name        string     `json:"name,omitempty"`
	Quantity    int        `json:"quantity"`
	Subtotal    string     `json:"subtotal,omitempty"`
	Total       string     `json:"total,omitempty"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
}

// CouponLine references a coupon applied to an order.
type CouponLine struct {
	Code string `json:"code"`
}

// FeeLine is an extra charge or (negative) adjustment on an order.
type FeeLine struct {
	Name      string `json:"name"`
	Total     string `json:"total"`
	TaxStatus string `json:"tax_status,omitempty"`
}

// Order is a commerce backend order record.
type Order struct {
	ID            int64      `json:"id"`
	Number        string     `json:"number,omitempty"`
	Status        string     `json:"status"`
	Currency      string     `json:"currency,omitempty"`
	Total         string     `json:"total"`
	CustomerID    int64      `json:"customer_id"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Billing       Billing    `json:"billing,omitempty"`
	Shipping      Shipping   `json:"shipping,omitempty"`
	LineItems     []LineItem `json:"line_items,omitempty"`
	MetaData      []MetaData `json:"meta_data,omitempty"`
	DateCreated   string     `json:"date_created,omitempty"`
	DatePaid      string     `json:"date_paid,omitempty"`
}

// OrderInput is the payload for creating an order.
type OrderInput struct {
	CustomerID         int64        `json:"customer_id,omitempty"`
	Status             string       `json:"status,omitempty"`
	Currency           string       `json:"currency,omitempty"`
	PaymentMethod      string       `json:"payment_method,omitempty"`
	PaymentMethodTitle string       `json:"payment_method_title,omitempty"`
	SetPaid            bool         `json:"set_paid,omitempty"`
	Billing            Billing      `json:"billing,omitempty"`
	Shipping           Shipping     `json:"shipping,omitempty"`
	LineItems          []LineItem   `json:"line_items"`
	CouponLines        []CouponLine `json:"coupon_lines,omitempty"`
	FeeLines           []FeeLine    `json:"fee_lines,omitempty"`
	MetaData           []MetaData   `json:"meta_data,omitempty"`
	CustomerNote       string       `json:"customer_note,omitempty"`
}

// OrderUpdate is the payload for patching an order.
type OrderUpdate struct {
	Status             string     `json:"status,omitempty"`
	SetPaid            *bool      `json:"set_paid,omitempty"`
	PaymentMethod      string     `json:"payment_method,omitempty"`
	PaymentMethodTitle string     `json:"payment_method_title,omitempty"`
	TransactionID      string     `json:"transaction_id,omitempty"`
	MetaData           []MetaData `json:"meta_data,omitempty"`
}
