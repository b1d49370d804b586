package commerce

import (
	"context"
	"errors"
)

var (
	ErrConfigInvalid   = errors.New("commerce config invalid")
	ErrRequestFailed   = errors.New("commerce request failed")
	ErrResponseInvalid = errors.New("commerce response invalid")
	ErrNotFound        = errors.New("commerce resource not found")
)

// Client is the commerce backend surface the checkout flow needs.
// Lookups return (nil, nil) when the resource does not exist; transport
// and decode failures return an error.
type Client interface {
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CreateCustomer(ctx context.Context, input *CustomerInput) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, input *CustomerInput) (*Customer, error)

	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)

	GetProduct(ctx context.Context, productID int64) (*Product, error)
	GetVariation(ctx context.Context, productID, variationID int64) (*Variation, error)

	CreateOrder(ctx context.Context, input *OrderInput) (*Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	UpdateOrder(ctx context.Context, orderID int64, update *OrderUpdate) (*Order, error)
}
