package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
)

// fakeCommerce is an in-memory commerce.Client for service tests.
// Function fields override the default behavior per test.
type fakeCommerce struct {
	mu sync.Mutex

	customers map[string]*commerce.Customer
	coupons   map[string]*commerce.Coupon
	orders    map[int64]*commerce.Order
	nextID    int64

	createdOrders []*commerce.OrderInput
	updatedOrders map[int64]*commerce.OrderUpdate

	getCustomerErr error
	createOrderErr error
	failOrderAfter int // fail CreateOrder after this many successes, 0 = never

	getProductFn   func(ctx context.Context, productID int64) (*commerce.Product, error)
	getVariationFn func(ctx context.Context, productID, variationID int64) (*commerce.Variation, error)
}

func newFakeCommerce() *fakeCommerce {
	return &fakeCommerce{
		customers:     map[string]*commerce.Customer{},
		coupons:       map[string]*commerce.Coupon{},
		orders:        map[int64]*commerce.Order{},
		updatedOrders: map[int64]*commerce.OrderUpdate{},
		nextID:        100,
	}
}

func (f *fakeCommerce) addCoupon(coupon *commerce.Coupon) {
	f.coupons[coupon.Code] = coupon
}

func (f *fakeCommerce) GetCustomerByEmail(_ context.Context, email string) (*commerce.Customer, error) {
	if f.getCustomerErr != nil {
		return nil, f.getCustomerErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customers[email], nil
}

func (f *fakeCommerce) CreateCustomer(_ context.Context, input *commerce.CustomerInput) (*commerce.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	customer := &commerce.Customer{
		ID:        f.nextID,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Billing:   input.Billing,
		Shipping:  input.Shipping,
	}
	f.customers[input.Email] = customer
	return customer, nil
}

func (f *fakeCommerce) UpdateCustomer(_ context.Context, customerID int64, input *commerce.CustomerInput) (*commerce.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, customer := range f.customers {
		if customer.ID == customerID {
			customer.FirstName = input.FirstName
			customer.LastName = input.LastName
			customer.Billing = input.Billing
			customer.Shipping = input.Shipping
			return customer, nil
		}
	}
	return nil, errors.New("customer not found")
}

func (f *fakeCommerce) GetCouponByCode(_ context.Context, code string) (*commerce.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coupons[code], nil
}

func (f *fakeCommerce) GetProduct(ctx context.Context, productID int64) (*commerce.Product, error) {
	if f.getProductFn != nil {
		return f.getProductFn(ctx, productID)
	}
	return nil, nil
}

func (f *fakeCommerce) GetVariation(ctx context.Context, productID, variationID int64) (*commerce.Variation, error) {
	if f.getVariationFn != nil {
		return f.getVariationFn(ctx, productID, variationID)
	}
	return nil, nil
}

func (f *fakeCommerce) CreateOrder(_ context.Context, input *commerce.OrderInput) (*commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createOrderErr != nil {
		return nil, f.createOrderErr
	}
	if f.failOrderAfter > 0 && len(f.createdOrders) >= f.failOrderAfter {
		return nil, errors.New("order backend unavailable")
	}
	f.nextID++
	f.createdOrders = append(f.createdOrders, input)
	total := ""
	if len(input.LineItems) > 0 {
		total = input.LineItems[0].Total
	}
	order := &commerce.Order{
		ID:            f.nextID,
		Status:        input.Status,
		Currency:      input.Currency,
		Total:         total,
		CustomerID:    input.CustomerID,
		PaymentMethod: input.PaymentMethod,
		Billing:       input.Billing,
		Shipping:      input.Shipping,
		LineItems:     input.LineItems,
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeCommerce) GetOrder(_ context.Context, orderID int64) (*commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

func (f *fakeCommerce) UpdateOrder(_ context.Context, orderID int64, update *commerce.OrderUpdate) (*commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	f.updatedOrders[orderID] = update
	if update.Status != "" {
		order.Status = update.Status
	}
	if update.TransactionID != "" {
		order.TransactionID = update.TransactionID
	}
	if len(update.MetaData) > 0 {
		order.MetaData = append(order.MetaData, update.MetaData...)
	}
	return order, nil
}
