package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/constants"
	"github.com/Innovatio-dev/tof-checkout/internal/fraud/seon"
	"github.com/Innovatio-dev/tof-checkout/internal/logger"
	"github.com/Innovatio-dev/tof-checkout/internal/models"

	"github.com/shopspring/decimal"
)

// CheckoutState enumerates the orchestration steps. A checkout advances
// through them in order; failure at any gate leaves the result carrying
// the last state reached.
type CheckoutState string

const (
	StateValidating       CheckoutState = "validating"
	StateCustomerResolved CheckoutState = "customer_resolved"
	StatePriced           CheckoutState = "priced"
	StateFraudChecked     CheckoutState = "fraud_checked"
	StateCouponsApplied   CheckoutState = "coupons_applied"
	StateOrdersCreated    CheckoutState = "orders_created"
	StateTokenIssued      CheckoutState = "token_issued"
	StateFailed           CheckoutState = "failed"
)

// CheckoutService runs the purchase sequence: validate, resolve the
// customer, price, screen for fraud, apply coupons, create the per-unit
// orders, and issue the guest access token.
type CheckoutService struct {
	commerce commerce.Client
	pricing  *PricingService
	coupons  *CouponService
	tokens   *OrderTokenService
	fraudCfg *seon.Config
	currency string
}

// NewCheckoutService creates the checkout orchestrator.
func NewCheckoutService(client commerce.Client, pricing *PricingService, coupons *CouponService, tokens *OrderTokenService, fraudCfg *seon.Config, currency string) *CheckoutService {
	if strings.TrimSpace(currency) == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &CheckoutService{
		commerce: client,
		pricing:  pricing,
		coupons:  coupons,
		tokens:   tokens,
		fraudCfg: fraudCfg,
		currency: currency,
	}
}

// CheckoutInput is one submitted purchase attempt.
type CheckoutInput struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CountryCode string `json:"countryCode"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	PhoneCode   string `json:"phoneCode"`
	PhoneNumber string `json:"phoneNumber"`
	Quantity    int    `json:"quantity"`
	AccountType string `json:"accountType"`
	AccountSize string `json:"accountSize"`
	Platform    string `json:"platform"`
	Newsletter  bool   `json:"newsletter"`

	ProductID   int64    `json:"wooProductId"`
	VariationID int64    `json:"wooVariantId"`
	CouponCodes []string `json:"couponCodes"`
	SeonSession string   `json:"seonSession"`

	// Filled by the handler, not the request body.
	ClientIP           string `json:"-"`
	AuthenticatedEmail string `json:"-"`
}

// AppliedCoupon is one accepted code and its share of the discount.
type AppliedCoupon struct {
	Code           string       `json:"code"`
	DiscountAmount models.Money `json:"discountAmount"`
}

// CheckoutResult is the successful terminal payload. On error the
// orchestrator still returns it so callers can inspect the state
// reached and any orders already created.
type CheckoutResult struct {
	State            CheckoutState   `json:"state"`
	OrderID          int64           `json:"orderId"`
	OrderIDs         []int64         `json:"orderIds"`
	Total            models.Money    `json:"total"`
	Discount         models.Money    `json:"discount"`
	Recurrence       string          `json:"recurrence"`
	SkipPayment      bool            `json:"skipPayment"`
	OrderAccessToken string          `json:"orderAccessToken,omitempty"`
	AppliedCoupons   []AppliedCoupon `json:"appliedCoupons,omitempty"`
}

// Submit runs the full checkout sequence.
func (s *CheckoutService) Submit(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	result := &CheckoutResult{State: StateValidating}

	if err := validateCheckoutInput(input); err != nil {
		result.State = StateFailed
		return result, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	customer, err := s.resolveCustomer(ctx, email, input)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.State = StateCustomerResolved

	quote, err := s.pricing.Resolve(ctx, input.AccountType, input.AccountSize, input.Platform)
	if err != nil {
		result.State = StateFailed
		return result, ErrProductUnavailable
	}
	result.Recurrence = quote.Recurrence
	result.State = StatePriced

	unitPrice := quote.Price.Decimal
	grossTotal := unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))

	verdict := seon.Check(ctx, s.fraudCfg, seon.Input{
		Email:      email,
		IP:         input.ClientIP,
		Session:    input.SeonSession,
		Amount:     grossTotal.InexactFloat64(),
		Currency:   s.currency,
		IsLoggedIn: input.AuthenticatedEmail != "" && input.AuthenticatedEmail == email,
	})
	if !verdict.Allowed {
		result.State = StateFailed
		return result, fmt.Errorf("%w: %s", ErrFraudDeclined, verdict.Reason)
	}
	result.State = StateFraudChecked

	runningTotal, applied, coupons, err := s.applyCoupons(ctx, input.CouponCodes, email, input.ProductID, grossTotal)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.AppliedCoupons = applied
	result.Discount = models.NewMoneyFromDecimal(grossTotal.Sub(runningTotal))
	result.Total = models.NewMoneyFromDecimal(runningTotal)
	result.State = StateCouponsApplied

	if runningTotal.LessThanOrEqual(decimal.Zero) {
		return s.createCouponOrder(ctx, result, customer, email, input, coupons)
	}
	return s.createUnitOrders(ctx, result, customer, email, input, coupons, runningTotal, unitPrice)
}

func validateCheckoutInput(input *CheckoutInput) error {
	if input == nil {
		return ErrInvalidParams
	}
	required := []string{
		input.Email, input.FirstName, input.LastName, input.CountryCode,
		input.Address1, input.City, input.Postcode,
		input.PhoneCode, input.PhoneNumber,
		input.AccountType, input.AccountSize, input.Platform,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return ErrInvalidParams
		}
	}
	if input.Quantity <= 0 {
		return ErrInvalidParams
	}
	if input.ProductID <= 0 {
		return ErrInvalidParams
	}
	return nil
}

// resolveCustomer finds or creates the commerce customer record. The
// billing and shipping snapshots are only overwritten when the requester
// is authenticated as the same email; a guest checkout never mutates an
// existing profile.
func (s *CheckoutService) resolveCustomer(ctx context.Context, email string, input *CheckoutInput) (*commerce.Customer, error) {
	existing, err := s.commerce.GetCustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	billing := s.billingFor(email, input)
	shipping := shippingFor(input)

	if existing != nil {
		if input.AuthenticatedEmail != "" && strings.EqualFold(input.AuthenticatedEmail, email) {
			updated, err := s.commerce.UpdateCustomer(ctx, existing.ID, &commerce.CustomerInput{
				FirstName: input.FirstName,
				LastName:  input.LastName,
				Billing:   billing,
				Shipping:  shipping,
			})
			if err != nil {
				logger.Warnw("customer_billing_update_failed", "customer_id", existing.ID, "error", err)
				return existing, nil
			}
			return updated, nil
		}
		return existing, nil
	}

	return s.commerce.CreateCustomer(ctx, &commerce.CustomerInput{
		Email:     email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Billing:   billing,
		Shipping:  shipping,
	})
}

// applyCoupons walks the submitted codes in order, validating each
// against the running total and the stacking guard. The first rejection
// aborts the whole attempt.
func (s *CheckoutService) applyCoupons(ctx context.Context, codes []string, email string, productID int64, grossTotal decimal.Decimal) (decimal.Decimal, []AppliedCoupon, []*commerce.Coupon, error) {
	if len(codes) > constants.MaxStackedCoupons {
		return grossTotal, nil, nil, fmt.Errorf("%w: at most %d promo codes may be stacked", ErrStackingRejected, constants.MaxStackedCoupons)
	}

	runningTotal := grossTotal
	var applied []AppliedCoupon
	var accepted []*commerce.Coupon

	for _, code := range codes {
		evaluation, err := s.coupons.Evaluate(ctx, code, email, productID, runningTotal)
		if err != nil {
			return grossTotal, nil, nil, err
		}
		if !evaluation.Valid {
			return grossTotal, nil, nil, fmt.Errorf("%w: %s", ErrCouponRejected, evaluation.Reason)
		}

		decision := CanStack(accepted, evaluation.Coupon)
		if !decision.Allowed {
			if decision.ConflictCode != "" {
				return grossTotal, nil, nil, fmt.Errorf("%w: Promo code %s can't be stacked with %s.",
					ErrStackingRejected,
					strings.ToUpper(strings.TrimSpace(evaluation.Coupon.Code)),
					strings.ToUpper(strings.TrimSpace(decision.ConflictCode)))
			}
			return grossTotal, nil, nil, fmt.Errorf("%w: %s", ErrStackingRejected, decision.Reason)
		}

		accepted = append(accepted, evaluation.Coupon)
		applied = append(applied, AppliedCoupon{
			Code:           evaluation.Coupon.Code,
			DiscountAmount: evaluation.DiscountAmount,
		})
		runningTotal = evaluation.TotalAfterDiscount.Decimal
	}

	return runningTotal, applied, accepted, nil
}

// createCouponOrder handles the fully-discounted path: a single order
// marked completed and paid via the coupon payment method, with no
// gateway involvement.
func (s *CheckoutService) createCouponOrder(ctx context.Context, result *CheckoutResult, customer *commerce.Customer, email string, input *CheckoutInput, coupons []*commerce.Coupon) (*CheckoutResult, error) {
	order, err := s.commerce.CreateOrder(ctx, &commerce.OrderInput{
		CustomerID:         customer.ID,
		Status:             constants.OrderStatusCompleted,
		Currency:           s.currency,
		PaymentMethod:      constants.PaymentMethodCoupon,
		PaymentMethodTitle: constants.PaymentMethodCouponTitle,
		SetPaid:            true,
		Billing:            s.billingFor(email, input),
		Shipping:           shippingFor(input),
		LineItems: []commerce.LineItem{{
			ProductID:   input.ProductID,
			VariationID: input.VariationID,
			Quantity:    input.Quantity,
			Total:       "0.00",
		}},
		CouponLines:  couponLines(coupons),
		CustomerNote: customerNote(input),
	})
	if err != nil {
		result.State = StateFailed
		return result, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}

	result.OrderID = order.ID
	result.OrderIDs = []int64{order.ID}
	result.SkipPayment = true
	result.State = StateOrdersCreated

	return s.issueToken(result, email)
}

// createUnitOrders creates one order per unit of quantity, sequentially,
// then tags the first order with the comma-joined sibling IDs so webhook
// updates can reach the whole group.
func (s *CheckoutService) createUnitOrders(ctx context.Context, result *CheckoutResult, customer *commerce.Customer, email string, input *CheckoutInput, coupons []*commerce.Coupon, total, unitPrice decimal.Decimal) (*CheckoutResult, error) {
	quantity := int64(input.Quantity)
	perUnit := total.Div(decimal.NewFromInt(quantity)).Round(2)
	firstUnit := total.Sub(perUnit.Mul(decimal.NewFromInt(quantity - 1)))

	billing := s.billingFor(email, input)
	shipping := shippingFor(input)
	note := customerNote(input)
	lines := couponLines(coupons)

	created := make([]int64, 0, quantity)
	for i := int64(0); i < quantity; i++ {
		unitTotal := perUnit
		if i == 0 {
			unitTotal = firstUnit
		}
		order, err := s.commerce.CreateOrder(ctx, &commerce.OrderInput{
			CustomerID:         customer.ID,
			Status:             constants.OrderStatusPending,
			Currency:           s.currency,
			PaymentMethod:      constants.PaymentMethodBridger,
			PaymentMethodTitle: constants.PaymentMethodBridgerTitle,
			Billing:            billing,
			Shipping:           shipping,
			LineItems: []commerce.LineItem{{
				ProductID:   input.ProductID,
				VariationID: input.VariationID,
				Quantity:    1,
				Subtotal:    models.NewMoneyFromDecimal(unitPrice).String(),
				Total:       models.NewMoneyFromDecimal(unitTotal).String(),
			}},
			CouponLines:  lines,
			CustomerNote: note,
		})
		if err != nil {
			result.State = StateFailed
			result.OrderIDs = created
			if len(created) > 0 {
				logger.Errorw("checkout_partial_order_failure",
					"created_order_ids", joinOrderIDs(created),
					"failed_unit", i+1,
					"quantity", quantity,
					"error", err,
				)
			}
			return result, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
		}
		created = append(created, order.ID)
	}

	if len(created) > 1 {
		group := joinOrderIDs(created)
		if _, err := s.commerce.UpdateOrder(ctx, created[0], &commerce.OrderUpdate{
			MetaData: []commerce.MetaData{{Key: constants.OrderMetaGroupIDs, Value: group}},
		}); err != nil {
			result.State = StateFailed
			result.OrderIDs = created
			return result, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
		}
	}

	result.OrderID = created[0]
	result.OrderIDs = created
	result.State = StateOrdersCreated

	return s.issueToken(result, email)
}

func (s *CheckoutService) issueToken(result *CheckoutResult, email string) (*CheckoutResult, error) {
	token, _, err := s.tokens.Issue(result.OrderIDs, email)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.OrderAccessToken = token
	result.State = StateTokenIssued
	return result, nil
}

func (s *CheckoutService) billingFor(email string, input *CheckoutInput) commerce.Billing {
	return commerce.Billing{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     email,
		Phone:     "+" + input.PhoneCode + input.PhoneNumber,
		Country:   input.CountryCode,
		State:     input.State,
		City:      input.City,
		Address1:  input.Address1,
		Address2:  input.Address2,
		Postcode:  input.Postcode,
	}
}

func shippingFor(input *CheckoutInput) commerce.Shipping {
	return commerce.Shipping{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Country:   input.CountryCode,
		State:     input.State,
		City:      input.City,
		Address1:  input.Address1,
		Address2:  input.Address2,
		Postcode:  input.Postcode,
	}
}

func couponLines(coupons []*commerce.Coupon) []commerce.CouponLine {
	lines := make([]commerce.CouponLine, 0, len(coupons))
	for _, coupon := range coupons {
		lines = append(lines, commerce.CouponLine{Code: coupon.Code})
	}
	return lines
}

func customerNote(input *CheckoutInput) string {
	newsletter := "no"
	if input.Newsletter {
		newsletter = "yes"
	}
	return fmt.Sprintf("Account type: %s\nAccount size: %s\nPlatform: %s\nNewsletter: %s",
		input.AccountType, input.AccountSize, input.Platform, newsletter)
}

func joinOrderIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
