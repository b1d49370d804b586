package service

import (
	"context"
	"strings"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/constants"
	"github.com/Innovatio-dev/tof-checkout/internal/models"

	"github.com/shopspring/decimal"
)

// Coupon rejection reasons surfaced to the checkout form.
const (
	ReasonCouponCodeRequired = "Coupon code is required."
	ReasonCouponNotFound     = "Coupon not found."
	ReasonCouponInactive     = "Coupon is not active."
	ReasonCouponExpired      = "Coupon has expired."
	ReasonCouponWrongProduct = "Coupon is not valid for the selected product."
	ReasonCouponUsageLimit   = "Coupon usage limit reached."
	ReasonCouponWrongEmail   = "Coupon is not valid for this email."
	ReasonCouponBelowMinimum = "Order total does not meet the minimum amount."
	ReasonCouponAboveMaximum = "Order total exceeds the maximum amount."
)

// CouponService validates coupon codes and computes discounts. It is
// read-only against the coupon catalog; usage counters are incremented
// by the commerce backend after a successful order.
type CouponService struct {
	commerce commerce.Client
}

// NewCouponService creates the coupon service.
func NewCouponService(client commerce.Client) *CouponService {
	return &CouponService{commerce: client}
}

// CouponEvaluation is the outcome of validating one code against the
// order context. On rejection, TotalAfterDiscount carries the unmodified
// running total.
type CouponEvaluation struct {
	Valid              bool             `json:"valid"`
	Reason             string           `json:"reason,omitempty"`
	Coupon             *commerce.Coupon `json:"coupon"`
	DiscountAmount     models.Money     `json:"discountAmount"`
	TotalAfterDiscount models.Money     `json:"totalAfterDiscount"`
}

func rejected(reason string, coupon *commerce.Coupon, total decimal.Decimal) *CouponEvaluation {
	return &CouponEvaluation{
		Valid:              false,
		Reason:             reason,
		Coupon:             coupon,
		DiscountAmount:     models.NewMoneyFromDecimal(decimal.Zero),
		TotalAfterDiscount: models.NewMoneyFromDecimal(total),
	}
}

// Evaluate validates a single coupon code against the order context and
// computes its discount off the running total. Checks short-circuit in a
// fixed order; the first failure wins.
func (s *CouponService) Evaluate(ctx context.Context, code, email string, productID int64, runningTotal decimal.Decimal) (*CouponEvaluation, error) {
	normalizedCode := strings.TrimSpace(code)
	if normalizedCode == "" {
		return rejected(ReasonCouponCodeRequired, nil, runningTotal), nil
	}

	coupon, err := s.commerce.GetCouponByCode(ctx, normalizedCode)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return rejected(ReasonCouponNotFound, nil, runningTotal), nil
	}

	if coupon.Status != "" && coupon.Status != constants.CouponStatusPublish {
		return rejected(ReasonCouponInactive, coupon, runningTotal), nil
	}

	if expiresAt := coupon.ExpiresAt(); expiresAt != nil && time.Now().After(*expiresAt) {
		return rejected(ReasonCouponExpired, coupon, runningTotal), nil
	}

	if len(coupon.ProductIDs) > 0 && !containsID(coupon.ProductIDs, productID) {
		return rejected(ReasonCouponWrongProduct, coupon, runningTotal), nil
	}
	if len(coupon.ExcludedProductIDs) > 0 && containsID(coupon.ExcludedProductIDs, productID) {
		return rejected(ReasonCouponWrongProduct, coupon, runningTotal), nil
	}

	if coupon.UsageLimit != nil && *coupon.UsageLimit > 0 && coupon.UsageCount >= *coupon.UsageLimit {
		return rejected(ReasonCouponUsageLimit, coupon, runningTotal), nil
	}

	if len(coupon.EmailRestrictions) > 0 {
		normalizedEmail := strings.ToLower(strings.TrimSpace(email))
		allowed := false
		for _, entry := range coupon.EmailRestrictions {
			if strings.ToLower(strings.TrimSpace(entry)) == normalizedEmail {
				allowed = true
				break
			}
		}
		if !allowed {
			return rejected(ReasonCouponWrongEmail, coupon, runningTotal), nil
		}
	}

	minAmount := parseAmount(coupon.MinimumAmount)
	maxAmount := parseAmount(coupon.MaximumAmount)
	if minAmount.GreaterThan(decimal.Zero) && runningTotal.LessThan(minAmount) {
		return rejected(ReasonCouponBelowMinimum, coupon, runningTotal), nil
	}
	if maxAmount.GreaterThan(decimal.Zero) && runningTotal.GreaterThan(maxAmount) {
		return rejected(ReasonCouponAboveMaximum, coupon, runningTotal), nil
	}

	amount := parseAmount(coupon.Amount)
	var rawDiscount decimal.Decimal
	if coupon.DiscountType == constants.CouponTypePercent {
		rawDiscount = runningTotal.Mul(amount).Div(decimal.NewFromInt(100))
	} else {
		rawDiscount = amount
	}

	discount := clampDiscount(rawDiscount, runningTotal)
	totalAfter := runningTotal.Sub(discount)
	if totalAfter.LessThan(decimal.Zero) {
		totalAfter = decimal.Zero
	}

	return &CouponEvaluation{
		Valid:              true,
		Coupon:             coupon,
		DiscountAmount:     models.NewMoneyFromDecimal(discount),
		TotalAfterDiscount: models.NewMoneyFromDecimal(totalAfter),
	}, nil
}

func clampDiscount(discount, total decimal.Decimal) decimal.Decimal {
	if discount.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if discount.GreaterThan(total) {
		return total
	}
	return discount
}

func parseAmount(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

func containsID(ids []int64, id int64) bool {
	for _, entry := range ids {
		if entry == id {
			return true
		}
	}
	return false
}
