package service

import (
	"context"
	"testing"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"

	"github.com/shopspring/decimal"
)

func TestEvaluateEmptyCode(t *testing.T) {
	svc := NewCouponService(newFakeCommerce())
	evaluation, err := svc.Evaluate(context.Background(), "  ", "a@b.com", 1, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if evaluation.Valid {
		t.Fatalf("expected rejection")
	}
	if evaluation.Reason != ReasonCouponCodeRequired {
		t.Fatalf("unexpected reason: %q", evaluation.Reason)
	}
	if evaluation.TotalAfterDiscount.String() != "100.00" {
		t.Fatalf("running total should be untouched, got %s", evaluation.TotalAfterDiscount.String())
	}
}

func TestEvaluateUnknownCode(t *testing.T) {
	svc := NewCouponService(newFakeCommerce())
	evaluation, err := svc.Evaluate(context.Background(), "NOPE", "a@b.com", 1, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if evaluation.Valid || evaluation.Reason != ReasonCouponNotFound {
		t.Fatalf("unexpected evaluation: %+v", evaluation)
	}
}

func TestEvaluateInactiveCoupon(t *testing.T) {
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{ID: 1, Code: "DRAFT10", Amount: "10", Status: "draft", DiscountType: "percent"})
	svc := NewCouponService(fc)

	evaluation, err := svc.Evaluate(context.Background(), "DRAFT10", "a@b.com", 1, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if evaluation.Valid || evaluation.Reason != ReasonCouponInactive {
		t.Fatalf("unexpected evaluation: %+v", evaluation)
	}
}

func TestEvaluateMissingStatusTreatedAsActive(t *testing.T) {
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{ID: 1, Code: "NOSTATUS", Amount: "10", DiscountType: "percent"})
	svc := NewCouponService(fc)

	evaluation, err := svc.Evaluate(context.Background(), "NOSTATUS", "a@b.com", 1, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !evaluation.Valid {
		t.Fatalf("expected acceptance, got reason %q", evaluation.Reason)
	}
}

func TestEvaluateExpiredCoupon(t *testing.T) {
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{
		ID:             1,
		Code:           "OLD",
		Amount:         "10",
		Status:         "publish",
		DiscountType:   "percent",
		DateExpiresGMT: time.Now().Add(-time.Hour).UTC().Format("2006-01-02T15:04:05"),
	})
	svc := NewCouponService(fc)

	evaluation, err := svc.Evaluate(context.Background(), "OLD", "a@b.com", 1, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if evaluation.Valid || evaluation.Reason != ReasonCouponExpired {
		t.Fatalf("unexpected evaluation: %+v", evaluation)
	}
}

func TestEvaluateProductScopes(t *testing.T) {
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{ID: 1, Code: "ONLY5", Amount: "10", Status: "publish", DiscountType: "percent", ProductIDs: []int64{5}})
	fc.addCoupon(&commerce.Coupon{ID: 2, Code: "NOT7", Amount: "10", Status: "publish", DiscountType: "percent", ExcludedProductIDs: []int64{7}})
	svc := NewCouponService(fc)

	evaluation, _ := svc.Evaluate(context.Background(), "ONLY5", "a@b.com", 6, decimal.NewFromInt(100))
	if evaluation.Valid || evaluation.Reason != ReasonCouponWrongProduct {
		t.Fatalf("allowed-list miss should reject: %+v", evaluation)
	}

	evaluation, _ = svc.Evaluate(context.Background(), "NOT7", "a@b.com", 7, decimal.NewFromInt(100))
	if evaluation.Valid || evaluation.Reason != ReasonCouponWrongProduct {
		t.Fatalf("excluded-list hit should reject: %+v", evaluation)
	}

	evaluation, _ = svc.Evaluate(context.Background(), "ONLY5", "a@b.com", 5, decimal.NewFromInt(100))
	if !evaluation.Valid {
		t.Fatalf("allowed product should pass, got %q", evaluation.Reason)
	}
}

func TestEvaluateUsageLimit(t *testing.T) {
	limit := 3
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{ID: 1, Code: "USED", Amount: "10", Status: "publish", DiscountType: "percent", UsageLimit: &limit, UsageCount: 3})
	svc := NewCouponService(fc)

	evaluation, _ := svc.Evaluate(context.Background(), "USED", "a@b.com", 1, decimal.NewFromInt(100))
	if evaluation.Valid || evaluation.Reason != ReasonCouponUsageLimit {
		t.Fatalf("unexpected evaluation: %+v", evaluation)
	}
}

func TestEvaluateEmailRestriction(t *testing.T) {
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{ID: 1, Code: "VIP", Amount: "10", Status: "publish", DiscountType: "percent", EmailRestrictions: []string{"VIP@Example.com"}})
	svc := NewCouponService(fc)

	evaluation, _ := svc.Evaluate(context.Background(), "VIP", "other@example.com", 1, decimal.NewFromInt(100))
	if evaluation.Valid || evaluation.Reason != ReasonCouponWrongEmail {
		t.Fatalf("unexpected evaluation: %+v", evaluation)
	}

	evaluation, _ = svc.Evaluate(context.Background(), "VIP", "vip@example.com", 1, decimal.NewFromInt(100))
	if !evaluation.Valid {
		t.Fatalf("email match should be case-insensitive, got %q", evaluation.Reason)
	}
}

func TestEvaluateMinMaxAmounts(t *testing.T) {
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{ID: 1, Code: "MIN50", Amount: "10", Status: "publish", DiscountType: "percent", MinimumAmount: "50"})
	fc.addCoupon(&commerce.Coupon{ID: 2, Code: "MAX500", Amount: "10", Status: "publish", DiscountType: "percent", MaximumAmount: "500"})
	svc := NewCouponService(fc)

	evaluation, _ := svc.Evaluate(context.Background(), "MIN50", "a@b.com", 1, decimal.NewFromInt(49))
	if evaluation.Valid || evaluation.Reason != ReasonCouponBelowMinimum {
		t.Fatalf("unexpected evaluation: %+v", evaluation)
	}

	evaluation, _ = svc.Evaluate(context.Background(), "MAX500", "a@b.com", 1, decimal.NewFromInt(501))
	if evaluation.Valid || evaluation.Reason != ReasonCouponAboveMaximum {
		t.Fatalf("unexpected evaluation: %+v", evaluation)
	}
}

func TestEvaluatePercentDiscount(t *testing.T) {
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{ID: 1, Code: "TEN", Amount: "10", Status: "publish", DiscountType: "percent"})
	svc := NewCouponService(fc)

	evaluation, err := svc.Evaluate(context.Background(), "TEN", "a@b.com", 1, decimal.NewFromInt(679))
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !evaluation.Valid {
		t.Fatalf("expected acceptance, got %q", evaluation.Reason)
	}
	if evaluation.DiscountAmount.String() != "67.90" {
		t.Fatalf("expected discount 67.90, got %s", evaluation.DiscountAmount.String())
	}
	if evaluation.TotalAfterDiscount.String() != "611.10" {
		t.Fatalf("expected total 611.10, got %s", evaluation.TotalAfterDiscount.String())
	}
}

func TestEvaluateFlatDiscountClamped(t *testing.T) {
	fc := newFakeCommerce()
	fc.addCoupon(&commerce.Coupon{ID: 1, Code: "BIG", Amount: "150", Status: "publish", DiscountType: "fixed_cart"})
	svc := NewCouponService(fc)

	evaluation, _ := svc.Evaluate(context.Background(), "BIG", "a@b.com", 1, decimal.NewFromInt(100))
	if !evaluation.Valid {
		t.Fatalf("expected acceptance, got %q", evaluation.Reason)
	}
	if evaluation.DiscountAmount.String() != "100.00" {
		t.Fatalf("discount should clamp to total, got %s", evaluation.DiscountAmount.String())
	}
	if evaluation.TotalAfterDiscount.String() != "0.00" {
		t.Fatalf("total should floor at zero, got %s", evaluation.TotalAfterDiscount.String())
	}
}
