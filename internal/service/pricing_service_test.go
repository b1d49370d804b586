package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
)

func TestResolveTablePrices(t *testing.T) {
	svc := NewPricingService(nil)
	cases := []struct {
		accountType string
		accountSize string
		price       string
		recurrence  string
	}{
		{"one-step-elite", "25k", "69.00", "monthly"},
		{"one-step-elite", "250k", "309.00", "monthly"},
		{"instant-sim-funded", "50k", "679.00", "one time fee"},
		{"s2f-sim-pro", "100k", "632.00", "one time fee"},
		{"ignite-instant", "25k", "218.00", "one time fee"},
	}
	for _, tc := range cases {
		quote, err := svc.Resolve(context.Background(), tc.accountType, tc.accountSize, "tradovate-ninjatrader")
		if err != nil {
			t.Fatalf("Resolve(%s, %s) error: %v", tc.accountType, tc.accountSize, err)
		}
		if quote.Price.String() != tc.price {
			t.Fatalf("Resolve(%s, %s) price = %s, want %s", tc.accountType, tc.accountSize, quote.Price.String(), tc.price)
		}
		if quote.Recurrence != tc.recurrence {
			t.Fatalf("Resolve(%s, %s) recurrence = %q, want %q", tc.accountType, tc.accountSize, quote.Recurrence, tc.recurrence)
		}
	}
}

func TestResolveUnknownCombination(t *testing.T) {
	svc := NewPricingService(nil)
	if _, err := svc.Resolve(context.Background(), "ignite-instant", "250k", "tradovate-ninjatrader"); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "nope", "25k", "tradovate-ninjatrader"); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "one-step-elite", "25k", "mt5"); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound for unknown platform, got %v", err)
	}
}

func TestResolveLiveOverrideAndFallback(t *testing.T) {
	entry := priceTable["one-step-elite"]["25k"]
	entry.CatalogProductID = 42
	priceTable["one-step-elite"]["25k"] = entry
	defer func() {
		entry.CatalogProductID = 0
		priceTable["one-step-elite"]["25k"] = entry
	}()

	fc := newFakeCommerce()
	fc.getProductFn = func(_ context.Context, productID int64) (*commerce.Product, error) {
		if productID != 42 {
			t.Fatalf("unexpected product id %d", productID)
		}
		return &commerce.Product{ID: 42, Price: "75.50"}, nil
	}
	svc := NewPricingService(fc)

	quote, err := svc.Resolve(context.Background(), "one-step-elite", "25k", "tradovate-ninjatrader")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if quote.Price.String() != "75.50" {
		t.Fatalf("live price should override the table, got %s", quote.Price.String())
	}

	fc.getProductFn = func(_ context.Context, _ int64) (*commerce.Product, error) {
		return nil, errors.New("catalog down")
	}
	quote, err = svc.Resolve(context.Background(), "one-step-elite", "25k", "tradovate-ninjatrader")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if quote.Price.String() != "69.00" {
		t.Fatalf("catalog failure should fall back to the table price, got %s", quote.Price.String())
	}
}

func TestOptionsScopedToAccountType(t *testing.T) {
	svc := NewPricingService(nil)

	opts := svc.Options("")
	if len(opts.AccountTypes) != 4 {
		t.Fatalf("expected 4 account types, got %d", len(opts.AccountTypes))
	}
	if opts.AccountTypes[0].Label != "1- Step ELITE Challenge" {
		t.Fatalf("unexpected first label: %q", opts.AccountTypes[0].Label)
	}
	if len(opts.AccountSizes) != 0 {
		t.Fatalf("sizes should be empty without an account type")
	}

	opts = svc.Options("ignite-instant")
	if len(opts.AccountSizes) != 3 {
		t.Fatalf("ignite-instant should expose 3 sizes, got %d", len(opts.AccountSizes))
	}
	if len(opts.Platforms) != 1 || opts.Platforms[0].Label != "Tradovate / Ninjatrader" {
		t.Fatalf("unexpected platforms: %+v", opts.Platforms)
	}

	opts = svc.Options("one-step-elite")
	if len(opts.AccountSizes) != 4 {
		t.Fatalf("one-step-elite should expose 4 sizes, got %d", len(opts.AccountSizes))
	}
	if opts.AccountSizes[3].Label != "$250,000" {
		t.Fatalf("unexpected size label: %q", opts.AccountSizes[3].Label)
	}
}
