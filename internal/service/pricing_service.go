package service

import (
	"context"
	"strings"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/logger"
	"github.com/Innovatio-dev/tof-checkout/internal/models"

	"github.com/shopspring/decimal"
)

// PricingService resolves unit prices and billing recurrence for the
// account selectors. The static table is the source of truth; entries
// carrying catalog IDs get a live price lookup that overrides the table
// value when it succeeds.
type PricingService struct {
	commerce commerce.Client // nil when no live catalog is configured
}

// NewPricingService creates the pricing service.
func NewPricingService(client commerce.Client) *PricingService {
	return &PricingService{commerce: client}
}

// PriceQuote is a resolved price for one checkout selection.
type PriceQuote struct {
	Price              models.Money `json:"price"`
	Recurrence         string       `json:"recurrence"`
	CatalogProductID   int64        `json:"productId,omitempty"`
	CatalogVariationID int64        `json:"variantId,omitempty"`
}

// Resolve maps (account type, account size, platform) to a unit price
// and recurrence. Returns ErrPriceNotFound when the combination has no
// table entry; a live lookup failure falls back to the table price.
func (s *PricingService) Resolve(ctx context.Context, accountType, accountSize, platform string) (*PriceQuote, error) {
	entry, tablePrice, ok := lookupEntry(accountType, accountSize, platform)
	if !ok {
		return nil, ErrPriceNotFound
	}

	quote := &PriceQuote{
		Price:              models.NewMoneyFromDecimal(tablePrice),
		Recurrence:         entry.Recurrence,
		CatalogProductID:   entry.CatalogProductID,
		CatalogVariationID: entry.CatalogVariationID,
	}

	if live, ok := s.livePrice(ctx, entry); ok {
		quote.Price = models.NewMoneyFromDecimal(live)
	}
	return quote, nil
}

// Recurrence resolves only the billing recurrence label.
func (s *PricingService) Recurrence(accountType, accountSize string) (string, error) {
	sizes, ok := priceTable[strings.TrimSpace(accountType)]
	if !ok {
		return "", ErrPriceNotFound
	}
	entry, ok := sizes[strings.TrimSpace(accountSize)]
	if !ok {
		return "", ErrPriceNotFound
	}
	return entry.Recurrence, nil
}

// livePrice attempts the catalog lookup. Any failure is logged and
// swallowed so pricing never breaks on a catalog outage.
func (s *PricingService) livePrice(ctx context.Context, entry PriceEntry) (decimal.Decimal, bool) {
	if s.commerce == nil || entry.CatalogProductID == 0 {
		return decimal.Decimal{}, false
	}

	var raw string
	if entry.CatalogVariationID != 0 {
		variation, err := s.commerce.GetVariation(ctx, entry.CatalogProductID, entry.CatalogVariationID)
		if err != nil || variation == nil {
			logger.Warnw("live_price_lookup_failed",
				"product_id", entry.CatalogProductID,
				"variation_id", entry.CatalogVariationID,
				"error", err,
			)
			return decimal.Decimal{}, false
		}
		raw = variation.Price
	} else {
		product, err := s.commerce.GetProduct(ctx, entry.CatalogProductID)
		if err != nil || product == nil {
			logger.Warnw("live_price_lookup_failed",
				"product_id", entry.CatalogProductID,
				"error", err,
			)
			return decimal.Decimal{}, false
		}
		raw = product.Price
	}

	parsed, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, false
	}
	return parsed, true
}

func lookupEntry(accountType, accountSize, platform string) (PriceEntry, decimal.Decimal, bool) {
	sizes, ok := priceTable[strings.TrimSpace(accountType)]
	if !ok {
		return PriceEntry{}, decimal.Decimal{}, false
	}
	entry, ok := sizes[strings.TrimSpace(accountSize)]
	if !ok {
		return PriceEntry{}, decimal.Decimal{}, false
	}
	tablePrice, ok := entry.Platforms[strings.TrimSpace(platform)]
	if !ok {
		return PriceEntry{}, decimal.Decimal{}, false
	}
	return entry, tablePrice, true
}

// PriceOptions lists the selector options, scoped to an account type
// when one is given.
type PriceOptions struct {
	AccountTypes []Option `json:"accountTypes"`
	AccountSizes []Option `json:"accountSizes"`
	Platforms    []Option `json:"platforms"`
}

// Options builds the selector option lists for the checkout form.
func (s *PricingService) Options(accountType string) *PriceOptions {
	opts := &PriceOptions{
		AccountTypes: make([]Option, 0, len(accountTypeOrder)),
		AccountSizes: []Option{},
		Platforms:    []Option{},
	}
	for _, value := range accountTypeOrder {
		if _, ok := priceTable[value]; !ok {
			continue
		}
		opts.AccountTypes = append(opts.AccountTypes, Option{Value: value, Label: labelOr(accountTypeLabels, value)})
	}

	sizes, ok := priceTable[strings.TrimSpace(accountType)]
	if !ok {
		return opts
	}

	seenPlatforms := map[string]bool{}
	for _, size := range accountSizeOrder {
		entry, ok := sizes[size]
		if !ok {
			continue
		}
		opts.AccountSizes = append(opts.AccountSizes, Option{Value: size, Label: labelOr(accountSizeLabels, size)})
		for platform := range entry.Platforms {
			if !seenPlatforms[platform] {
				seenPlatforms[platform] = true
				opts.Platforms = append(opts.Platforms, Option{Value: platform, Label: labelOr(platformLabels, platform)})
			}
		}
	}
	return opts
}
