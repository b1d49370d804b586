package service

import (
	"github.com/Innovatio-dev/tof-checkout/internal/constants"

	"github.com/shopspring/decimal"
)

// PriceEntry is one (account type, account size) cell of the static
// price table. Catalog IDs, when set, let the resolver try a live
// price lookup before falling back to the table value.
type PriceEntry struct {
	Recurrence         string
	Platforms          map[string]decimal.Decimal
	CatalogProductID   int64
	CatalogVariationID int64
}

// Option is a value/label pair for the checkout selectors.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var accountTypeLabels = map[string]string{
	"one-step-elite":     "1- Step ELITE Challenge",
	"instant-sim-funded": "INSTANT Sim Funded",
	"s2f-sim-pro":        "S2F Sim PRO",
	"ignite-instant":     "IGNITE Instant Funding",
}

var accountSizeLabels = map[string]string{
	"25k":  "$25,000",
	"50k":  "$50,000",
	"100k": "$100,000",
	"250k": "$250,000",
}

var platformLabels = map[string]string{
	"tradovate-ninjatrader": "Tradovate / Ninjatrader",
}

// accountTypeOrder pins the selector ordering; map iteration would
// shuffle it on every request.
var accountTypeOrder = []string{
	"one-step-elite",
	"instant-sim-funded",
	"s2f-sim-pro",
	"ignite-instant",
}

var accountSizeOrder = []string{"25k", "50k", "100k", "250k"}

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

var priceTable = map[string]map[string]PriceEntry{
	"one-step-elite": {
		"25k":  {Recurrence: constants.RecurrenceMonthly, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(69)}},
		"50k":  {Recurrence: constants.RecurrenceMonthly, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(105)}},
		"100k": {Recurrence: constants.RecurrenceMonthly, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(209)}},
		"250k": {Recurrence: constants.RecurrenceMonthly, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(309)}},
	},
	"instant-sim-funded": {
		"25k":  {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(419)}},
		"50k":  {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(679)}},
		"100k": {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(821)}},
		"250k": {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(939)}},
	},
	"s2f-sim-pro": {
		"25k":  {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(257)}},
		"50k":  {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(421)}},
		"100k": {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(632)}},
		"250k": {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(727)}},
	},
	"ignite-instant": {
		"25k":  {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(218)}},
		"50k":  {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(398)}},
		"100k": {Recurrence: constants.RecurrenceOneTime, Platforms: map[string]decimal.Decimal{"tradovate-ninjatrader": price(563)}},
	},
}

func labelOr(labels map[string]string, value string) string {
	if label, ok := labels[value]; ok {
		return label
	}
	return value
}
