// Package money defines the integer minor-unit representation used for every
// monetary field in the API. Amounts never travel as floats.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in integer minor units (cents for two-decimal
// currencies) paired with its ISO-4217 currency code.
type Amount struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

// New builds an Amount.
func New(minor int64, currency string) Amount {
	return Amount{AmountMinor: minor, Currency: currency}
}

// Add returns a copy with minor added.
func (a Amount) Add(minor int64) Amount {
	return Amount{AmountMinor: a.AmountMinor + minor, Currency: a.Currency}
}

// Sub returns a copy with minor subtracted.
func (a Amount) Sub(minor int64) Amount {
	return Amount{AmountMinor: a.AmountMinor - minor, Currency: a.Currency}
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.AmountMinor == 0
}

// String renders the amount for logs, e.g. "1234.50 EUR".
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", decimal.New(a.AmountMinor, -2).StringFixed(2), a.Currency)
}

// PercentToBps converts a percentage with up to two decimals (e.g. 19.5) to
// basis points (1950). Percentages are stored as basis points so markup and
// tax survive round trips without float drift.
func PercentToBps(percent float64) int32 {
	return int32(decimal.NewFromFloat(percent).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// BpsToPercent converts basis points back to a percentage for API responses.
func BpsToPercent(bps int32) float64 {
	f, _ := decimal.New(int64(bps), -2).Float64()
	return f
}

// ApplyBps scales a minor-unit amount by (1 + bps/10000), rounding half away
// from zero. Used for markup and tax composition.
func ApplyBps(minor int64, bps int32) int64 {
	return decimal.NewFromInt(minor).
		Mul(decimal.NewFromInt(10000 + int64(bps))).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()
}

// Compose applies markup then tax on top of a base cost:
//
//	final = base × (1 + markup/10000) × (1 + tax/10000)
//
// The order is fixed; every pricing path must go through this function so
// category pricers can never disagree on composition order.
func Compose(baseMinor int64, markupBps, taxBps int32) int64 {
	return decimal.NewFromInt(baseMinor).
		Mul(decimal.NewFromInt(10000 + int64(markupBps))).
		Mul(decimal.NewFromInt(10000 + int64(taxBps))).
		Div(decimal.NewFromInt(100000000)).
		Round(0).
		IntPart()
}
