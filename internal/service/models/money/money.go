package money

import "github.com/shopspring/decimal"

// Scale is the number of fraction digits stored for prices and totals.
const Scale = 2

// Format renders d with exactly Scale fraction digits, as the store returns it.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
