// Package format renders quantities and money for receipts and the UI.
package format

import "github.com/shopspring/decimal"

// Quantity renders whole numbers without decimals and anything else with one.
func Quantity(v decimal.Decimal) string {
	return fixed(v, 1)
}

// Money renders whole amounts without decimals and anything else with two.
func Money(v decimal.Decimal) string {
	return fixed(v, 2)
}

func fixed(v decimal.Decimal, places int32) string {
	if v.Equal(v.Truncate(0)) {
		return v.StringFixed(0)
	}
	return v.StringFixed(places)
}
