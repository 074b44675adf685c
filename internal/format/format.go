// Package format renders amounts the way cost sheets display them.
package format

import (
	"math"

	"github.com/shopspring/decimal"
)

func round(v float64, places int32) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(places)
}

// Amount formats v with two decimals, half away from zero ("1.88").
func Amount(v float64) string {
	return round(v, 2).StringFixed(2)
}

// Euro formats v as "1.88 €".
func Euro(v float64) string {
	return Amount(v) + " €"
}

// Percent formats v with one decimal ("76.8%").
func Percent(v float64) string {
	return round(v, 1).StringFixed(1) + "%"
}

// Quantity drops trailing zeros ("2", "0.5", "1.25").
func Quantity(v float64) string {
	return round(v, 3).String()
}
