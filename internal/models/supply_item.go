package models

import "math"

// SupplyItem - a purchasable package from a supplier (stock catalog entry)
type SupplyItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Supplier        string  `json:"supplier"`
	PackagePrice    float64 `json:"packagePrice"`    // HT price paid for one package
	PackageQuantity float64 `json:"packageQuantity"` // units contained in one package
	UnitLabel       string  `json:"unitLabel"`       // g, ml, tranche, unité, portion...
}

// UnitCost returns the HT cost of one unit. A package with no quantity, or
// with a non-finite price or quantity, costs 0 per unit.
func (s SupplyItem) UnitCost() float64 {
	if s.PackageQuantity <= 0 {
		return 0
	}
	cost := s.PackagePrice / s.PackageQuantity
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0
	}
	return cost
}
