// Package pricing derives cost, margin and recommended price figures for a
// product. Every function is pure and recomputes from the live supply
// catalog; nothing is cached and nothing is rounded.
package pricing

import (
	"sort"

	"smashcost-backend/internal/models"
)

// UnitCoster resolves the HT cost of one unit of a supply item, 0 when unknown.
type UnitCoster interface {
	UnitCost(supplyID string) float64
}

// Policy holds the tax and profitability settings used by the engine.
type Policy struct {
	TVARate             float64 // multiplier from HT to TTC
	TargetFoodCostRatio float64 // share of the HT selling price the cost should represent
	MarginAlertPercent  float64 // margins below this are flagged
}

func DefaultPolicy() Policy {
	return Policy{
		TVARate:             1.10,
		TargetFoodCostRatio: 0.30,
		MarginAlertPercent:  70,
	}
}

// IngredientCost - linked ingredients are always costed from the catalog
// (a dangling link or a missing quantity gives 0), free ingredients use their manual cost.
func IngredientCost(ing models.Ingredient, catalog UnitCoster) float64 {
	if ing.Linked() {
		return catalog.UnitCost(ing.SupplyID) * ing.Quantity()
	}
	return ing.Cost
}

// BaseCostHT sums the ingredient costs in ascending order, so that reordering
// the ingredients gives the exact same float.
func BaseCostHT(p models.Product, catalog UnitCoster) float64 {
	costs := make([]float64, len(p.Ingredients))
	for i, ing := range p.Ingredients {
		costs[i] = IngredientCost(ing, catalog)
	}
	sort.Float64s(costs)

	total := 0.0
	for _, c := range costs {
		total += c
	}
	return total
}

// MenuAddonsCostHT is the cost of one side and one drink for menu configurations.
func MenuAddonsCostHT(p models.Product, catalog UnitCoster, cfg models.PriceConfig) float64 {
	if !cfg.IsMenu() {
		return 0
	}
	total := 0.0
	if p.MenuSideID != "" {
		total += catalog.UnitCost(p.MenuSideID)
	}
	if p.MenuDrinkID != "" {
		total += catalog.UnitCost(p.MenuDrinkID)
	}
	return total
}

func TotalCostHT(p models.Product, catalog UnitCoster, cfg models.PriceConfig) float64 {
	return BaseCostHT(p, catalog) + MenuAddonsCostHT(p, catalog, cfg)
}

func (pol Policy) SellingPriceHT(p models.Product, cfg models.PriceConfig) float64 {
	if pol.TVARate <= 0 {
		return 0
	}
	return p.SellingPrices.For(cfg) / pol.TVARate
}

func (pol Policy) MarginHT(p models.Product, catalog UnitCoster, cfg models.PriceConfig) float64 {
	return pol.SellingPriceHT(p, cfg) - TotalCostHT(p, catalog, cfg)
}

func (pol Policy) MarginPercent(p models.Product, catalog UnitCoster, cfg models.PriceConfig) float64 {
	priceHT := pol.SellingPriceHT(p, cfg)
	if priceHT <= 0 {
		return 0
	}
	return (priceHT - TotalCostHT(p, catalog, cfg)) / priceHT * 100
}

// FoodCostPercent is the cost as a share of the HT selling price.
func (pol Policy) FoodCostPercent(p models.Product, catalog UnitCoster, cfg models.PriceConfig) float64 {
	priceHT := pol.SellingPriceHT(p, cfg)
	if priceHT <= 0 {
		return 0
	}
	return TotalCostHT(p, catalog, cfg) / priceHT * 100
}

// RecommendedPriceHT is the HT price at which the cost hits the target food cost ratio.
func (pol Policy) RecommendedPriceHT(p models.Product, catalog UnitCoster, cfg models.PriceConfig) float64 {
	cost := TotalCostHT(p, catalog, cfg)
	if cost <= 0 || pol.TargetFoodCostRatio <= 0 {
		return 0
	}
	return cost / pol.TargetFoodCostRatio
}

func (pol Policy) RecommendedPriceTTC(p models.Product, catalog UnitCoster, cfg models.PriceConfig) float64 {
	return pol.RecommendedPriceHT(p, catalog, cfg) * pol.TVARate
}
