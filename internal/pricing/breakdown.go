package pricing

import (
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/supply"
)

// Line - cost of one ingredient as resolved against the catalog.
type Line struct {
	IngredientID  string  `json:"ingredientId"`
	Name          string  `json:"name"`
	QuantityLabel string  `json:"quantityLabel"`
	SupplyID      string  `json:"supplyId,omitempty"`
	Linked        bool    `json:"linked"`
	Dangling      bool    `json:"dangling"` // linked to an item no longer in the catalog
	UnitLabel     string  `json:"unitLabel,omitempty"`
	UnitCost      float64 `json:"unitCost"`
	Quantity      float64 `json:"quantity"`
	Cost          float64 `json:"cost"`
}

// Addon - the side or drink bundled in a menu.
type Addon struct {
	SupplyID string  `json:"supplyId"`
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
}

// Breakdown - every derived figure of a product sheet for one configuration.
type Breakdown struct {
	ProductID string             `json:"productId"`
	Config    models.PriceConfig `json:"config"`
	Lines     []Line             `json:"lines"`
	MenuSide  *Addon             `json:"menuSide,omitempty"`
	MenuDrink *Addon             `json:"menuDrink,omitempty"`

	BaseCostHT          float64 `json:"baseCostHT"`
	MenuAddonsCostHT    float64 `json:"menuAddonsCostHT"`
	TotalCostHT         float64 `json:"totalCostHT"`
	SellingPriceTTC     float64 `json:"sellingPriceTTC"`
	SellingPriceHT      float64 `json:"sellingPriceHT"`
	MarginHT            float64 `json:"marginHT"`
	MarginPercent       float64 `json:"marginPercent"`
	FoodCostPercent     float64 `json:"foodCostPercent"`
	RecommendedPriceHT  float64 `json:"recommendedPriceHT"`
	RecommendedPriceTTC float64 `json:"recommendedPriceTTC"`
	MarginAlert         bool    `json:"marginAlert"`
}

// Compute builds the full breakdown of p under cfg.
func (pol Policy) Compute(p models.Product, catalog supply.Catalog, cfg models.PriceConfig) Breakdown {
	b := Breakdown{
		ProductID: p.ID,
		Config:    cfg,
		Lines:     make([]Line, 0, len(p.Ingredients)),
	}

	for _, ing := range p.Ingredients {
		line := Line{
			IngredientID:  ing.ID,
			Name:          ing.Name,
			QuantityLabel: ing.QuantityLabel,
			SupplyID:      ing.SupplyID,
			Linked:        ing.Linked(),
			Cost:          IngredientCost(ing, catalog),
		}
		if line.Linked {
			line.Quantity = ing.Quantity()
			if item, ok := catalog.Find(ing.SupplyID); ok {
				line.UnitLabel = item.UnitLabel
				line.UnitCost = item.UnitCost()
			} else {
				line.Dangling = true
			}
		}
		b.Lines = append(b.Lines, line)
	}

	if cfg.IsMenu() {
		b.MenuSide = addon(catalog, p.MenuSideID)
		b.MenuDrink = addon(catalog, p.MenuDrinkID)
	}

	b.BaseCostHT = BaseCostHT(p, catalog)
	b.MenuAddonsCostHT = MenuAddonsCostHT(p, catalog, cfg)
	b.TotalCostHT = b.BaseCostHT + b.MenuAddonsCostHT
	b.SellingPriceTTC = p.SellingPrices.For(cfg)
	b.SellingPriceHT = pol.SellingPriceHT(p, cfg)
	b.MarginHT = pol.MarginHT(p, catalog, cfg)
	b.MarginPercent = pol.MarginPercent(p, catalog, cfg)
	b.FoodCostPercent = pol.FoodCostPercent(p, catalog, cfg)
	b.RecommendedPriceHT = pol.RecommendedPriceHT(p, catalog, cfg)
	b.RecommendedPriceTTC = pol.RecommendedPriceTTC(p, catalog, cfg)
	b.MarginAlert = b.MarginPercent < pol.MarginAlertPercent

	return b
}

func addon(catalog supply.Catalog, id string) *Addon {
	if id == "" {
		return nil
	}
	item, ok := catalog.Find(id)
	if !ok {
		return &Addon{SupplyID: id}
	}
	return &Addon{SupplyID: id, Name: item.Name, Cost: item.UnitCost()}
}

// AnalysisIngredient - ingredient as sent to the analysis service, cost already resolved.
type AnalysisIngredient struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	QuantityLabel string  `json:"quantityLabel"`
	Cost          float64 `json:"cost"`
}

// AnalysisRequest - numeric summary of a product handed to the analysis service.
// It carries no supply links.
type AnalysisRequest struct {
	ProductID     string               `json:"productId"`
	Name          string               `json:"name"`
	Ingredients   []AnalysisIngredient `json:"ingredients"`
	SellingPrices models.SellingPrices `json:"sellingPrices"`
}

func Summarize(p models.Product, catalog UnitCoster) AnalysisRequest {
	req := AnalysisRequest{
		ProductID:     p.ID,
		Name:          p.Name,
		Ingredients:   make([]AnalysisIngredient, 0, len(p.Ingredients)),
		SellingPrices: p.SellingPrices,
	}
	for _, ing := range p.Ingredients {
		req.Ingredients = append(req.Ingredients, AnalysisIngredient{
			ID:            ing.ID,
			Name:          ing.Name,
			QuantityLabel: ing.QuantityLabel,
			Cost:          IngredientCost(ing, catalog),
		})
	}
	return req
}
