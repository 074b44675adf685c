package models

import "fmt"

// PriceConfig selects which selling price (and which cost bundle) a sheet is computed for.
type PriceConfig string

const (
	PriceSingle  PriceConfig = "single"
	PriceMenu    PriceConfig = "menu"
	PriceStudent PriceConfig = "student"
)

// PriceConfigs lists every configuration in display order.
var PriceConfigs = []PriceConfig{PriceSingle, PriceMenu, PriceStudent}

// ParsePriceConfig validates a configuration coming from a request.
func ParsePriceConfig(s string) (PriceConfig, error) {
	switch PriceConfig(s) {
	case PriceSingle, PriceMenu, PriceStudent:
		return PriceConfig(s), nil
	default:
		return "", fmt.Errorf("unknown price configuration %q", s)
	}
}

// IsMenu reports whether the side and drink add-ons are part of the cost.
func (p PriceConfig) IsMenu() bool {
	switch p {
	case PriceMenu, PriceStudent:
		return true
	case PriceSingle:
		return false
	default:
		return false
	}
}

// Label is the French label shown on sheets.
func (p PriceConfig) Label() string {
	switch p {
	case PriceSingle:
		return "Seul"
	case PriceMenu:
		return "En Menu"
	case PriceStudent:
		return "En Menu étudiant"
	default:
		return string(p)
	}
}

// SellingPrices - TTC prices for each configuration
type SellingPrices struct {
	Single  float64 `json:"single"`
	Menu    float64 `json:"menu"`
	Student float64 `json:"student"`
}

// For returns the TTC price of the given configuration, 0 for an unknown one.
func (sp SellingPrices) For(cfg PriceConfig) float64 {
	switch cfg {
	case PriceSingle:
		return sp.Single
	case PriceMenu:
		return sp.Menu
	case PriceStudent:
		return sp.Student
	default:
		return 0
	}
}

// With returns a copy with the price of cfg replaced.
func (sp SellingPrices) With(cfg PriceConfig, price float64) SellingPrices {
	switch cfg {
	case PriceSingle:
		sp.Single = price
	case PriceMenu:
		sp.Menu = price
	case PriceStudent:
		sp.Student = price
	}
	return sp
}

// Ingredient - one line of a product's bill of materials.
//
// SupplyID is a weak reference: it is resolved against the supply catalog at
// computation time and never owns the item. When it is set, Cost is ignored.
type Ingredient struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	QuantityLabel string   `json:"quantityLabel"`
	Cost          float64  `json:"cost"`
	SupplyID      string   `json:"supplyId,omitempty"`
	QuantityValue *float64 `json:"quantityValue,omitempty"`
}

// Linked reports whether the ingredient is costed from the supply catalog.
func (i Ingredient) Linked() bool { return i.SupplyID != "" }

// Quantity returns the consumed quantity of the linked supply unit, 0 when unset.
func (i Ingredient) Quantity() float64 {
	if i.QuantityValue == nil {
		return 0
	}
	return *i.QuantityValue
}

// Product - a sellable menu item (burger)
type Product struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Composition      string        `json:"composition"`
	ImagePlaceholder string        `json:"imagePlaceholder"`
	Ingredients      []Ingredient  `json:"ingredients"`
	SellingPrices    SellingPrices `json:"sellingPrices"`
	MenuSideID       string        `json:"menuSideId,omitempty"`
	MenuDrinkID      string        `json:"menuDrinkId,omitempty"`
}

// Clone returns a deep copy so that transforms never share ingredient slices.
func (p Product) Clone() Product {
	out := p
	if p.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(p.Ingredients))
		for i, ing := range p.Ingredients {
			if ing.QuantityValue != nil {
				v := *ing.QuantityValue
				ing.QuantityValue = &v
			}
			out.Ingredients[i] = ing
		}
	}
	return out
}

// Float returns a pointer to v, for optional quantities.
func Float(v float64) *float64 { return &v }
