// Package catalog holds the product list and supply catalog of one user and the
// transforms applied to them. A State is a value: every operation returns a new
// State and leaves the receiver untouched. On error the receiver is returned as is.
package catalog

import (
	"errors"

	"smashcost-backend/internal/models"
	"smashcost-backend/internal/supply"
)

var (
	ErrLastProduct        = errors.New("the last product cannot be deleted")
	ErrProductNotFound    = errors.New("product not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrSupplyNotFound     = errors.New("supply item not found")
	ErrInvalidMove        = errors.New("ingredient index out of range")
)

// Policy - selection rules that are configuration, not business law.
type Policy struct {
	StudentMenuProducts []string
}

// StudentAllowed reports whether the student menu may be selected for the product.
func (p Policy) StudentAllowed(productID string) bool {
	for _, id := range p.StudentMenuProducts {
		if id == productID {
			return true
		}
	}
	return false
}

type State struct {
	Products    []models.Product   `json:"products"`
	Supplies    supply.Catalog     `json:"supplies"`
	SelectedID  string             `json:"selectedId"`
	PriceConfig models.PriceConfig `json:"priceConfig"`

	Policy Policy `json:"-"`
}

func New(products []models.Product, supplies supply.Catalog, pol Policy) State {
	s := State{
		Products:    products,
		Supplies:    supplies,
		PriceConfig: models.PriceSingle,
		Policy:      pol,
	}
	return s.normalize()
}

// normalize keeps the selection pointing at an existing product and reverts a
// student configuration the selected product is not allowed to use.
func (s State) normalize() State {
	if _, ok := s.Product(s.SelectedID); !ok {
		s.SelectedID = ""
		if len(s.Products) > 0 {
			s.SelectedID = s.Products[0].ID
		}
	}
	if _, err := models.ParsePriceConfig(string(s.PriceConfig)); err != nil {
		s.PriceConfig = models.PriceSingle
	}
	if s.PriceConfig == models.PriceStudent && !s.Policy.StudentAllowed(s.SelectedID) {
		s.PriceConfig = models.PriceSingle
	}
	return s
}

func (s State) Product(id string) (models.Product, bool) {
	if id == "" {
		return models.Product{}, false
	}
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Current returns the selected product, or the first one when the selection is stale.
func (s State) Current() (models.Product, bool) {
	if p, ok := s.Product(s.SelectedID); ok {
		return p, true
	}
	if len(s.Products) > 0 {
		return s.Products[0], true
	}
	return models.Product{}, false
}

func (s State) indexOf(id string) int {
	for i, p := range s.Products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s State) withProducts(products []models.Product) State {
	s.Products = products
	return s.normalize()
}

func (s State) copyProducts() []models.Product {
	out := make([]models.Product, len(s.Products))
	copy(out, s.Products)
	return out
}

// Select makes id the current product. An unknown id falls back to the first product.
func (s State) Select(id string) State {
	s.SelectedID = id
	return s.normalize()
}

// SelectPriceConfig switches the configuration. A student menu on a product outside
// the allow-list is reverted to single.
func (s State) SelectPriceConfig(cfg models.PriceConfig) State {
	s.PriceConfig = cfg
	return s.normalize()
}
