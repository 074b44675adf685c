package catalog

import (
	"strings"

	"smashcost-backend/internal/models"
)

const (
	placeholderName        = "NOUVEAU PRODUIT"
	placeholderComposition = "Description du produit..."
)

// NewProduct returns a placeholder product with no ingredients and zero prices.
func NewProduct(id string) models.Product {
	return models.Product{
		ID:            id,
		Name:          placeholderName,
		Composition:   placeholderComposition,
		Ingredients:   []models.Ingredient{},
		SellingPrices: models.SellingPrices{},
	}
}

// FreeIngredient returns an empty manually costed line.
func FreeIngredient(id string) models.Ingredient {
	return models.Ingredient{ID: id}
}

// IngredientFromSupply returns a line linked to item, named after it.
func IngredientFromSupply(id string, item models.SupplyItem, quantity float64) models.Ingredient {
	return models.Ingredient{
		ID:            id,
		Name:          item.Name,
		QuantityLabel: strings.ToLower(item.UnitLabel),
		SupplyID:      item.ID,
		QuantityValue: models.Float(quantity),
	}
}

// AddProduct appends p and selects it.
func (s State) AddProduct(p models.Product) State {
	products := append(s.copyProducts(), p.Clone())
	s.SelectedID = p.ID
	return s.withProducts(products)
}

// DeleteProduct removes a product unless it is the last one. When the selected
// product is removed the first remaining product becomes current.
func (s State) DeleteProduct(id string) (State, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, ErrProductNotFound
	}
	if len(s.Products) <= 1 {
		return s, ErrLastProduct
	}

	products := make([]models.Product, 0, len(s.Products)-1)
	products = append(products, s.Products[:i]...)
	products = append(products, s.Products[i+1:]...)

	next := s
	if next.SelectedID == id {
		next.SelectedID = products[0].ID
	}
	return next.withProducts(products), nil
}

// UpdateProduct replaces the product with the same id.
func (s State) UpdateProduct(p models.Product) (State, error) {
	i := s.indexOf(p.ID)
	if i < 0 {
		return s, ErrProductNotFound
	}
	products := s.copyProducts()
	products[i] = p.Clone()
	return s.withProducts(products), nil
}

// mapProduct applies fn to a copy of the product and stores the result.
func (s State) mapProduct(id string, fn func(p *models.Product) error) (State, error) {
	current, ok := s.Product(id)
	if !ok {
		return s, ErrProductNotFound
	}
	p := current.Clone()
	if err := fn(&p); err != nil {
		return s, err
	}
	return s.UpdateProduct(p)
}

func (s State) AddIngredient(productID string, ing models.Ingredient) (State, error) {
	return s.mapProduct(productID, func(p *models.Product) error {
		p.Ingredients = append(p.Ingredients, ing)
		return nil
	})
}

// UpdateIngredient replaces the ingredient with the same id.
func (s State) UpdateIngredient(productID string, ing models.Ingredient) (State, error) {
	return s.mapProduct(productID, func(p *models.Product) error {
		for i := range p.Ingredients {
			if p.Ingredients[i].ID == ing.ID {
				p.Ingredients[i] = ing
				return nil
			}
		}
		return ErrIngredientNotFound
	})
}

func (s State) RemoveIngredient(productID, ingredientID string) (State, error) {
	return s.mapProduct(productID, func(p *models.Product) error {
		for i := range p.Ingredients {
			if p.Ingredients[i].ID == ingredientID {
				p.Ingredients = append(p.Ingredients[:i], p.Ingredients[i+1:]...)
				return nil
			}
		}
		return ErrIngredientNotFound
	})
}

// ReorderIngredients moves the ingredient at from to position to.
func (s State) ReorderIngredients(productID string, from, to int) (State, error) {
	return s.mapProduct(productID, func(p *models.Product) error {
		n := len(p.Ingredients)
		if from < 0 || from >= n || to < 0 || to >= n {
			return ErrInvalidMove
		}
		moved := p.Ingredients[from]
		rest := append(p.Ingredients[:from:from], p.Ingredients[from+1:]...)
		out := make([]models.Ingredient, 0, n)
		out = append(out, rest[:to]...)
		out = append(out, moved)
		out = append(out, rest[to:]...)
		p.Ingredients = out
		return nil
	})
}
