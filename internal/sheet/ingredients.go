package sheet

import (
	"strings"

	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/httpx"
	"smashcost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AddIngredientRequest struct {
	// empty for a manually costed line
	SupplyID string   `json:"supplyId"`
	Quantity *float64 `json:"quantity"`
}

// POST /api/products/:id/ingredients
//
// Without supplyId the line is free: name, label and cost are typed by hand.
// With supplyId it is linked to the stock and costed from it.
func AddIngredientHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		var body AddIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		qty := 1.0
		if body.Quantity != nil {
			qty = *body.Quantity
		}
		if qty < 0 {
			return httpx.Invalid("Ingrédient invalide", map[string]string{"quantity": "must_not_be_negative"})
		}

		id := c.Params("id")
		supplyID := strings.TrimSpace(body.SupplyID)
		ing := catalog.FreeIngredient(d.NewID())
		_, err = changeProduct(c, d, ws, id, "Ingrédient ajouté", func(s catalog.State) (catalog.State, error) {
			if supplyID != "" {
				item, ok := s.Supplies.Find(supplyID)
				if !ok {
					return s, catalog.ErrSupplyNotFound
				}
				ing = catalog.IngredientFromSupply(ing.ID, item, qty)
			}
			return s.AddIngredient(id, ing)
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(ing)
	}
}

type UpdateIngredientRequest struct {
	Name          *string  `json:"name"`
	QuantityLabel *string  `json:"quantityLabel"`
	Cost          *float64 `json:"cost"`
	QuantityValue *float64 `json:"quantityValue"`
}

func (r UpdateIngredientRequest) validate() map[string]string {
	v := map[string]string{}
	if r.Cost != nil && *r.Cost < 0 {
		v["cost"] = "must_not_be_negative"
	}
	if r.QuantityValue != nil && *r.QuantityValue < 0 {
		v["quantityValue"] = "must_not_be_negative"
	}
	return v
}

func (r UpdateIngredientRequest) apply(ing models.Ingredient) models.Ingredient {
	if r.Name != nil {
		ing.Name = *r.Name
	}
	if r.QuantityLabel != nil {
		ing.QuantityLabel = *r.QuantityLabel
	}
	if r.Cost != nil {
		ing.Cost = *r.Cost
	}
	if r.QuantityValue != nil {
		ing.QuantityValue = models.Float(*r.QuantityValue)
	}
	return ing
}

// PATCH /api/products/:id/ingredients/:ingredientId
func UpdateIngredientHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		var body UpdateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if v := body.validate(); len(v) > 0 {
			return httpx.Invalid("Ingrédient invalide", v)
		}

		id, ingredientID := c.Params("id"), c.Params("ingredientId")
		var updated models.Ingredient
		_, err = changeProduct(c, d, ws, id, "Ingrédient modifié", func(s catalog.State) (catalog.State, error) {
			p, _ := s.Product(id)
			for _, ing := range p.Ingredients {
				if ing.ID == ingredientID {
					updated = body.apply(ing)
					return s.UpdateIngredient(id, updated)
				}
			}
			return s, catalog.ErrIngredientNotFound
		})
		if err != nil {
			return err
		}
		return c.JSON(updated)
	}
}

// DELETE /api/products/:id/ingredients/:ingredientId
func RemoveIngredientHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		id, ingredientID := c.Params("id"), c.Params("ingredientId")
		p, err := changeProduct(c, d, ws, id, "Ingrédient retiré", func(s catalog.State) (catalog.State, error) {
			return s.RemoveIngredient(id, ingredientID)
		})
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// PUT /api/products/:id/ingredients/order
func ReorderIngredientsHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		var body ReorderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		id := c.Params("id")
		p, err := changeProduct(c, d, ws, id, "Ingrédients réordonnés", func(s catalog.State) (catalog.State, error) {
			return s.ReorderIngredients(id, body.From, body.To)
		})
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}
