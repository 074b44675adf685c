// Package sheet serves products, the current selection and the derived cost
// sheets of the signed-in user.
package sheet

import (
	"errors"
	"log"

	"smashcost-backend/internal/advisor"
	"smashcost-backend/internal/assets"
	"smashcost-backend/internal/audit"
	"smashcost-backend/internal/auth"
	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/pricing"
	"smashcost-backend/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

type Deps struct {
	Workspaces *workspace.Manager
	Audit      *audit.Service
	Pricing    pricing.Policy
	Advisor    *advisor.Advisor
	Uploader   assets.Uploader
	NewID      func() string
}

func Register(r fiber.Router, d Deps) {
	r.Get("/workspace", WorkspaceStatusHandler(d))
	r.Put("/selection", SelectProductHandler(d))
	r.Put("/selection/price-config", SelectPriceConfigHandler(d))

	r.Get("/products", ListProductsHandler(d))
	r.Post("/products", CreateProductHandler(d))
	r.Get("/products/:id", GetProductHandler(d))
	r.Patch("/products/:id", UpdateProductHandler(d))
	r.Delete("/products/:id", DeleteProductHandler(d))

	r.Post("/products/:id/ingredients", AddIngredientHandler(d))
	r.Put("/products/:id/ingredients/order", ReorderIngredientsHandler(d))
	r.Patch("/products/:id/ingredients/:ingredientId", UpdateIngredientHandler(d))
	r.Delete("/products/:id/ingredients/:ingredientId", RemoveIngredientHandler(d))

	r.Get("/products/:id/sheet", ProductSheetHandler(d))
	r.Get("/products/:id/pdf", ProductPDFHandler(d))
	r.Post("/products/:id/analysis", AnalyzeProductHandler(d))
	r.Post("/products/:id/image", UploadImageHandler(d))
}

// productError maps catalog errors to HTTP errors.
func productError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
	case errors.Is(err, catalog.ErrIngredientNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Ingrédient introuvable")
	case errors.Is(err, catalog.ErrSupplyNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Article de stock introuvable")
	case errors.Is(err, catalog.ErrLastProduct):
		return fiber.NewError(fiber.StatusConflict, "Impossible de supprimer le dernier produit")
	case errors.Is(err, catalog.ErrInvalidMove):
		return fiber.NewError(fiber.StatusBadRequest, "Position d'ingrédient invalide")
	case errors.Is(err, workspace.ErrReleased):
		return err
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		log.Printf("catalog operation failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Opération impossible")
	}
}

// changeProduct commits fn, which must only touch the product id, and writes
// an audit entry with the product before and after.
func changeProduct(c *fiber.Ctx, d Deps, ws *workspace.Workspace, id, description string, fn func(s catalog.State) (catalog.State, error)) (models.Product, error) {
	var before, after models.Product
	_, err := ws.Mutate(func(s catalog.State) (catalog.State, error) {
		current, ok := s.Product(id)
		if !ok {
			return s, catalog.ErrProductNotFound
		}
		next, err := fn(s)
		if err != nil {
			return s, err
		}
		before = current
		after, _ = next.Product(id)
		return next, nil
	}, models.KindProducts)
	if err != nil {
		return models.Product{}, productError(err)
	}

	d.Audit.Record(c.UserContext(), audit.LogOptions{
		UserID:      ws.UserID(),
		UserName:    auth.UserName(c),
		EntityType:  models.EntityProduct,
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: description + " : " + after.Name,
		Before:      before,
		After:       after,
	})
	return after, nil
}
