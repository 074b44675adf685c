package sheet

import (
	"strings"

	"smashcost-backend/internal/audit"
	"smashcost-backend/internal/auth"
	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/httpx"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

type SelectionResponse struct {
	SelectedID  string             `json:"selectedId"`
	PriceConfig models.PriceConfig `json:"priceConfig"`
	// true when a student menu was asked for a product outside the allow-list
	Reverted            bool     `json:"reverted"`
	StudentMenuAllowed  bool     `json:"studentMenuAllowed"`
	StudentMenuProducts []string `json:"studentMenuProducts"`
}

func selection(s catalog.State) SelectionResponse {
	return SelectionResponse{
		SelectedID:          s.SelectedID,
		PriceConfig:         s.PriceConfig,
		StudentMenuAllowed:  s.Policy.StudentAllowed(s.SelectedID),
		StudentMenuProducts: s.Policy.StudentMenuProducts,
	}
}

type ProductListResponse struct {
	Products []models.Product `json:"products"`
	SelectionResponse
}

type WorkspaceResponse struct {
	Status workspace.Status                                `json:"status"`
	Saves  map[models.CollectionKind]*workspace.SaveResult `json:"saves"`
	SelectionResponse
}

// GET /api/workspace
//
// Loads the workspace when needed. A failed load answers 503 with the status
// so that the client knows it may retry.
func WorkspaceStatusHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		ws := d.Workspaces.Get(userID)
		loadErr := ws.Load(c.UserContext())

		resp := WorkspaceResponse{
			Status:            ws.Status(),
			Saves:             ws.SaveResults(),
			SelectionResponse: selection(ws.State()),
		}
		if loadErr != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
		return c.JSON(resp)
	}
}

// GET /api/products
func ListProductsHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}
		s := ws.State()
		return c.JSON(ProductListResponse{Products: s.Products, SelectionResponse: selection(s)})
	}
}

// GET /api/products/:id
func GetProductHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}
		p, ok := ws.State().Product(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
		}
		return c.JSON(p)
	}
}

// POST /api/products
//
// Adds a placeholder product and makes it current.
func CreateProductHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		p := catalog.NewProduct(d.NewID())
		if _, err := ws.Mutate(func(s catalog.State) (catalog.State, error) {
			return s.AddProduct(p), nil
		}, models.KindProducts); err != nil {
			return productError(err)
		}

		d.Audit.Record(c.UserContext(), audit.LogOptions{
			UserID:      ws.UserID(),
			UserName:    auth.UserName(c),
			EntityType:  models.EntityProduct,
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "Produit créé",
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

type SellingPricesRequest struct {
	Single  *float64 `json:"single"`
	Menu    *float64 `json:"menu"`
	Student *float64 `json:"student"`
}

type UpdateProductRequest struct {
	Name             *string               `json:"name"`
	Composition      *string               `json:"composition"`
	ImagePlaceholder *string               `json:"imagePlaceholder"`
	SellingPrices    *SellingPricesRequest `json:"sellingPrices"`
	// an empty string removes the add-on
	MenuSideID  *string `json:"menuSideId"`
	MenuDrinkID *string `json:"menuDrinkId"`
}

func (r UpdateProductRequest) validate() map[string]string {
	v := map[string]string{}
	if r.SellingPrices != nil {
		for field, price := range map[string]*float64{
			"sellingPrices.single":  r.SellingPrices.Single,
			"sellingPrices.menu":    r.SellingPrices.Menu,
			"sellingPrices.student": r.SellingPrices.Student,
		} {
			if price != nil && *price < 0 {
				v[field] = "must_not_be_negative"
			}
		}
	}
	return v
}

func (r UpdateProductRequest) apply(p *models.Product) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Composition != nil {
		p.Composition = *r.Composition
	}
	if r.ImagePlaceholder != nil {
		p.ImagePlaceholder = *r.ImagePlaceholder
	}
	if sp := r.SellingPrices; sp != nil {
		if sp.Single != nil {
			p.SellingPrices = p.SellingPrices.With(models.PriceSingle, *sp.Single)
		}
		if sp.Menu != nil {
			p.SellingPrices = p.SellingPrices.With(models.PriceMenu, *sp.Menu)
		}
		if sp.Student != nil {
			p.SellingPrices = p.SellingPrices.With(models.PriceStudent, *sp.Student)
		}
	}
	if r.MenuSideID != nil {
		p.MenuSideID = *r.MenuSideID
	}
	if r.MenuDrinkID != nil {
		p.MenuDrinkID = *r.MenuDrinkID
	}
}

// PATCH /api/products/:id
func UpdateProductHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if v := body.validate(); len(v) > 0 {
			return httpx.Invalid("Produit invalide", v)
		}

		id := c.Params("id")
		p, err := changeProduct(c, d, ws, id, "Produit modifié", func(s catalog.State) (catalog.State, error) {
			p, _ := s.Product(id)
			p = p.Clone()
			body.apply(&p)
			return s.UpdateProduct(p)
		})
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// DELETE /api/products/:id
//
// The last product cannot be deleted: the request answers 409 and nothing changes.
func DeleteProductHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		id := c.Params("id")
		var removed models.Product
		next, err := ws.Mutate(func(s catalog.State) (catalog.State, error) {
			removed, _ = s.Product(id)
			return s.DeleteProduct(id)
		}, models.KindProducts)
		if err != nil {
			return productError(err)
		}

		d.Audit.Record(c.UserContext(), audit.LogOptions{
			UserID:      ws.UserID(),
			UserName:    auth.UserName(c),
			EntityType:  models.EntityProduct,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Produit supprimé : " + removed.Name,
			Before:      removed,
		})

		return c.JSON(selection(next))
	}
}

type SelectProductRequest struct {
	ProductID string `json:"productId"`
}

// PUT /api/selection
func SelectProductHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		var body SelectProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		next := ws.Select(func(s catalog.State) catalog.State {
			return s.Select(body.ProductID)
		})
		return c.JSON(selection(next))
	}
}

type SelectPriceConfigRequest struct {
	Config string `json:"config"`
}

// PUT /api/selection/price-config
//
// A student menu asked for a product outside the allow-list falls back to
// single. The answer reports the effective configuration.
func SelectPriceConfigHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		var body SelectPriceConfigRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		cfg, err := models.ParsePriceConfig(body.Config)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Configuration de prix inconnue")
		}

		next := ws.Select(func(s catalog.State) catalog.State {
			return s.SelectPriceConfig(cfg)
		})
		resp := selection(next)
		resp.Reverted = next.PriceConfig != cfg
		return c.JSON(resp)
	}
}
