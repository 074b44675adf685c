package sheet

import (
	"log"

	"smashcost-backend/internal/auth"
	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/export"
	"smashcost-backend/internal/httpx"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/pricing"

	"github.com/gofiber/fiber/v2"
)

type SheetResponse struct {
	Product     models.Product    `json:"product"`
	ConfigLabel string            `json:"configLabel"`
	Reverted    bool              `json:"reverted"`
	Breakdown   pricing.Breakdown `json:"breakdown"`
}

// resolveConfig reads ?config=, defaults to the workspace configuration and
// falls back to single when the student menu is not offered for the product.
func resolveConfig(c *fiber.Ctx, s catalog.State, productID string) (cfg models.PriceConfig, reverted bool, err error) {
	cfg = s.PriceConfig
	if raw := c.Query("config"); raw != "" {
		if cfg, err = models.ParsePriceConfig(raw); err != nil {
			return "", false, fiber.NewError(fiber.StatusBadRequest, "Configuration de prix inconnue")
		}
	}
	if cfg == models.PriceStudent && !s.Policy.StudentAllowed(productID) {
		return models.PriceSingle, true, nil
	}
	return cfg, false, nil
}

// computeSheet loads the product named in the route and its breakdown.
func computeSheet(c *fiber.Ctx, d Deps) (SheetResponse, error) {
	ws, err := httpx.Workspace(c, d.Workspaces)
	if err != nil {
		return SheetResponse{}, err
	}

	s := ws.State()
	p, ok := s.Product(c.Params("id"))
	if !ok {
		return SheetResponse{}, fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
	}
	cfg, reverted, err := resolveConfig(c, s, p.ID)
	if err != nil {
		return SheetResponse{}, err
	}

	return SheetResponse{
		Product:     p,
		ConfigLabel: cfg.Label(),
		Reverted:    reverted,
		Breakdown:   d.Pricing.Compute(p, s.Supplies, cfg),
	}, nil
}

// GET /api/products/:id/sheet?config=single|menu|student
func ProductSheetHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sheet, err := computeSheet(c, d)
		if err != nil {
			return err
		}
		return c.JSON(sheet)
	}
}

// GET /api/products/:id/pdf?config=single|menu|student
func ProductPDFHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sheet, err := computeSheet(c, d)
		if err != nil {
			return err
		}

		data, err := export.RenderPDF(export.NewSheetView(sheet.Product, sheet.Breakdown))
		if err != nil {
			log.Printf("pdf of product %s: %v", sheet.Product.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Export PDF impossible")
		}

		c.Attachment(export.FileName(sheet.Product.Name))
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(data)
	}
}

// POST /api/products/:id/analysis
//
// Always answers 200: when the analysis backend fails the body is the
// offline placeholder.
func AnalyzeProductHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		s := ws.State()
		p, ok := s.Product(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
		}

		return c.JSON(d.Advisor.Analyze(c.UserContext(), pricing.Summarize(p, s.Supplies)))
	}
}

type ImageResponse struct {
	URL *string `json:"url"`
}

// POST /api/products/:id/image (multipart, field "image")
//
// A failed upload answers {"url": null} and the product keeps its picture.
func UploadImageHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")
		if _, ok := ws.State().Product(id); !ok {
			return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Image manquante")
		}
		file, err := fileHeader.Open()
		if err != nil {
			log.Printf("[WARN] open uploaded image: %v", err)
			return c.JSON(ImageResponse{})
		}
		defer file.Close()

		url, err := d.Uploader.Upload(userID, id, file)
		if err != nil {
			log.Printf("[WARN] image upload for product %s failed: %v", id, err)
			return c.JSON(ImageResponse{})
		}

		if _, err := changeProduct(c, d, ws, id, "Image modifiée", func(s catalog.State) (catalog.State, error) {
			p, _ := s.Product(id)
			p.ImagePlaceholder = url
			return s.UpdateProduct(p)
		}); err != nil {
			if rmErr := d.Uploader.Remove(url); rmErr != nil {
				log.Printf("[WARN] removing unused image %s: %v", url, rmErr)
			}
			return err
		}
		return c.JSON(ImageResponse{URL: &url})
	}
}
