// Package stock serves the supply catalog of the signed-in user.
package stock

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"smashcost-backend/internal/audit"
	"smashcost-backend/internal/auth"
	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/httpx"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/supply"
	"smashcost-backend/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

const MaxImportBytes = 10 << 20

type Deps struct {
	Workspaces *workspace.Manager
	Audit      *audit.Service
	NewID      func() string
}

type SupplyResponse struct {
	models.SupplyItem
	UnitCost    float64 `json:"unitCost"`
	UnitDisplay string  `json:"unitDisplay"`
}

type SupplyRequest struct {
	Name            *string  `json:"name"`
	Supplier        *string  `json:"supplier"`
	PackagePrice    *float64 `json:"packagePrice"`
	PackageQuantity *float64 `json:"packageQuantity"`
	UnitLabel       *string  `json:"unitLabel"`
}

// apply copies the fields present in the request onto item.
func (r SupplyRequest) apply(item models.SupplyItem) models.SupplyItem {
	if r.Name != nil {
		item.Name = *r.Name
	}
	if r.Supplier != nil {
		item.Supplier = *r.Supplier
	}
	if r.PackagePrice != nil {
		item.PackagePrice = *r.PackagePrice
	}
	if r.PackageQuantity != nil {
		item.PackageQuantity = *r.PackageQuantity
	}
	if r.UnitLabel != nil {
		item.UnitLabel = *r.UnitLabel
	}
	return item
}

func toResponse(item models.SupplyItem) SupplyResponse {
	return SupplyResponse{
		SupplyItem:  item,
		UnitCost:    item.UnitCost(),
		UnitDisplay: supply.FormatUnitLabel(item.UnitLabel),
	}
}

func Register(r fiber.Router, d Deps) {
	r.Get("/supplies", ListSuppliesHandler(d))
	r.Post("/supplies", CreateSupplyHandler(d))
	r.Get("/supplies/export", ExportSuppliesHandler(d))
	r.Post("/supplies/import", ImportSuppliesHandler(d))
	r.Put("/supplies/:id", UpdateSupplyHandler(d))
	r.Delete("/supplies/:id", DeleteSupplyHandler(d))
}

// GET /api/supplies
func ListSuppliesHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		supplies := ws.State().Supplies
		res := make([]SupplyResponse, 0, len(supplies))
		for _, item := range supplies {
			res = append(res, toResponse(item))
		}
		return c.JSON(res)
	}
}

// POST /api/supplies
func CreateSupplyHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		var body SupplyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		item := supply.Normalize(body.apply(models.SupplyItem{}))
		if v := supply.Validate(item); !v.Empty() {
			return httpx.Invalid("Article invalide", v)
		}
		item.ID = d.NewID()

		if _, err := ws.Mutate(func(s catalog.State) (catalog.State, error) {
			return s.AddSupply(item), nil
		}, models.KindSupplies); err != nil {
			return err
		}

		d.Audit.Record(c.UserContext(), audit.LogOptions{
			UserID:      ws.UserID(),
			UserName:    auth.UserName(c),
			EntityType:  models.EntitySupply,
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: "Article ajouté : " + item.Name,
			After:       item,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(item))
	}
}

// PUT /api/supplies/:id
func UpdateSupplyHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		var body SupplyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		id := c.Params("id")
		var before, after models.SupplyItem
		var invalid supply.Violations
		_, err = ws.Mutate(func(s catalog.State) (catalog.State, error) {
			current, ok := s.Supplies.Find(id)
			if !ok {
				return s, catalog.ErrSupplyNotFound
			}
			before = current
			after = supply.Normalize(body.apply(current))
			if v := supply.Validate(after); !v.Empty() {
				invalid = v
				return s, errors.New("invalid supply")
			}
			return s.UpdateSupply(after)
		}, models.KindSupplies)
		switch {
		case errors.Is(err, catalog.ErrSupplyNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Article introuvable")
		case invalid != nil:
			return httpx.Invalid("Article invalide", invalid)
		case err != nil:
			return err
		}

		d.Audit.Record(c.UserContext(), audit.LogOptions{
			UserID:      ws.UserID(),
			UserName:    auth.UserName(c),
			EntityType:  models.EntitySupply,
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Article modifié : " + after.Name,
			Before:      before,
			After:       after,
		})

		return c.JSON(toResponse(after))
	}
}

// DELETE /api/supplies/:id
//
// Ingredients linked to the item keep the link and cost 0 from now on.
func DeleteSupplyHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		id := c.Params("id")
		var removed models.SupplyItem
		_, err = ws.Mutate(func(s catalog.State) (catalog.State, error) {
			removed, _ = s.Supplies.Find(id)
			return s.RemoveSupply(id)
		}, models.KindSupplies)
		if errors.Is(err, catalog.ErrSupplyNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Article introuvable")
		}
		if err != nil {
			return err
		}

		d.Audit.Record(c.UserContext(), audit.LogOptions{
			UserID:      ws.UserID(),
			UserName:    auth.UserName(c),
			EntityType:  models.EntitySupply,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Article supprimé : " + removed.Name,
			Before:      removed,
		})

		return c.JSON(fiber.Map{"message": "Article supprimé"})
	}
}

// GET /api/supplies/export
func ExportSuppliesHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		buf, err := supply.ExportXLSX(ws.State().Supplies)
		if err != nil {
			log.Printf("export supplies of user %d: %v", ws.UserID(), err)
			return fiber.NewError(fiber.StatusInternalServerError, "Export impossible")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Attachment("stock.xlsx")
		return c.Send(buf.Bytes())
	}
}

// POST /api/supplies/import (multipart, field "file")
//
// Rows are merged by name: a known name updates the item and keeps its id.
func ImportSuppliesHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := httpx.Workspace(c, d.Workspaces)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Fichier manquant")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Seuls les fichiers .xlsx sont acceptés")
		}
		if fileHeader.Size > MaxImportBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Fichier trop volumineux")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fichier illisible")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fichier illisible")
		}

		var before supply.Catalog
		var res supply.ImportResult
		_, err = ws.Mutate(func(s catalog.State) (catalog.State, error) {
			before = s.Supplies
			imported, err := supply.ImportXLSX(bytes.NewReader(data), s.Supplies, d.NewID)
			if err != nil {
				return s, err
			}
			res = imported
			s.Supplies = res.Catalog
			return s, nil
		}, models.KindSupplies)
		if errors.Is(err, workspace.ErrReleased) {
			return err
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Classeur Excel illisible")
		}

		recordImport(c, d, ws.UserID(), before, res.Catalog)
		return c.JSON(res)
	}
}

// recordImport writes one audit entry per item the import created or changed.
func recordImport(c *fiber.Ctx, d Deps, userID uint, before, after supply.Catalog) {
	for _, item := range after {
		prev, existed := before.Find(item.ID)
		if existed && prev == item {
			continue
		}
		opts := audit.LogOptions{
			UserID:     userID,
			UserName:   auth.UserName(c),
			EntityType: models.EntitySupply,
			EntityID:   item.ID,
			After:      item,
		}
		if existed {
			opts.Action = models.AuditActionUpdate
			opts.Description = fmt.Sprintf("Article importé (mis à jour) : %s", item.Name)
			opts.Before = prev
		} else {
			opts.Action = models.AuditActionCreate
			opts.Description = fmt.Sprintf("Article importé : %s", item.Name)
		}
		d.Audit.Record(c.UserContext(), opts)
	}
}
