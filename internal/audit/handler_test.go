package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"smashcost-backend/internal/auth"
	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/httpx"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/store"
	"smashcost-backend/internal/supply"
	"smashcost-backend/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

func TestAuditHandlers(t *testing.T) {
	svc := NewService(setupTestDB(t, t.Name()))
	wm := workspace.NewManager(workspace.Options{
		Store: store.NewGormStore(setupTestDB(t, t.Name()+"_store")),
		Defaults: func() ([]models.Product, supply.Catalog) {
			return []models.Product{{ID: "smash", Name: "SMASH"}}, supply.Catalog{}
		},
		NewID: func() string { return "new" },
	})
	t.Cleanup(func() { wm.Release(1) })

	ctx := context.Background()
	ws, err := wm.Acquire(ctx, 1)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	item := models.SupplyItem{ID: "cheddar", Name: "Cheddar", PackagePrice: 12.99, PackageQuantity: 84, UnitLabel: "tranche"}
	if _, err := ws.Mutate(func(s catalog.State) (catalog.State, error) { return s.AddSupply(item), nil }, models.KindSupplies); err != nil {
		t.Fatalf("add supply: %v", err)
	}
	if err := svc.WriteLog(ctx, LogOptions{
		UserID: 1, UserName: "chef", EntityType: models.EntitySupply, EntityID: item.ID,
		Action: models.AuditActionCreate, Description: "Article ajouté : Cheddar", After: item,
	}); err != nil {
		t.Fatalf("write log: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserNameKey, "chef")
		return c.Next()
	})
	api.Get("/audit-logs", ListAuditLogsHandler(svc))
	api.Post("/audit-logs/:id/undo", UndoAuditLogHandler(svc, wm))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/audit-logs?entity_type=supply", nil), -1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var logs []AuditLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(logs) != 1 || logs[0].EntityID != "cheddar" || logs[0].IsUndone {
		t.Fatalf("logs = %+v", logs)
	}

	undo := func(id string) int {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/audit-logs/"+id+"/undo", nil), -1)
		if err != nil {
			t.Fatalf("undo %s: %v", id, err)
		}
		return resp.StatusCode
	}

	first := fmt.Sprint(logs[0].ID)
	if code := undo(first); code != http.StatusOK {
		t.Fatalf("undo status = %d", code)
	}
	if _, ok := ws.State().Supplies.Find("cheddar"); ok {
		t.Fatalf("supply still present after undo")
	}
	if code := undo(first); code != http.StatusConflict {
		t.Fatalf("second undo status = %d", code)
	}
	if code := undo("abc"); code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", code)
	}
	if code := undo("9999"); code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d", code)
	}
}
