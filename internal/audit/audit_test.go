package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/database"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/store"
	"smashcost-backend/internal/supply"
	"smashcost-backend/internal/workspace"

	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

// the workspace saves into its own database so that background saves never
// wait on the audit transaction
func loadedWorkspace(t *testing.T, userID uint) *workspace.Workspace {
	t.Helper()
	ws := workspace.New(userID, workspace.Options{
		Store: store.NewGormStore(setupTestDB(t, t.Name()+"_store")),
		Defaults: func() ([]models.Product, supply.Catalog) {
			return []models.Product{{ID: "smash", Name: "SMASH"}, {ID: "crunchy", Name: "CRUNCHY"}},
				supply.Catalog{{ID: "pain", Name: "Pain", PackagePrice: 31.99, PackageQuantity: 60}}
		},
		NewID: func() string { return "new" },
	})
	if err := ws.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(ws.Flush)
	return ws
}

func TestUndoProductUpdate(t *testing.T) {
	svc := NewService(setupTestDB(t, t.Name()))
	ws := loadedWorkspace(t, 1)
	ctx := context.Background()

	before, _ := ws.State().Product("smash")
	after := before.Clone()
	after.Name = "SMASH XL"
	if _, err := ws.Mutate(func(s catalog.State) (catalog.State, error) { return s.UpdateProduct(after) }, models.KindProducts); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.WriteLog(ctx, LogOptions{
		UserID: 1, UserName: "chef", EntityType: models.EntityProduct, EntityID: "smash",
		Action: models.AuditActionUpdate, Description: "SMASH renommé", Before: before, After: after,
	}); err != nil {
		t.Fatalf("write log: %v", err)
	}

	logs, err := svc.List(ctx, 1, Filter{EntityType: models.EntityProduct})
	if err != nil || len(logs) != 1 {
		t.Fatalf("list = %v, %v", logs, err)
	}

	undo, err := svc.Undo(ctx, ws, logs[0].ID, "chef")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if undo.Action != models.AuditActionUndo || !undo.Undone {
		t.Fatalf("undo entry = %+v", undo)
	}
	if p, _ := ws.State().Product("smash"); p.Name != "SMASH" {
		t.Fatalf("name after undo = %q", p.Name)
	}

	if _, err := svc.Undo(ctx, ws, logs[0].ID, "chef"); !errors.Is(err, ErrAlreadyUndone) {
		t.Fatalf("second undo err = %v", err)
	}
	if _, err := svc.Undo(ctx, ws, undo.ID, "chef"); !errors.Is(err, ErrNotUndoable) {
		t.Fatalf("undo of an undo err = %v", err)
	}
}

func TestUndoSupplyCreateAndDelete(t *testing.T) {
	svc := NewService(setupTestDB(t, t.Name()))
	ws := loadedWorkspace(t, 1)
	ctx := context.Background()

	item := models.SupplyItem{ID: "cheddar", Name: "Cheddar", PackagePrice: 6.49, PackageQuantity: 88, UnitLabel: "tranche"}
	ws.Mutate(func(s catalog.State) (catalog.State, error) { return s.AddSupply(item), nil }, models.KindSupplies)
	svc.Record(ctx, LogOptions{UserID: 1, EntityType: models.EntitySupply, EntityID: "cheddar", Action: models.AuditActionCreate, After: item})

	pain, _ := ws.State().Supplies.Find("pain")
	ws.Mutate(func(s catalog.State) (catalog.State, error) { return s.RemoveSupply("pain") }, models.KindSupplies)
	svc.Record(ctx, LogOptions{UserID: 1, EntityType: models.EntitySupply, EntityID: "pain", Action: models.AuditActionDelete, Before: pain})

	logs, err := svc.List(ctx, 1, Filter{})
	if err != nil || len(logs) != 2 {
		t.Fatalf("list = %v, %v", logs, err)
	}
	for _, l := range logs {
		if _, err := svc.Undo(ctx, ws, l.ID, "chef"); err != nil {
			t.Fatalf("undo %s: %v", l.Action, err)
		}
	}

	s := ws.State()
	if _, ok := s.Supplies.Find("cheddar"); ok {
		t.Fatalf("created supply still present after undo")
	}
	if got, ok := s.Supplies.Find("pain"); !ok || got.PackagePrice != 31.99 {
		t.Fatalf("deleted supply not restored: %+v", got)
	}
}

func TestUndoIsScopedToOwner(t *testing.T) {
	svc := NewService(setupTestDB(t, t.Name()))
	ctx := context.Background()
	svc.Record(ctx, LogOptions{UserID: 1, EntityType: models.EntitySupply, EntityID: "pain", Action: models.AuditActionCreate})

	other := loadedWorkspace(t, 2)
	logs, _ := svc.List(ctx, 1, Filter{})
	if _, err := svc.Undo(ctx, other, logs[0].ID, "intrus"); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("err = %v, want ErrLogNotFound", err)
	}
	if mine, _ := svc.List(ctx, 2, Filter{}); len(mine) != 0 {
		t.Fatalf("user 2 sees %d entries of user 1", len(mine))
	}
}

func TestRejectedUndoRollsBack(t *testing.T) {
	svc := NewService(setupTestDB(t, t.Name()))
	ws := loadedWorkspace(t, 1)
	ctx := context.Background()

	ws.Mutate(func(s catalog.State) (catalog.State, error) { return s.DeleteProduct("crunchy") }, models.KindProducts)
	svc.Record(ctx, LogOptions{UserID: 1, EntityType: models.EntityProduct, EntityID: "smash", Action: models.AuditActionCreate})

	logs, _ := svc.List(ctx, 1, Filter{})
	if _, err := svc.Undo(ctx, ws, logs[0].ID, "chef"); !errors.Is(err, ErrNotUndoable) {
		t.Fatalf("undo deleting the last product err = %v", err)
	}

	logs, _ = svc.List(ctx, 1, Filter{})
	if len(logs) != 1 || logs[0].IsUndone {
		t.Fatalf("rejected undo left traces: %+v", logs)
	}
	if len(ws.State().Products) != 1 {
		t.Fatalf("products changed by a rejected undo")
	}
}
