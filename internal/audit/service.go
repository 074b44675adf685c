package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/workspace"

	"gorm.io/gorm"
)

var (
	ErrLogNotFound   = errors.New("audit log not found")
	ErrAlreadyUndone = errors.New("operation already undone")
	ErrNotUndoable   = errors.New("operation cannot be undone")
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	EntityType string
	EntityID   string
	Limit      int
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func encode(v any) string {
	// "null" rather than an empty string keeps the column valid JSON
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func (s *Service) WriteLog(ctx context.Context, opts LogOptions) error {
	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  encode(opts.Before),
		AfterData:   encode(opts.After),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Record writes the entry and only logs a failure: an audit problem never
// fails the edit that caused it.
func (s *Service) Record(ctx context.Context, opts LogOptions) {
	if s == nil {
		return
	}
	if err := s.WriteLog(ctx, opts); err != nil {
		log.Printf("[WARN] %v", err)
	}
}

// List returns the entries of one user, newest first.
func (s *Service) List(ctx context.Context, userID uint, f Filter) ([]models.AuditLog, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("user_id = ?", userID)
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

// Undo reverts the logged operation in the workspace of its owner, marks the
// entry as undone and writes an undo entry. Entries of other users are not found.
func (s *Service) Undo(ctx context.Context, ws *workspace.Workspace, logID uint, userName string) (models.AuditLog, error) {
	userID := ws.UserID()
	var undo models.AuditLog

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.AuditLog
		if err := tx.Where("id = ? AND user_id = ?", logID, userID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLogNotFound
			}
			return fmt.Errorf("find audit log: %w", err)
		}
		if entry.IsUndone {
			return ErrAlreadyUndone
		}

		revert, kind, err := reverter(entry)
		if err != nil {
			return err
		}

		now := time.Now()
		entry.IsUndone = true
		entry.UndoneBy = &userID
		entry.UndoneAt = &now
		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("mark audit log: %w", err)
		}

		undo = models.AuditLog{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			Action:      models.AuditActionUndo,
			Description: "Annulé : " + entry.Description,
			BeforeData:  entry.AfterData,
			AfterData:   entry.BeforeData,
			Undone:      true,
		}
		if err := tx.Create(&undo).Error; err != nil {
			return fmt.Errorf("write undo log: %w", err)
		}

		// last, so that a rejected revert rolls the log changes back
		if _, err := ws.Mutate(revert, kind); err != nil {
			if errors.Is(err, workspace.ErrReleased) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrNotUndoable, err)
		}
		return nil
	})
	if err != nil {
		return models.AuditLog{}, err
	}
	return undo, nil
}

type revertFunc func(catalog.State) (catalog.State, error)

// reverter builds the transform that cancels the logged operation.
func reverter(entry models.AuditLog) (revertFunc, models.CollectionKind, error) {
	switch entry.EntityType {
	case models.EntityProduct:
		fn, err := productReverter(entry)
		return fn, models.KindProducts, err
	case models.EntitySupply:
		fn, err := supplyReverter(entry)
		return fn, models.KindSupplies, err
	default:
		return nil, "", fmt.Errorf("%w: unknown entity %q", ErrNotUndoable, entry.EntityType)
	}
}

func productReverter(entry models.AuditLog) (revertFunc, error) {
	switch entry.Action {
	case models.AuditActionCreate:
		return func(s catalog.State) (catalog.State, error) {
			return s.DeleteProduct(entry.EntityID)
		}, nil

	case models.AuditActionUpdate, models.AuditActionDelete:
		var before models.Product
		if err := json.Unmarshal([]byte(entry.BeforeData), &before); err != nil || before.ID == "" {
			return nil, fmt.Errorf("%w: no previous product image", ErrNotUndoable)
		}
		return func(s catalog.State) (catalog.State, error) {
			if _, ok := s.Product(before.ID); ok {
				return s.UpdateProduct(before)
			}
			return s.AddProduct(before), nil
		}, nil

	default:
		return nil, ErrNotUndoable
	}
}

func supplyReverter(entry models.AuditLog) (revertFunc, error) {
	switch entry.Action {
	case models.AuditActionCreate:
		return func(s catalog.State) (catalog.State, error) {
			return s.RemoveSupply(entry.EntityID)
		}, nil

	case models.AuditActionUpdate, models.AuditActionDelete:
		var before models.SupplyItem
		if err := json.Unmarshal([]byte(entry.BeforeData), &before); err != nil || before.ID == "" {
			return nil, fmt.Errorf("%w: no previous supply image", ErrNotUndoable)
		}
		return func(s catalog.State) (catalog.State, error) {
			if _, ok := s.Supplies.Find(before.ID); ok {
				return s.UpdateSupply(before)
			}
			return s.AddSupply(before), nil
		}, nil

	default:
		return nil, ErrNotUndoable
	}
}
