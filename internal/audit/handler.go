package audit

import (
	"errors"
	"log"
	"strconv"

	"smashcost-backend/internal/auth"
	"smashcost-backend/internal/httpx"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    string             `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneAt    *string            `json:"undone_at"`
}

const timeLayout = "2006-01-02 15:04:05"

func toResponse(l models.AuditLog) AuditLogResponse {
	var undoneAt *string
	if l.UndoneAt != nil {
		formatted := l.UndoneAt.Format(timeLayout)
		undoneAt = &formatted
	}
	return AuditLogResponse{
		ID:          l.ID,
		CreatedAt:   l.CreatedAt.Format(timeLayout),
		UserName:    l.UserName,
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Action:      l.Action,
		Description: l.Description,
		IsUndone:    l.IsUndone,
		UndoneAt:    undoneAt,
	}
}

// GET /api/audit-logs?entity_type=product&entity_id=smash&limit=50
func ListAuditLogsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		logs, err := svc.List(c.UserContext(), userID, Filter{
			EntityType: c.Query("entity_type"),
			EntityID:   c.Query("entity_id"),
			Limit:      c.QueryInt("limit", 100),
		})
		if err != nil {
			log.Printf("list audit logs: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Historique indisponible")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, toResponse(l))
		}
		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler(svc *Service, wm *workspace.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logID, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || logID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identifiant d'historique invalide")
		}

		ws, err := httpx.Workspace(c, wm)
		if err != nil {
			return err
		}

		undo, err := svc.Undo(c.UserContext(), ws, uint(logID), auth.UserName(c))
		switch {
		case errors.Is(err, ErrLogNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Historique introuvable")
		case errors.Is(err, ErrAlreadyUndone):
			return fiber.NewError(fiber.StatusConflict, "Cette opération a déjà été annulée")
		case errors.Is(err, ErrNotUndoable):
			return fiber.NewError(fiber.StatusConflict, "Cette opération ne peut pas être annulée")
		case errors.Is(err, workspace.ErrReleased):
			return err
		case err != nil:
			log.Printf("undo audit log %d: %v", logID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Annulation impossible")
		}

		return c.JSON(fiber.Map{
			"message": "Opération annulée",
			"log":     toResponse(undo),
		})
	}
}
