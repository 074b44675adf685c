// Package httpx holds the small helpers shared by the fiber handlers.
package httpx

import (
	"errors"
	"log"

	"smashcost-backend/internal/auth"
	"smashcost-backend/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

const unavailable = "Données indisponibles, réessayez dans un instant"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// DetailedError carries field level details next to the message.
type DetailedError struct {
	Code    int
	Message string
	Details any
}

func (e *DetailedError) Error() string { return e.Message }

func Invalid(message string, details any) error {
	return &DetailedError{Code: fiber.StatusUnprocessableEntity, Message: message, Details: details}
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var detailed *DetailedError
	if errors.As(err, &detailed) {
		return c.Status(detailed.Code).JSON(ErrorResponse{Error: detailed.Message, Details: detailed.Details})
	}

	code := fiber.StatusInternalServerError
	msg := "Erreur interne"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else if errors.Is(err, workspace.ErrReleased) {
		code = fiber.StatusServiceUnavailable
		msg = unavailable
	} else {
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(ErrorResponse{Error: msg})
}

// Workspace returns the loaded workspace of the signed-in user. A load
// failure answers 503 so that the client retries instead of editing defaults.
func Workspace(c *fiber.Ctx, m *workspace.Manager) (*workspace.Workspace, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return nil, err
	}
	ws, err := m.Acquire(c.UserContext(), userID)
	if err != nil {
		log.Printf("[WARN] workspace of user %d unavailable: %v", userID, err)
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, unavailable)
	}
	return ws, nil
}
