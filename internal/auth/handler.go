package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func sessionResponse(s Session) SessionResponse {
	return SessionResponse{
		Token: s.Token,
		User: UserResponse{
			ID:          s.User.ID,
			Email:       s.User.Email,
			DisplayName: s.User.DisplayName,
		},
	}
}

// POST /api/auth/signup
func SignUpHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CredentialsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		s, err := m.SignUp(c.UserContext(), body.Email, body.Password)
		switch {
		case errors.Is(err, ErrInvalidSignUp):
			return fiber.NewError(fiber.StatusBadRequest, "Email valide et mot de passe de 6 caractères minimum requis")
		case errors.Is(err, ErrEmailTaken):
			return fiber.NewError(fiber.StatusConflict, "Cet email est déjà utilisé")
		case err != nil:
			log.Printf("signup failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Compte non créé")
		}

		return c.Status(fiber.StatusCreated).JSON(sessionResponse(s))
	}
}

// POST /api/auth/login
func LoginHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CredentialsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		s, err := m.SignIn(c.UserContext(), body.Email, body.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, "Email ou mot de passe incorrect")
		}
		if err != nil {
			log.Printf("login failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Connexion impossible")
		}

		return c.JSON(sessionResponse(s))
	}
}

// POST /api/auth/logout
func LogoutHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}
		m.SignOut(userID)
		return c.JSON(fiber.Map{"message": "Déconnecté"})
	}
}

// GET /api/auth/me
func MeHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		user, err := m.User(c.UserContext(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Utilisateur introuvable")
		}

		return c.JSON(UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		})
	}
}
