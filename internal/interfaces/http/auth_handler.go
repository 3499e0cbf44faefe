package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-viajes-api/internal/application/auth"
	"github.com/jhoicas/facturas-viajes-api/internal/application/dto"
	"github.com/jhoicas/facturas-viajes-api/internal/domain"
)

// AuthHandler maneja login y logout de la sesión de administrador.
type AuthHandler struct {
	gate       *auth.UseCase
	expMinutes int
}

// NewAuthHandler construye el handler.
func NewAuthHandler(gate *auth.UseCase, expMinutes int) *AuthHandler {
	return &AuthHandler{gate: gate, expMinutes: expMinutes}
}

// Login verifica la credencial fija y emite el token de sesión.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	token, err := h.gate.Login(c.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "BAD_CREDENTIALS", Message: "usuario o contraseña incorrectos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiresIn: h.expMinutes})
}

// Logout revoca la sesión del token presentado. Idempotente: sin token o con token
// desconocido responde igual 204 (el estado final es el mismo, sin sesión).
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := bearerToken(c); token != "" {
		h.gate.Logout(token)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
