package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-viajes-api/internal/application/auth"
	"github.com/jhoicas/facturas-viajes-api/internal/application/dto"
)

// SessionMiddleware protege las vistas de administración: sin sesión activa la
// respuesta es 401 (el cliente redirige al login). La verificación se re-ejecuta
// en cada petición; un logout previo invalida el token aunque no haya expirado.
func SessionMiddleware(gate *auth.UseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido (Bearer <token>)"})
		}
		if err := gate.Verify(token); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SESSION", Message: "sesión inválida, expirada o cerrada"})
		}
		return c.Next()
	}
}

// bearerToken extrae el token del header Authorization; string vacío si falta o está mal formado.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
