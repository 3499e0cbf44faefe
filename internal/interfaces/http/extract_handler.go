package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-viajes-api/internal/application/dto"
	"github.com/jhoicas/facturas-viajes-api/internal/application/extraction"
	"github.com/jhoicas/facturas-viajes-api/internal/domain"
)

// ExtractHandler maneja la extracción asistida: documento subido → campos de formulario.
type ExtractHandler struct {
	uc *extraction.UseCase
}

// NewExtractHandler construye el handler.
func NewExtractHandler(uc *extraction.UseCase) *ExtractHandler {
	return &ExtractHandler{uc: uc}
}

// Extract recibe el documento como data-URI base64 y responde el formulario reconciliado
// (cada campo: valor validado o marcador "unset" con advertencia).
// POST /api/invoices/extract
func (h *ExtractHandler) Extract(c *fiber.Ctx) error {
	var in dto.ExtractRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.ExtractDocument(c.Context(), in.Document)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DOCUMENT", Message: "documento debe ser data-URI base64 de imagen o PDF"})
		}
		// Falla de extracción: una única notificación y el formulario vuelve a vacío
		// (datos llenados a medias por la máquina no son confiables).
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "EXTRACTION_FAILED", Message: "no fue posible extraer el documento; capture los datos manualmente"})
	}
	return c.JSON(result)
}
