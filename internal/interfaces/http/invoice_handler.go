package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-viajes-api/internal/application/dto"
	"github.com/jhoicas/facturas-viajes-api/internal/application/invoicing"
	"github.com/jhoicas/facturas-viajes-api/internal/application/listing"
	"github.com/jhoicas/facturas-viajes-api/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP sobre facturas: la vista de agente
// (filtro por agente y rango de fechas) y la vista de administración (búsqueda,
// edición, eliminación en dos pasos).
type InvoiceHandler struct {
	uc *invoicing.UseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *invoicing.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// ListAgent listado de la vista de agente: substring sobre agent_id + rango de fechas.
// GET /api/invoices?agent_id=&from=&to=&sort_by=&sort_dir=
func (h *InvoiceHandler) ListAgent(c *fiber.Ctx) error {
	var q dto.AgentListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	snapshot, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return storeError(c, err)
	}
	items := listing.FilterAgent(snapshot, listing.AgentFilter{
		AgentID: q.AgentID,
		From:    q.From,
		To:      q.To,
	})
	items = listing.Sort(items, listing.SortState{Key: q.SortBy, Dir: q.SortDir})
	return c.JSON(dto.InvoiceListResponse{
		Items:        items,
		Total:        len(items),
		EmptyMessage: listing.EmptyStateMessage(items),
	})
}

// ListAdmin listado de la vista de administración: un término buscado en todos los campos.
// GET /api/admin/invoices?search=&sort_by=&sort_dir=
func (h *InvoiceHandler) ListAdmin(c *fiber.Ctx) error {
	var q dto.AdminListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	snapshot, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return storeError(c, err)
	}
	items := listing.SearchAdmin(snapshot, q.Search)
	items = listing.Sort(items, listing.SortState{Key: q.SortBy, Dir: q.SortDir})
	return c.JSON(dto.InvoiceListResponse{
		Items:        items,
		Total:        len(items),
		EmptyMessage: listing.EmptyStateMessage(items),
	})
}

// Create captura manual (o asistida, ya reconciliada en el cliente) de una factura.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	created, err := h.uc.Create(c.Context(), in.ToEntity())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "todos los campos son obligatorios; monto positivo y fecha YYYY-MM-DD"})
		}
		return storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update reemplazo completo de campos de una factura existente (ID inmutable, en la ruta).
// En falla el cliente conserva sus ediciones: aquí solo viaja el error tipificado.
// PUT /api/admin/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv := in.ToEntity()
	inv.ID = id
	if err := h.uc.Update(c.Context(), inv); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "todos los campos son obligatorios; monto positivo y fecha YYYY-MM-DD"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return storeError(c, err)
	}
	return c.JSON(inv)
}

// RequestDelete primer paso del flujo de eliminación: devuelve el token de confirmación.
// POST /api/admin/invoices/:id/delete/request
func (h *InvoiceHandler) RequestDelete(c *fiber.Ctx) error {
	token, err := h.uc.RequestDelete(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
		}
		return storeError(c, err)
	}
	return c.JSON(dto.DeleteRequestResponse{ConfirmToken: token})
}

// ConfirmDelete segundo paso: con el token vigente se elimina de forma permanente.
// POST /api/admin/invoices/:id/delete/confirm
func (h *InvoiceHandler) ConfirmDelete(c *fiber.Ctx) error {
	var in dto.ConfirmDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ConfirmDelete(c.Context(), c.Params("id"), in.ConfirmToken); err != nil {
		if errors.Is(err, domain.ErrConfirmationRequired) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFIRMATION_REQUIRED", Message: "token de confirmación ausente, vencido o incorrecto"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return storeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CancelDelete descarta la solicitud pendiente; no hay llamada al almacén.
// POST /api/admin/invoices/:id/delete/cancel
func (h *InvoiceHandler) CancelDelete(c *fiber.Ctx) error {
	h.uc.CancelDelete(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

// storeError mapea errores de almacén a HTTP. ErrStoreUnavailable es la falla de
// configuración fatal (503, banner persistente en el cliente); ErrStoreWrite es
// recuperable (el usuario puede reintentar sin perder datos).
func storeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacén de facturas no disponible; revise la configuración"})
	case errors.Is(err, domain.ErrStoreWrite):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "STORE_WRITE", Message: "el almacén rechazó la operación; intente de nuevo"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
