package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-viajes-api/internal/application/dto"
	"github.com/jhoicas/facturas-viajes-api/internal/application/invoicing"
	"github.com/jhoicas/facturas-viajes-api/internal/application/listing"
	"github.com/jhoicas/facturas-viajes-api/internal/application/ports"
)

// ReportHandler genera el PDF descargable del listado de administración.
type ReportHandler struct {
	uc  *invoicing.UseCase
	gen ports.InvoiceReportGenerator
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *invoicing.UseCase, gen ports.InvoiceReportGenerator) *ReportHandler {
	return &ReportHandler{uc: uc, gen: gen}
}

// Listing genera el PDF con los mismos filtros/orden de la vista de administración.
// GET /api/admin/invoices/report?search=&sort_by=&sort_dir=
func (h *ReportHandler) Listing(c *fiber.Ctx) error {
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

	pdfBytes, err := h.gen.GenerateListingPDF(c.Context(), items)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "REPORT_FAILED", Message: "no fue posible generar el reporte"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="facturas-viaje.pdf"`)
	return c.Send(pdfBytes)
}
