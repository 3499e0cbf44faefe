package ports

import (
	"context"

	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
)

// InvoiceReportGenerator define el puerto de salida para el reporte descargable
// del listado de administración (PDF).
type InvoiceReportGenerator interface {
	// GenerateListingPDF genera el PDF del listado ya filtrado/ordenado y devuelve sus bytes.
	GenerateListingPDF(ctx context.Context, invoices []entity.Invoice) ([]byte, error)
}
