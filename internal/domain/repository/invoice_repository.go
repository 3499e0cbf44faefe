package repository

import (
	"context"

	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia sobre la colección plana de facturas.
//
// El adaptador no reintenta: la idempotencia del reintento es responsabilidad del caller.
// En particular, reintentar Create a ciegas duplica registros (riesgo conocido, documentado,
// no se "arregla" en silencio).
type InvoiceRepository interface {
	// ListAll devuelve todos los registros ordenados por fecha descendente.
	// domain.ErrStoreUnavailable si el almacén no está configurado o no responde;
	// colección vacía es un resultado válido (slice vacío, sin error).
	ListAll(ctx context.Context) ([]entity.Invoice, error)
	// Create asigna un ID nuevo y persiste. No muta la factura recibida: devuelve una copia
	// con el ID asignado. domain.ErrStoreWrite si el backend rechaza la escritura.
	Create(ctx context.Context, inv entity.Invoice) (entity.Invoice, error)
	// Update reemplaza todos los campos menos el ID. domain.ErrNotFound si el ID no existe.
	Update(ctx context.Context, inv entity.Invoice) error
	// Delete elimina de forma permanente (sin soft-delete). domain.ErrNotFound si el ID no existe.
	Delete(ctx context.Context, id string) error
}
