package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturas-viajes-api/internal/domain"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*UnavailableRepository)(nil)

// UnavailableRepository se instala al arranque cuando falta la configuración del
// almacén o la conexión falla. Toda operación devuelve ErrStoreUnavailable con la
// razón: degradación visible y distinguible de "colección vacía", nunca un no-op
// silencioso.
type UnavailableRepository struct {
	reason string
}

// NewUnavailableRepository construye el adaptador degradado con la razón de la falla.
func NewUnavailableRepository(reason string) *UnavailableRepository {
	return &UnavailableRepository{reason: reason}
}

func (r *UnavailableRepository) err() error {
	return fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, r.reason)
}

func (r *UnavailableRepository) ListAll(context.Context) ([]entity.Invoice, error) {
	return nil, r.err()
}

func (r *UnavailableRepository) Create(context.Context, entity.Invoice) (entity.Invoice, error) {
	return entity.Invoice{}, r.err()
}

func (r *UnavailableRepository) Update(context.Context, entity.Invoice) error {
	return r.err()
}

func (r *UnavailableRepository) Delete(context.Context, string) error {
	return r.err()
}
