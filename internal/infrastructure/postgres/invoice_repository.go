package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/facturas-viajes-api/internal/domain"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo adaptador del almacén de facturas sobre PostgreSQL.
// La tabla invoices funciona como colección plana de documentos: invoice_date se
// guarda como TEXT crudo (un valor histórico corrupto se lista igual, con fallback
// de display, en vez de tumbar el listado).
//
// El adaptador no reintenta nada; reintentar Create a ciegas duplica registros.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// ListAll obtiene todos los registros, por fecha descendente (orden lexicográfico
// sobre el texto coincide con el cronológico para el formato canónico YYYY-MM-DD).
// Colección vacía es un resultado válido: slice vacío, sin error.
func (r *InvoiceRepo) ListAll(ctx context.Context) ([]entity.Invoice, error) {
	const query = `
		SELECT id, ticket_number, booking_reference, agent_id, amount, invoice_date
		FROM invoices ORDER BY invoice_date DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: listar facturas: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	list := make([]entity.Invoice, 0)
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.TicketNumber, &inv.BookingReference,
			&inv.AgentID, &inv.Amount, &inv.Date); err != nil {
			return nil, fmt.Errorf("%w: scan factura: %v", domain.ErrStoreUnavailable, err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterar facturas: %v", domain.ErrStoreUnavailable, err)
	}
	return list, nil
}

// Create asigna un ID nuevo y persiste. La factura del caller no se muta:
// se trabaja y devuelve una copia.
func (r *InvoiceRepo) Create(ctx context.Context, inv entity.Invoice) (entity.Invoice, error) {
	inv.ID = uuid.New().String()
	const query = `
		INSERT INTO invoices (id, ticket_number, booking_reference, agent_id, amount, invoice_date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.TicketNumber, inv.BookingReference, inv.AgentID, inv.Amount, inv.Date)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("%w: insert factura: %v", domain.ErrStoreWrite, err)
	}
	return inv, nil
}

// Update reemplaza todos los campos menos el ID (inmutable).
func (r *InvoiceRepo) Update(ctx context.Context, inv entity.Invoice) error {
	const query = `
		UPDATE invoices
		SET ticket_number     = $2,
		    booking_reference = $3,
		    agent_id          = $4,
		    amount            = $5,
		    invoice_date      = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.TicketNumber, inv.BookingReference, inv.AgentID, inv.Amount, inv.Date)
	if err != nil {
		return fmt.Errorf("%w: update factura: %v", domain.ErrStoreWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina de forma permanente; falla en voz alta si el ID no existe.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete factura: %v", domain.ErrStoreWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
