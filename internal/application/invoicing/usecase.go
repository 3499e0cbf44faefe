// Package invoicing coordina las mutaciones create/update/delete contra el almacén
// y es el ÚNICO escritor de la colección de facturas en memoria. La invalidación de
// caché es siempre por refetch completo tras una mutación exitosa, nunca por parche
// local: lo mostrado refleja la verdad del servidor a costa de una lectura extra por
// escritura. Ediciones concurrentes al mismo ID no se coordinan (gana la última
// escritura); limitación conocida, no se refuerza en silencio.
package invoicing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/facturas-viajes-api/internal/domain"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/repository"
	"github.com/jhoicas/facturas-viajes-api/pkg/logger"
)

// UseCase orquestador de mutaciones sobre la colección de facturas.
type UseCase struct {
	repo repository.InvoiceRepository
	log  *logger.Logger

	mu         sync.RWMutex
	collection []entity.Invoice
	loaded     bool

	// pendientes de confirmación: id -> token del flujo de eliminación en dos pasos.
	pendingDeletes map[string]string
}

// NewUseCase construye el orquestador.
func NewUseCase(repo repository.InvoiceRepository, log *logger.Logger) *UseCase {
	return &UseCase{
		repo:           repo,
		log:            log,
		pendingDeletes: make(map[string]string),
	}
}

// Refresh reemplaza la colección en memoria por la lista completa del almacén.
// Es la única vía de escritura de la caché.
func (uc *UseCase) Refresh(ctx context.Context) error {
	list, err := uc.repo.ListAll(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("refresh de la colección de facturas")
		return err
	}
	uc.mu.Lock()
	uc.collection = list
	uc.loaded = true
	uc.mu.Unlock()
	return nil
}

// Snapshot devuelve una copia inmutable de la colección para que los lectores
// (motor de listado) nunca iteren una referencia compartida a mitad de mutación.
// Si la caché aún no se cargó, se intenta un refresh perezoso.
func (uc *UseCase) Snapshot(ctx context.Context) ([]entity.Invoice, error) {
	uc.mu.RLock()
	loaded := uc.loaded
	uc.mu.RUnlock()

	if !loaded {
		if err := uc.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]entity.Invoice(nil), uc.collection...), nil
}

// Create valida y persiste una factura nueva; en éxito refresca la colección.
// En falla la caché no cambia y el caller conserva sus datos para reintentar.
func (uc *UseCase) Create(ctx context.Context, inv entity.Invoice) (entity.Invoice, error) {
	inv.ID = "" // el ID siempre lo asigna el almacén
	if !inv.Validate() {
		return entity.Invoice{}, domain.ErrInvalidInput
	}
	created, err := uc.repo.Create(ctx, inv)
	if err != nil {
		uc.log.Error().Err(err).Str("ticket", inv.TicketNumber).Msg("crear factura")
		return entity.Invoice{}, err
	}
	if err := uc.Refresh(ctx); err != nil {
		// La escritura ya ocurrió; el refetch fallido se reporta pero no revierte.
		return created, err
	}
	uc.log.Info().Str("id", created.ID).Msg("factura creada")
	return created, nil
}

// Update reemplaza todos los campos (menos el ID) de una factura existente.
// Un registro sin ID está pendiente y no es elegible para mutación.
// No hay mutación optimista: si el almacén rechaza, la colección queda intacta.
func (uc *UseCase) Update(ctx context.Context, inv entity.Invoice) error {
	if inv.ID == "" {
		return domain.ErrInvalidInput
	}
	if !inv.Validate() {
		return domain.ErrInvalidInput
	}
	if err := uc.repo.Update(ctx, inv); err != nil {
		uc.log.Error().Err(err).Str("id", inv.ID).Msg("actualizar factura")
		return err
	}
	if err := uc.Refresh(ctx); err != nil {
		return err
	}
	uc.log.Info().Str("id", inv.ID).Msg("factura actualizada")
	return nil
}

// RequestDelete primer paso del flujo de eliminación: verifica que el ID exista en
// la colección cacheada y devuelve un token de confirmación. No toca el almacén.
func (uc *UseCase) RequestDelete(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", domain.ErrInvalidInput
	}
	snapshot, err := uc.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	found := false
	for _, inv := range snapshot {
		if inv.ID == id {
			found = true
			break
		}
	}
	if !found {
		return "", domain.ErrNotFound
	}

	token := uuid.New().String()
	uc.mu.Lock()
	uc.pendingDeletes[id] = token
	uc.mu.Unlock()
	return token, nil
}

// ConfirmDelete segundo paso: solo con el token vigente se llama al almacén.
// Token ausente o incorrecto → ErrConfirmationRequired, sin llamada de red.
// La solicitud pendiente se consume siempre, falle o no la eliminación: el
// prompt de confirmación se cierra sin bloquear al usuario en un delete fallido.
func (uc *UseCase) ConfirmDelete(ctx context.Context, id, token string) error {
	uc.mu.Lock()
	expected, ok := uc.pendingDeletes[id]
	if ok {
		delete(uc.pendingDeletes, id)
	}
	uc.mu.Unlock()

	if !ok || token == "" || token != expected {
		return domain.ErrConfirmationRequired
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Error().Err(err).Str("id", id).Msg("eliminar factura")
		return err
	}
	if err := uc.Refresh(ctx); err != nil {
		return err
	}
	uc.log.Info().Str("id", id).Msg("factura eliminada")
	return nil
}

// CancelDelete descarta la solicitud pendiente sin ninguna llamada de red.
func (uc *UseCase) CancelDelete(id string) {
	uc.mu.Lock()
	delete(uc.pendingDeletes, id)
	uc.mu.Unlock()
}
