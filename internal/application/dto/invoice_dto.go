package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
)

// InvoiceRequest cuerpo de creación/actualización manual de una factura.
// La actualización es reemplazo completo de campos (el ID viaja en la ruta y es inmutable).
type InvoiceRequest struct {
	TicketNumber     string          `json:"ticket_number"`
	BookingReference string          `json:"booking_reference"`
	AgentID          string          `json:"agent_id"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"` // YYYY-MM-DD
}

// ToEntity convierte el request en entidad de dominio (sin ID: registro pendiente).
func (r InvoiceRequest) ToEntity() entity.Invoice {
	return entity.Invoice{
		TicketNumber:     r.TicketNumber,
		BookingReference: r.BookingReference,
		AgentID:          r.AgentID,
		Amount:           r.Amount,
		Date:             r.Date,
	}
}

// AgentListQuery filtros de la vista de agente: substring sobre agent_id
// más rango de fechas inclusivo (ambos extremos opcionales).
type AgentListQuery struct {
	AgentID string `query:"agent_id"`
	From    string `query:"from"` // YYYY-MM-DD
	To      string `query:"to"`   // YYYY-MM-DD, inclusivo hasta fin de día
	SortBy  string `query:"sort_by"`
	SortDir string `query:"sort_dir"`
}

// AdminListQuery filtro de la vista de administrador: un único término buscado
// en todos los campos del registro.
type AdminListQuery struct {
	Search  string `query:"search"`
	SortBy  string `query:"sort_by"`
	SortDir string `query:"sort_dir"`
}

// InvoiceListResponse listado derivado. EmptyMessage se llena cuando el filtro
// no deja registros: el estado vacío es explícito, nunca una tabla muda.
type InvoiceListResponse struct {
	Items        []entity.Invoice `json:"items"`
	Total        int              `json:"total"`
	EmptyMessage string           `json:"empty_message,omitempty"`
}

// DeleteRequestResponse respuesta del primer paso del flujo de eliminación.
type DeleteRequestResponse struct {
	ConfirmToken string `json:"confirm_token"`
}

// ConfirmDeleteRequest segundo paso: confirmar con el token recibido.
type ConfirmDeleteRequest struct {
	ConfirmToken string `json:"confirm_token"`
}
