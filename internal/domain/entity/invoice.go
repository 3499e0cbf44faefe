package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato canónico de la fecha de factura: YYYY-MM-DD,
// sin hora ni zona horaria.
const DateLayout = "2006-01-02"

// InvalidDateDisplay texto a mostrar cuando la fecha persistida no se puede
// volver a parsear. Un registro con fecha corrupta se lista igual, nunca tumba la vista.
const InvalidDateDisplay = "Invalid Date"

// Invoice es el único registro de negocio persistido: una factura de viaje
// capturada por un agente (manual o asistida por extracción de documento).
//
// ID es opaco y lo asigna el almacén al crear; una factura sin ID está "pendiente"
// y no es elegible para update ni delete. Date se guarda como string crudo en el
// almacén (documento plano), por eso aquí se mantiene en crudo y se parsea bajo demanda.
type Invoice struct {
	ID               string          `json:"id,omitempty"`
	TicketNumber     string          `json:"ticket_number"`
	BookingReference string          `json:"booking_reference"`
	AgentID          string          `json:"agent_id"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"`
}

// Validate aplica las reglas de captura: strings no vacíos, monto positivo finito
// y fecha calendario válida en formato canónico. La salida de extracción NO es
// confiable y debe pasar por aquí igual que la captura manual.
func (i Invoice) Validate() bool {
	if strings.TrimSpace(i.TicketNumber) == "" ||
		strings.TrimSpace(i.BookingReference) == "" ||
		strings.TrimSpace(i.AgentID) == "" {
		return false
	}
	if !i.Amount.IsPositive() {
		return false
	}
	_, ok := i.ParsedDate()
	return ok
}

// ParsedDate devuelve la fecha como time.Time si el string persistido es una
// fecha calendario válida.
func (i Invoice) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, i.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayDate devuelve la fecha para mostrar; "Invalid Date" si no parsea.
func (i Invoice) DisplayDate() string {
	if _, ok := i.ParsedDate(); !ok {
		return InvalidDateDisplay
	}
	return i.Date
}

// DisplayAmount devuelve el monto con dos decimales (semántica de moneda).
func (i Invoice) DisplayAmount() string {
	return i.Amount.StringFixed(2)
}
