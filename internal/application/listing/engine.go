// Package listing deriva, de forma pura y síncrona, la secuencia mostrada a partir
// de un snapshot de la colección de facturas más el estado activo de filtro/orden.
// Determinista y sin efectos: seguro de recomputar en cada cambio de estado.
package listing

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
)

// Claves de ordenamiento soportadas.
const (
	SortByTicket  = "ticket_number"
	SortByBooking = "booking_reference"
	SortByAgent   = "agent_id"
	SortByAmount  = "amount"
	SortByDate    = "date"
)

// Direcciones de ordenamiento.
const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// EmptyMessage texto del estado vacío cuando el filtro no deja registros.
const EmptyMessage = "No se encontraron facturas con los criterios actuales"

// collator comparación de strings consciente de locale (no byte a byte).
// collate.Collate no es seguro para uso concurrente, por eso cada Sort crea el suyo.
func newCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.Loose)
}

// SortState clave y dirección activas. El valor cero ordena por fecha descendente
// (el orden por defecto del listado).
type SortState struct {
	Key string
	Dir string
}

// Normalize aplica los valores por defecto a un estado parcial.
func (s SortState) Normalize() SortState {
	if s.Key == "" {
		s.Key = SortByDate
		if s.Dir == "" {
			s.Dir = DirDesc
		}
	}
	if s.Dir != DirDesc {
		s.Dir = DirAsc
	}
	return s
}

// Toggle aplica la semántica de la cabecera de tabla: la misma clave invierte
// la dirección; una clave nueva reinicia a ascendente.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		if s.Dir == DirAsc {
			return SortState{Key: key, Dir: DirDesc}
		}
		return SortState{Key: key, Dir: DirAsc}
	}
	return SortState{Key: key, Dir: DirAsc}
}

// AgentFilter predicado de la vista de agente: substring case-insensitive sobre
// AgentID Y pertenencia al rango de fechas (ambos extremos opcionales; To inclusivo
// hasta fin de día). Filtro ausente = coincide todo.
type AgentFilter struct {
	AgentID string
	From    string // YYYY-MM-DD
	To      string // YYYY-MM-DD
}

// Match evalúa el predicado sobre una factura.
func (f AgentFilter) Match(inv entity.Invoice) bool {
	if f.AgentID != "" &&
		!strings.Contains(strings.ToLower(inv.AgentID), strings.ToLower(f.AgentID)) {
		return false
	}
	if f.From == "" && f.To == "" {
		return true
	}

	d, ok := inv.ParsedDate()
	if !ok {
		// Fecha corrupta: solo pasa si no hay rango activo (ya descartado arriba).
		return false
	}
	if f.From != "" {
		if from, err := time.Parse(entity.DateLayout, f.From); err == nil && d.Before(from) {
			return false
		}
	}
	if f.To != "" {
		if to, err := time.Parse(entity.DateLayout, f.To); err == nil {
			// Inclusivo hasta fin de día: el límite real es el inicio del día siguiente.
			if !d.Before(to.AddDate(0, 0, 1)) {
				return false
			}
		}
	}
	return true
}

// FilterAgent deriva la vista de agente sobre una copia del snapshot.
func FilterAgent(snapshot []entity.Invoice, f AgentFilter) []entity.Invoice {
	out := make([]entity.Invoice, 0, len(snapshot))
	for _, inv := range snapshot {
		if f.Match(inv) {
			out = append(out, inv)
		}
	}
	return out
}

// SearchAdmin predicado de la vista de administrador: un único término buscado,
// case-insensitive, en la concatenación de ticket, referencia, agente, monto
// (render de dos decimales y forma plana) y el string crudo de fecha.
// Coincide si el término aparece en CUALQUIERA de ellos.
func SearchAdmin(snapshot []entity.Invoice, term string) []entity.Invoice {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]entity.Invoice(nil), snapshot...)
	}
	out := make([]entity.Invoice, 0, len(snapshot))
	for _, inv := range snapshot {
		haystack := strings.ToLower(strings.Join([]string{
			inv.TicketNumber,
			inv.BookingReference,
			inv.AgentID,
			inv.DisplayAmount(),
			inv.Amount.String(),
			inv.Date,
		}, "\x00"))
		if strings.Contains(haystack, term) {
			out = append(out, inv)
		}
	}
	return out
}

// Sort ordena una copia de la secuencia de forma estable según el estado dado.
//   - amount compara numéricamente (decimal.Cmp);
//   - date compara por fecha calendario parseada, NO lexicográficamente: un orden de
//     strings desordenaría formatos sin padding. Fechas no parseables comparan iguales
//     entre sí (fallback estable) y quedan después de las válidas;
//   - el resto de claves usa comparación de strings consciente de locale.
func Sort(items []entity.Invoice, state SortState) []entity.Invoice {
	state = state.Normalize()
	out := append([]entity.Invoice(nil), items...)

	cl := newCollator()
	less := lessFunc(state.Key, cl)

	sort.SliceStable(out, func(a, b int) bool {
		return less(out[a], out[b])
	})
	// Descendente = la secuencia ascendente invertida exactamente, empates incluidos.
	// Invertir el comparador rompería esa propiedad: el sort estable conservaría los
	// empates en orden original en vez de invertirlos.
	if state.Dir == DirDesc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func lessFunc(key string, cl *collate.Collator) func(a, b entity.Invoice) bool {
	switch key {
	case SortByAmount:
		return func(a, b entity.Invoice) bool {
			return a.Amount.Cmp(b.Amount) < 0
		}
	case SortByDate:
		return func(a, b entity.Invoice) bool {
			da, oka := a.ParsedDate()
			db, okb := b.ParsedDate()
			switch {
			case oka && okb:
				return da.Before(db)
			case oka && !okb:
				return true // válidas antes que corruptas
			default:
				return false // corruptas comparan iguales entre sí
			}
		}
	case SortByTicket:
		return func(a, b entity.Invoice) bool {
			return cl.CompareString(a.TicketNumber, b.TicketNumber) < 0
		}
	case SortByBooking:
		return func(a, b entity.Invoice) bool {
			return cl.CompareString(a.BookingReference, b.BookingReference) < 0
		}
	default: // SortByAgent y cualquier clave desconocida
		return func(a, b entity.Invoice) bool {
			return cl.CompareString(a.AgentID, b.AgentID) < 0
		}
	}
}

// EmptyStateMessage devuelve el mensaje de estado vacío si el resultado filtrado
// no tiene registros; string vacío en caso contrario. Contrato observable de UI:
// una tabla vacía siempre lleva retroalimentación explícita.
func EmptyStateMessage(items []entity.Invoice) string {
	if len(items) == 0 {
		return EmptyMessage
	}
	return ""
}
