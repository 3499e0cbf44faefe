// Package reconcile convierte la salida cruda de extracción (strings sin garantía)
// en campos de formulario validados y tipados. Nunca falla: cada campo resuelve a un
// valor válido o a un marcador explícito de "requiere captura manual" con su advertencia.
// El reconciliador llena el formulario pero no salta la validación de envío.
package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-viajes-api/internal/application/ports"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
)

// StringField resultado de reconciliar un campo de texto.
// Representación cruda y validada nunca se mezclan: Value solo tiene sentido si !Unset.
type StringField struct {
	Value   string `json:"value,omitempty"`
	Unset   bool   `json:"unset,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// AmountField resultado de reconciliar el monto.
type AmountField struct {
	Value   decimal.Decimal `json:"value"`
	Unset   bool            `json:"unset,omitempty"`
	Warning string          `json:"warning,omitempty"`
}

// Result estado de formulario reconciliado, un campo por cada campo de la factura.
type Result struct {
	TicketNumber     StringField `json:"ticket_number"`
	BookingReference StringField `json:"booking_reference"`
	AgentID          StringField `json:"agent_id"`
	Amount           AmountField `json:"amount"`
	Date             StringField `json:"date"`
}

// Warnings recolecta las advertencias de todos los campos (para el log y la notificación).
func (r Result) Warnings() []string {
	var ws []string
	for _, w := range []string{
		r.TicketNumber.Warning, r.BookingReference.Warning,
		r.AgentID.Warning, r.Amount.Warning, r.Date.Warning,
	} {
		if w != "" {
			ws = append(ws, w)
		}
	}
	return ws
}

// lenientDateLayouts formatos aceptados en la segunda pasada del parseo de fecha.
// El orden importa: primero formatos de máquina, luego formatos humanos frecuentes
// en documentos de viaje. El día-primero (02/01/2006) va antes que variantes
// ambiguas porque es el formato dominante en los documentos que recibimos.
var lenientDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Reconcile convierte la extracción cruda en estado de formulario validado.
// Función pura: mismo input, mismo output, sin efectos.
func Reconcile(raw ports.RawExtraction) Result {
	return Result{
		TicketNumber:     reconcileString("ticket_number", raw.TicketNumber),
		BookingReference: reconcileString("booking_reference", raw.BookingReference),
		AgentID:          reconcileString("agent_id", raw.AgentID),
		Amount:           reconcileAmount(raw.Amount),
		Date:             reconcileDate(raw.Date),
	}
}

// Empty devuelve un formulario completamente vacío. Cuando la llamada de extracción
// falla, el formulario vuelve a este estado: datos llenados a medias por la máquina
// se consideran no confiables y se descartan completos.
func Empty() Result {
	return Result{
		TicketNumber:     StringField{Unset: true},
		BookingReference: StringField{Unset: true},
		AgentID:          StringField{Unset: true},
		Amount:           AmountField{Unset: true},
		Date:             StringField{Unset: true},
	}
}

func reconcileString(field, raw string) StringField {
	v := strings.TrimSpace(raw)
	if v == "" {
		return StringField{Unset: true, Warning: fmt.Sprintf("%s no detectado en el documento", field)}
	}
	return StringField{Value: v}
}

// reconcileAmount coerciona el monto a decimal. Se limpian símbolos de moneda,
// separadores de miles y espacios antes de parsear; el resultado debe ser
// positivo y finito (misma regla que la captura manual).
func reconcileAmount(raw string) AmountField {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return AmountField{Unset: true, Warning: "amount no detectado en el documento"}
	}
	replacer := strings.NewReplacer("$", "", "€", "", "£", "", "COP", "", "USD", "", ",", "", " ", "")
	cleaned = strings.TrimSpace(replacer.Replace(cleaned))

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return AmountField{Unset: true, Warning: fmt.Sprintf("amount no numérico: %q", raw)}
	}
	if !d.IsPositive() {
		return AmountField{Unset: true, Warning: fmt.Sprintf("amount debe ser positivo: %q", raw)}
	}
	return AmountField{Value: d}
}

// reconcileDate aplica la estrategia en dos etapas:
//  1. parseo estricto de fecha calendario ISO 8601 (YYYY-MM-DD);
//  2. pasada leniente sobre una lista fija de formatos, truncando a la fecha.
//
// Si ambas fallan, el campo queda sin asignar con una advertencia que nombra
// el string original (DateParseWarning, no fatal).
func reconcileDate(raw string) StringField {
	v := strings.TrimSpace(raw)
	if v == "" {
		return StringField{Unset: true, Warning: "date no detectada en el documento"}
	}

	// Etapa 1: estricto
	if t, err := time.Parse(entity.DateLayout, v); err == nil {
		return StringField{Value: t.Format(entity.DateLayout)}
	}

	// Etapa 2: leniente, con fallthrough registrable
	for _, layout := range lenientDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return StringField{Value: t.Format(entity.DateLayout)}
		}
	}

	return StringField{
		Unset:   true,
		Warning: fmt.Sprintf("date no parseable: %q", raw),
	}
}
