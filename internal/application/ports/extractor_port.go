package ports

import "context"

// RawExtraction es la salida cruda del servicio de extracción: cinco campos string
// que espejan la forma de la factura pero SIN ninguna garantía de validez.
// La fecha en particular puede venir en cualquier formato humano o de máquina,
// ausente, o ser basura. Nunca se mezcla esta representación cruda con la validada:
// la conversión es responsabilidad exclusiva del reconciliador.
type RawExtraction struct {
	TicketNumber     string `json:"ticket_number"`
	BookingReference string `json:"booking_reference"`
	AgentID          string `json:"agent_id"`
	Amount           string `json:"amount"`
	Date             string `json:"date"`
}

// DocumentExtractor define el puerto de salida hacia el servicio de extracción con IA.
// Cualquier adaptador (Gemini, mock) debe implementar esta interfaz.
//
// La llamada es única y bloqueante, todo-o-nada: nunca hay éxito parcial ni streaming.
// El contexto debe llevar un timeout para evitar bloqueos en la llamada externa.
type DocumentExtractor interface {
	Extract(ctx context.Context, document []byte, mimeType string) (RawExtraction, error)
}
