package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/facturas-viajes-api/internal/application/ports"
)

// Verificar en tiempo de compilación que GeminiExtractor implementa DocumentExtractor.
var _ ports.DocumentExtractor = (*GeminiExtractor)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

	// systemPrompt define el rol del modelo y el formato de salida.
	// Usar response_mime_type=application/json obliga a Gemini a devolver JSON puro,
	// eliminando la necesidad de limpiar bloques de markdown.
	systemPrompt = `Eres un asistente de digitación de facturas de viaje.
Del documento adjunto (imagen o PDF de una factura/tiquete de viaje) extrae estos cinco campos y devuelve ÚNICAMENTE un objeto JSON (sin texto adicional) con esta estructura exacta:
{
  "ticket_number": "<número de tiquete como aparece en el documento>",
  "booking_reference": "<referencia o localizador de la reserva>",
  "agent_id": "<identificador del agente emisor>",
  "amount": "<monto total, texto tal cual aparece>",
  "date": "<fecha de la factura, texto tal cual aparece>"
}

Reglas:
- Todos los valores son strings; transcribe lo que veas, sin normalizar formatos.
- Si un campo no aparece en el documento, usa string vacío "".
- No incluyas texto fuera del JSON. Solo el objeto JSON.`
)

// GeminiExtractor adaptador que implementa DocumentExtractor llamando a la API REST
// de Google Gemini con entrada multimodal (inline_data). Usa únicamente net/http;
// no requiere el SDK oficial.
//
// La llamada es todo-o-nada: cualquier falla de transporte o del modelo se reporta
// como error; nunca hay éxito parcial.
type GeminiExtractor struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiExtractor construye el adaptador. model suele ser "gemini-1.5-flash".
// Si apiKey está vacío, las llamadas fallan rápido con error descriptivo en lugar
// de colgarse o hacer panic.
func NewGeminiExtractor(apiKey, model string) *GeminiExtractor {
	return &GeminiExtractor{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 20 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // "application/json" → JSON puro garantizado
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Extract envía el documento codificado a Gemini y devuelve los cinco campos
// crudos, sin ninguna validación: esa es tarea del reconciliador.
func (s *GeminiExtractor) Extract(ctx context.Context, document []byte, mimeType string) (ports.RawExtraction, error) {
	var zero ports.RawExtraction
	if s.apiKey == "" {
		return zero, fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{InlineData: &geminiInlineData{
						MIMEType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(document),
					}},
					{Text: "Extrae los cinco campos de esta factura de viaje."},
				},
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.1, // baja temperatura para transcripción determinista
			MaxOutputTokens:  512,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf(geminiBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return zero, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return zero, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return zero, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return zero, fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return zero, fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return zero, fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return zero, fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}

	rawJSON := strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text)

	var extraction ports.RawExtraction
	if err := json.Unmarshal([]byte(rawJSON), &extraction); err != nil {
		return zero, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, rawJSON)
	}
	return extraction, nil
}
