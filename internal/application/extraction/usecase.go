// Package extraction implementa la tubería secuencial de extracción asistida:
// decodificar el documento → llamar al extractor → reconciliar campos.
// Cada etapa devuelve resultado-o-error; no hay callbacks anidados ni resultados parciales.
package extraction

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/facturas-viajes-api/internal/application/ports"
	"github.com/jhoicas/facturas-viajes-api/internal/application/reconcile"
	"github.com/jhoicas/facturas-viajes-api/internal/domain"
	"github.com/jhoicas/facturas-viajes-api/pkg/logger"
)

// extractTimeout tope del caso de uso sobre la llamada externa; el adaptador HTTP
// tiene además su propio timeout de red.
const extractTimeout = 30 * time.Second

// UseCase orquesta la extracción de un documento subido hacia estado de formulario.
type UseCase struct {
	extractor ports.DocumentExtractor
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(extractor ports.DocumentExtractor, log *logger.Logger) *UseCase {
	return &UseCase{extractor: extractor, log: log}
}

// ExtractDocument recibe el documento como data-URI base64, lo decodifica, llama al
// extractor y reconcilia la salida cruda en campos validados.
//
// Política de falla: si la llamada de extracción falla, se devuelve el formulario
// completamente vacío junto con el error (nunca un formulario llenado a medias)
// y el caller muestra una única notificación de falla al usuario.
func (uc *UseCase) ExtractDocument(ctx context.Context, dataURI string) (reconcile.Result, error) {
	document, mimeType, err := decodeDataURI(dataURI)
	if err != nil {
		return reconcile.Empty(), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	raw, err := uc.extractor.Extract(ctx, document, mimeType)
	if err != nil {
		uc.log.Error().Err(err).Str("mime", mimeType).Msg("extracción de documento")
		return reconcile.Empty(), fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	result := reconcile.Reconcile(raw)
	for _, w := range result.Warnings() {
		uc.log.Warn().Str("warning", w).Msg("campo extraído requiere captura manual")
	}
	return result, nil
}

// decodeDataURI separa y decodifica un data-URI (data:<mime>;base64,<payload>).
// Solo se aceptan imágenes y PDF.
func decodeDataURI(uri string) (document []byte, mimeType string, err error) {
	const prefix = "data:"
	if !strings.HasPrefix(uri, prefix) {
		return nil, "", fmt.Errorf("documento debe ser un data-URI base64")
	}
	meta, payload, found := strings.Cut(uri[len(prefix):], ",")
	if !found {
		return nil, "", fmt.Errorf("data-URI sin payload")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	if mimeType == meta {
		return nil, "", fmt.Errorf("data-URI debe declarar ;base64")
	}
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return nil, "", fmt.Errorf("tipo de documento no soportado: %s", mimeType)
	}
	document, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decodificar base64: %v", err)
	}
	if len(document) == 0 {
		return nil, "", fmt.Errorf("documento vacío")
	}
	return document, mimeType, nil
}
