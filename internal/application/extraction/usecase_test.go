package extraction_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-viajes-api/internal/application/extraction"
	"github.com/jhoicas/facturas-viajes-api/internal/application/ports"
	"github.com/jhoicas/facturas-viajes-api/internal/domain"
	"github.com/jhoicas/facturas-viajes-api/pkg/logger"
)

// fakeExtractor extractor de prueba con salida fija o falla forzada.
type fakeExtractor struct {
	raw      ports.RawExtraction
	err      error
	lastMIME string
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, mimeType string) (ports.RawExtraction, error) {
	f.lastMIME = mimeType
	if f.err != nil {
		return ports.RawExtraction{}, f.err
	}
	return f.raw, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func dataURI(mime string) string {
	payload := base64.StdEncoding.EncodeToString([]byte("contenido-del-documento"))
	return "data:" + mime + ";base64," + payload
}

func TestExtractDocument_PipelineCompleto(t *testing.T) {
	fake := &fakeExtractor{raw: ports.RawExtraction{
		TicketNumber:     "T-1",
		BookingReference: "BK-1",
		AgentID:          "A001",
		Amount:           "$ 1,250.50",
		Date:             "2024-07-01T10:00:00Z",
	}}
	uc := extraction.NewUseCase(fake, testLogger())

	res, err := uc.ExtractDocument(context.Background(), dataURI("application/pdf"))
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", fake.lastMIME, "el MIME del data-URI llega al extractor")
	assert.Equal(t, "T-1", res.TicketNumber.Value)
	assert.Equal(t, "1250.50", res.Amount.Value.StringFixed(2))
	assert.Equal(t, "2024-07-01", res.Date.Value, "timestamp reconciliado a fecha calendario")
}

func TestExtractDocument_FallaDeExtraccion_FormularioVacio(t *testing.T) {
	fake := &fakeExtractor{err: errors.New("modelo caído")}
	uc := extraction.NewUseCase(fake, testLogger())

	res, err := uc.ExtractDocument(context.Background(), dataURI("image/png"))
	require.ErrorIs(t, err, domain.ErrExtraction)

	// Nunca un formulario a medias: todos los campos vuelven a vacío.
	assert.True(t, res.TicketNumber.Unset)
	assert.True(t, res.BookingReference.Unset)
	assert.True(t, res.AgentID.Unset)
	assert.True(t, res.Amount.Unset)
	assert.True(t, res.Date.Unset)
}

func TestExtractDocument_CampoMaloNoAbortaElResto(t *testing.T) {
	fake := &fakeExtractor{raw: ports.RawExtraction{
		TicketNumber:     "T-2",
		BookingReference: "BK-2",
		AgentID:          "A002",
		Amount:           "99.00",
		Date:             "no es fecha",
	}}
	uc := extraction.NewUseCase(fake, testLogger())

	res, err := uc.ExtractDocument(context.Background(), dataURI("image/jpeg"))
	require.NoError(t, err, "una fecha mala es advertencia local, no falla de la operación")

	assert.True(t, res.Date.Unset)
	assert.Contains(t, res.Date.Warning, "no es fecha")
	assert.Equal(t, "T-2", res.TicketNumber.Value, "los demás campos se pueblan igual")
}

func TestExtractDocument_DataURIInvalido(t *testing.T) {
	uc := extraction.NewUseCase(&fakeExtractor{}, testLogger())

	casos := []string{
		"no-es-data-uri",
		"data:application/pdf,sin-base64",
		"data:text/plain;base64,aGVsbG8=", // tipo no soportado
		"data:application/pdf;base64,@@@no-base64@@@",
		"data:application/pdf;base64,",
	}
	for _, in := range casos {
		_, err := uc.ExtractDocument(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %q", in)
	}
}
