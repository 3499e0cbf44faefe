package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/jhoicas/facturas-viajes-api/internal/application/auth"
	"github.com/jhoicas/facturas-viajes-api/internal/application/dto"
	"github.com/jhoicas/facturas-viajes-api/internal/application/extraction"
	"github.com/jhoicas/facturas-viajes-api/internal/application/invoicing"
	"github.com/jhoicas/facturas-viajes-api/internal/domain"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
	apphttp "github.com/jhoicas/facturas-viajes-api/internal/interfaces/http"
	"github.com/jhoicas/facturas-viajes-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// memRepo repositorio en memoria con el mismo contrato que el adaptador postgres.
type memRepo struct {
	items map[string]entity.Invoice
	seq   int
}

func newMemRepo() *memRepo { return &memRepo{items: map[string]entity.Invoice{}} }

func (r *memRepo) ListAll(context.Context) ([]entity.Invoice, error) {
	out := make([]entity.Invoice, 0, len(r.items))
	for _, inv := range r.items {
		out = append(out, inv)
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, inv entity.Invoice) (entity.Invoice, error) {
	r.seq++
	inv.ID = fmt.Sprintf("id-%d", r.seq)
	r.items[inv.ID] = inv
	return inv, nil
}

func (r *memRepo) Update(_ context.Context, inv entity.Invoice) error {
	if _, ok := r.items[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[inv.ID] = inv
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// fakePDF generador de reporte trivial para no depender de maroto en estos tests.
type fakePDF struct{}

func (fakePDF) GenerateListingPDF(context.Context, []entity.Invoice) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

type testEnv struct {
	app  *fiber.App
	repo *memRepo
	gate *appauth.UseCase
}

// buildTestApp construye la aplicación completa sobre un repositorio en memoria:
// router real, compuerta de sesión real, extractor irrelevante para estas rutas.
func buildTestApp(t *testing.T) testEnv {
	t.Helper()
	log := testLogger()
	repo := newMemRepo()

	gate, err := appauth.NewUseCase(appauth.Config{
		AdminUsername: "admin",
		AdminPassword: "clave-secreta",
		JWTSecret:     "test-secret-key-for-unit-tests",
		JWTIssuer:     "facturas-viajes-test",
		ExpMinutes:    60,
	}, log)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		InvoiceUC:  invoicing.NewUseCase(repo, log),
		ExtractUC:  extraction.NewUseCase(nil, log), // las rutas probadas aquí no extraen
		AuthGate:   gate,
		ReportGen:  fakePDF{},
		ExpMinutes: 60,
	})
	return testEnv{app: app, repo: repo, gate: gate}
}

func doJSON(t *testing.T, app *fiber.App, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func loginAdmin(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Username: "admin", Password: "clave-secreta"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return "Bearer " + out.Token
}

func facturaBody(ticket, agent, amount, date string) dto.InvoiceRequest {
	return dto.InvoiceRequest{
		TicketNumber:     ticket,
		BookingReference: "B-" + ticket,
		AgentID:          agent,
		Amount:           decimal.RequireFromString(amount),
		Date:             date,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Compuerta de sesión sobre las rutas de administración
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_SinToken_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := doJSON(t, env.app, http.MethodGet, "/api/admin/invoices", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_TokenInvalido_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := doJSON(t, env.app, http.MethodGet, "/api/admin/invoices", "Bearer token.invalido.aqui", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_TrasLogout_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	auth := loginAdmin(t, env.app)

	ok := doJSON(t, env.app, http.MethodGet, "/api/admin/invoices", auth, nil)
	ok.Body.Close()
	require.Equal(t, http.StatusOK, ok.StatusCode)

	out := doJSON(t, env.app, http.MethodPost, "/api/auth/logout", auth, nil)
	out.Body.Close()
	require.Equal(t, http.StatusNoContent, out.StatusCode)

	resp := doJSON(t, env.app, http.MethodGet, "/api/admin/invoices", auth, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"logout revoca la sesión aunque el token no haya expirado")
}

func TestLogin_CredencialMala_Retorna401(t *testing.T) {
	env := buildTestApp(t)
	resp := doJSON(t, env.app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Username: "admin", Password: "incorrecta"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateYListar_VistaDeAgente(t *testing.T) {
	env := buildTestApp(t)

	created := doJSON(t, env.app, http.MethodPost, "/api/invoices/", "",
		facturaBody("T1", "A001", "150.75", "2024-07-10"))
	defer created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)

	var inv entity.Invoice
	require.NoError(t, json.NewDecoder(created.Body).Decode(&inv))
	assert.NotEmpty(t, inv.ID, "el almacén debe asignar id")

	resp := doJSON(t, env.app, http.MethodGet, "/api/invoices/?agent_id=a001", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.InvoiceListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Equal(t, 1, list.Total, `el filtro "a001" debe coincidir con "A001" (case-insensitive)`)
	assert.Empty(t, list.EmptyMessage)
}

func TestListar_FiltroSinResultados_EstadoVacioExplicito(t *testing.T) {
	env := buildTestApp(t)

	resp := doJSON(t, env.app, http.MethodGet, "/api/invoices/?agent_id=nadie", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "colección vacía no es error")

	var list dto.InvoiceListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list.Items)
	assert.NotEmpty(t, list.EmptyMessage, "estado vacío siempre con mensaje explícito")
}

func TestCreate_Invalido_Retorna400(t *testing.T) {
	env := buildTestApp(t)
	resp := doJSON(t, env.app, http.MethodPost, "/api/invoices/", "",
		facturaBody("T1", "A001", "0", "2024-07-10")) // monto no positivo
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdate_IDInexistente_Retorna404(t *testing.T) {
	env := buildTestApp(t)
	auth := loginAdmin(t, env.app)

	resp := doJSON(t, env.app, http.MethodPut, "/api/admin/invoices/no-existe", auth,
		facturaBody("T1", "A001", "10.00", "2024-07-10"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBusquedaAdmin_PorMonto(t *testing.T) {
	env := buildTestApp(t)
	auth := loginAdmin(t, env.app)

	r1 := doJSON(t, env.app, http.MethodPost, "/api/invoices/", "",
		facturaBody("T1", "A001", "150.75", "2024-07-10"))
	r1.Body.Close()
	r2 := doJSON(t, env.app, http.MethodPost, "/api/invoices/", "",
		facturaBody("T2", "A002", "99.00", "2024-07-11"))
	r2.Body.Close()

	resp := doJSON(t, env.app, http.MethodGet, "/api/admin/invoices?search=150.75", auth, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.InvoiceListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Equal(t, 1, list.Total, "el término debe coincidir por el campo amount")
	assert.Equal(t, "T1", list.Items[0].TicketNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación en dos pasos por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_FlujoCompletoPorHTTP(t *testing.T) {
	env := buildTestApp(t)
	auth := loginAdmin(t, env.app)

	created := doJSON(t, env.app, http.MethodPost, "/api/invoices/", "",
		facturaBody("T1", "A001", "10.00", "2024-07-10"))
	var inv entity.Invoice
	require.NoError(t, json.NewDecoder(created.Body).Decode(&inv))
	created.Body.Close()

	reqResp := doJSON(t, env.app, http.MethodPost, "/api/admin/invoices/"+inv.ID+"/delete/request", auth, nil)
	defer reqResp.Body.Close()
	require.Equal(t, http.StatusOK, reqResp.StatusCode)
	var reqOut dto.DeleteRequestResponse
	require.NoError(t, json.NewDecoder(reqResp.Body).Decode(&reqOut))
	require.NotEmpty(t, reqOut.ConfirmToken)

	confirm := doJSON(t, env.app, http.MethodPost, "/api/admin/invoices/"+inv.ID+"/delete/confirm", auth,
		dto.ConfirmDeleteRequest{ConfirmToken: reqOut.ConfirmToken})
	confirm.Body.Close()
	assert.Equal(t, http.StatusNoContent, confirm.StatusCode)

	assert.Empty(t, env.repo.items, "la eliminación confirmada llega al almacén")
}

func TestDelete_ConfirmarSinSolicitud_Retorna409(t *testing.T) {
	env := buildTestApp(t)
	auth := loginAdmin(t, env.app)

	created := doJSON(t, env.app, http.MethodPost, "/api/invoices/", "",
		facturaBody("T1", "A001", "10.00", "2024-07-10"))
	var inv entity.Invoice
	require.NoError(t, json.NewDecoder(created.Body).Decode(&inv))
	created.Body.Close()

	confirm := doJSON(t, env.app, http.MethodPost, "/api/admin/invoices/"+inv.ID+"/delete/confirm", auth,
		dto.ConfirmDeleteRequest{ConfirmToken: "inventado"})
	defer confirm.Body.Close()
	assert.Equal(t, http.StatusConflict, confirm.StatusCode)
	assert.Len(t, env.repo.items, 1, "sin confirmación válida no se toca el almacén")
}

func TestDelete_Cancelar_NoLlamaAlAlmacen(t *testing.T) {
	env := buildTestApp(t)
	auth := loginAdmin(t, env.app)

	created := doJSON(t, env.app, http.MethodPost, "/api/invoices/", "",
		facturaBody("T1", "A001", "10.00", "2024-07-10"))
	var inv entity.Invoice
	require.NoError(t, json.NewDecoder(created.Body).Decode(&inv))
	created.Body.Close()

	reqResp := doJSON(t, env.app, http.MethodPost, "/api/admin/invoices/"+inv.ID+"/delete/request", auth, nil)
	reqResp.Body.Close()

	cancel := doJSON(t, env.app, http.MethodPost, "/api/admin/invoices/"+inv.ID+"/delete/cancel", auth, nil)
	cancel.Body.Close()
	assert.Equal(t, http.StatusNoContent, cancel.StatusCode)
	assert.Len(t, env.repo.items, 1, "cancelar descarta la solicitud sin llamada de red")
}
