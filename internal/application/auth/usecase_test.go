package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-viajes-api/internal/application/auth"
	"github.com/jhoicas/facturas-viajes-api/internal/domain"
	"github.com/jhoicas/facturas-viajes-api/pkg/logger"
)

func gate(t *testing.T, delay time.Duration) *auth.UseCase {
	t.Helper()
	uc, err := auth.NewUseCase(auth.Config{
		AdminUsername: "admin",
		AdminPassword: "clave-secreta",
		JWTSecret:     "test-secret-key-for-unit-tests",
		JWTIssuer:     "facturas-viajes-test",
		ExpMinutes:    60,
		LoginDelay:    delay,
	}, logger.New(logger.Config{Env: "production", Level: "error"}))
	require.NoError(t, err)
	return uc
}

func TestLogin_CredencialExacta_EmiteSesion(t *testing.T) {
	uc := gate(t, 0)

	token, err := uc.Login(context.Background(), "admin", "clave-secreta")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, uc.Verify(token), "el token emitido debe verificar mientras la sesión está activa")
}

func TestLogin_CredencialIncorrecta_Unauthorized(t *testing.T) {
	uc := gate(t, 0)
	ctx := context.Background()

	_, err := uc.Login(ctx, "admin", "otra-clave")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, "otro-usuario", "clave-secreta")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "la coincidencia debe ser exacta en ambos campos")
}

func TestLogin_RetardoFijo(t *testing.T) {
	uc := gate(t, 120*time.Millisecond)

	inicio := time.Now()
	_, err := uc.Login(context.Background(), "admin", "clave-secreta")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(inicio), 120*time.Millisecond,
		"el login aplica el retardo fijo deliberado antes de responder")
}

func TestLogout_RevocaLaSesion(t *testing.T) {
	uc := gate(t, 0)

	token, err := uc.Login(context.Background(), "admin", "clave-secreta")
	require.NoError(t, err)
	require.NoError(t, uc.Verify(token))

	uc.Logout(token)
	assert.ErrorIs(t, uc.Verify(token), domain.ErrUnauthorized,
		"tras logout la bandera queda en false y la verificación falla")
}

func TestVerify_TokenInvalido(t *testing.T) {
	uc := gate(t, 0)
	assert.ErrorIs(t, uc.Verify("token.invalido.aqui"), domain.ErrUnauthorized)
	assert.ErrorIs(t, uc.Verify(""), domain.ErrUnauthorized)
}

func TestLogin_SinPasswordConfigurado_RechazaTodo(t *testing.T) {
	uc, err := auth.NewUseCase(auth.Config{
		AdminUsername: "admin",
		JWTSecret:     "s",
		ExpMinutes:    60,
	}, logger.New(logger.Config{Env: "production", Level: "error"}))
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
