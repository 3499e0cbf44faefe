// Package auth implementa la compuerta de sesión del panel de administración:
// verificación de una credencial fija más una bandera de sesión revocable.
// No es una frontera de seguridad real (limitación documentada, no un defecto):
// protege vistas, no datos.
package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/facturas-viajes-api/internal/domain"
	"github.com/jhoicas/facturas-viajes-api/pkg/jwt"
	"github.com/jhoicas/facturas-viajes-api/pkg/logger"
)

// Config parámetros de la compuerta.
type Config struct {
	AdminUsername string
	AdminPassword string // credencial fija; se hashea con bcrypt al construir
	JWTSecret     string
	JWTIssuer     string
	ExpMinutes    int
	LoginDelay    time.Duration // retardo fijo deliberado que simula latencia de red
}

// UseCase compuerta de sesión: login con credencial fija, logout y verificación.
type UseCase struct {
	cfg          Config
	passwordHash []byte
	log          *logger.Logger

	mu       sync.RWMutex
	sessions map[string]struct{} // jti activos: la "bandera" de sesión persistida
}

// NewUseCase construye la compuerta. La contraseña fija se guarda solo como hash
// bcrypt; la comparación en login es siempre contra el hash.
func NewUseCase(cfg Config, log *logger.Logger) (*UseCase, error) {
	var hash []byte
	if cfg.AdminPassword != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	return &UseCase{
		cfg:          cfg,
		passwordHash: hash,
		log:          log,
		sessions:     make(map[string]struct{}),
	}, nil
}

// Login verifica la credencial contra el par fijo configurado, con un retardo fijo
// antes de responder. En éxito emite un token de sesión y registra su jti (bandera
// en true); en cualquier falla la respuesta es ErrUnauthorized y no queda sesión.
func (uc *UseCase) Login(ctx context.Context, username, password string) (token string, err error) {
	// Retardo deliberado, también en fallas (no filtra cuál campo estuvo mal).
	select {
	case <-time.After(uc.cfg.LoginDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if uc.passwordHash == nil || username != uc.cfg.AdminUsername {
		uc.log.Warn().Str("username", username).Msg("login rechazado")
		return "", domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(password)) != nil {
		uc.log.Warn().Str("username", username).Msg("login rechazado")
		return "", domain.ErrUnauthorized
	}

	token, sessionID, err := jwt.Generate(uc.cfg.JWTSecret, username, uc.cfg.JWTIssuer, uc.cfg.ExpMinutes)
	if err != nil {
		return "", err
	}
	uc.mu.Lock()
	uc.sessions[sessionID] = struct{}{}
	uc.mu.Unlock()

	uc.log.Info().Str("username", username).Msg("sesión de administrador iniciada")
	return token, nil
}

// Logout revoca la sesión del token (bandera a false). Un token desconocido o
// inválido no es error: el estado final es el mismo, sin sesión.
func (uc *UseCase) Logout(token string) {
	_, sessionID, err := jwt.Parse(uc.cfg.JWTSecret, token)
	if err != nil {
		return
	}
	uc.mu.Lock()
	delete(uc.sessions, sessionID)
	uc.mu.Unlock()
}

// Verify valida el token y que su sesión siga activa (no revocada por logout).
// Esta verificación se re-ejecuta en cada petición a vistas protegidas.
func (uc *UseCase) Verify(token string) error {
	_, sessionID, err := jwt.Parse(uc.cfg.JWTSecret, token)
	if err != nil {
		return domain.ErrUnauthorized
	}
	uc.mu.RLock()
	_, active := uc.sessions[sessionID]
	uc.mu.RUnlock()
	if !active {
		return domain.ErrUnauthorized
	}
	return nil
}
