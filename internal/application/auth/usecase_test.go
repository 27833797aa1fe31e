package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Reparaciones-api/internal/application/auth"
	"github.com/jhoicas/Reparaciones-api/internal/application/dto"
	"github.com/jhoicas/Reparaciones-api/internal/domain"
	pkgjwt "github.com/jhoicas/Reparaciones-api/pkg/jwt"
)

const (
	gateSecret = "taller-2024"
	gateJWTKey = "test-secret-key-for-auth-tests"
)

func newUC(t *testing.T, hashed bool) *auth.AuthUseCase {
	t.Helper()
	gate := auth.GateConfig{}
	if hashed {
		h, err := bcrypt.GenerateFromPassword([]byte(gateSecret), bcrypt.MinCost)
		require.NoError(t, err)
		gate.PasswordHash = string(h)
	} else {
		gate.Password = gateSecret
	}
	return auth.NewAuthUseCase(gate, auth.JWTConfig{
		Secret:     gateJWTKey,
		ExpMinutes: 60,
		Issuer:     "reparaciones-api-test",
	})
}

func TestLogin_PasswordCorrecta_EmiteTokenStaff(t *testing.T) {
	uc := newUC(t, false)

	out, err := uc.Login(dto.LoginRequest{Password: gateSecret})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 60*60, out.ExpiresIn)

	role, err := pkgjwt.Parse(gateJWTKey, out.Token)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.RoleStaff, role, "toda sesión del portal lleva rol staff")
}

func TestLogin_PasswordIncorrecta_Retorna401(t *testing.T) {
	uc := newUC(t, false)

	out, err := uc.Login(dto.LoginRequest{Password: "otra-cosa"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_PasswordVacia_Retorna401(t *testing.T) {
	uc := newUC(t, false)

	_, err := uc.Login(dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Con AUTH_PASSWORD_HASH configurado, la comparación va por bcrypt.
func TestLogin_HashBcrypt(t *testing.T) {
	uc := newUC(t, true)

	_, err := uc.Login(dto.LoginRequest{Password: gateSecret})
	assert.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
