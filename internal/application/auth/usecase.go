package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Reparaciones-api/internal/application/dto"
	"github.com/jhoicas/Reparaciones-api/internal/domain"
	"github.com/jhoicas/Reparaciones-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// GateConfig el portal compartido del tablero: una sola contraseña para todo
// el personal (mecanismo heredado del sistema original). PasswordHash (bcrypt)
// tiene prioridad; Password en claro es el fallback para entornos locales.
type GateConfig struct {
	PasswordHash string
	Password     string
}

// AuthUseCase valida el portal compartido y emite el token de sesión.
type AuthUseCase struct {
	gate   GateConfig
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(gate GateConfig, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{gate: gate, jwtCfg: jwtCfg}
}

// Login compara la contraseña contra el portal y, si pasa, emite un JWT con
// rol "staff". Devuelve ErrUnauthorized sin distinguir causa.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Password == "" {
		return nil, domain.ErrUnauthorized
	}
	if !uc.passwordOK(in.Password) {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.RoleStaff, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresIn: uc.jwtCfg.ExpMinutes * 60}, nil
}

func (uc *AuthUseCase) passwordOK(password string) bool {
	if uc.gate.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(uc.gate.PasswordHash), []byte(password)) == nil
	}
	if uc.gate.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(uc.gate.Password), []byte(password)) == 1
}
