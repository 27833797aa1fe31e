package dto

// LoginRequest entrada del portal compartido: una sola contraseña para todo
// el personal (mecanismo heredado del tablero original).
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse token de sesión emitido tras pasar el portal.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // segundos
}
