package dto

import "time"

// RolDto referencia a un rol en una petición de registro. Se prefiere el uso
// de ID; los permisos en línea se ignoran del lado del servidor.
type RolDto struct {
	ID       *int16   `json:"id,omitempty"`
	Nombre   string   `json:"nombre,omitempty"`
	Permisos []string `json:"permisos,omitempty"`
}

// UsuarioDto cuerpo de la cuenta dentro del registro. La contraseña viaja en
// texto plano solo en la petición; se hashea antes de persistir.
type UsuarioDto struct {
	ID       string   `json:"id,omitempty"`
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Password string   `json:"password" validate:"required,min=8,max=70"`
	Roles    []RolDto `json:"roles" validate:"required,min=1,dive"`
}

// RegisterUserRequest petición de registro. La forma de la petición decide la
// estrategia: licencia_fabricante presente selecciona el registro de
// fabricante; persona_id opcional vincula la cuenta directa a una persona.
type RegisterUserRequest struct {
	Usuario            UsuarioDto `json:"usuario" validate:"required"`
	PersonaID          string     `json:"persona_id,omitempty" validate:"omitempty,uuid"`
	LicenciaFabricante string     `json:"licencia_fabricante,omitempty"`
}

// UsuarioResponse salida de una cuenta (sin contraseña).
type UsuarioResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Roles        []string  `json:"roles"`
	PersonaID    string    `json:"persona_id,omitempty"`
	FabricanteID string    `json:"fabricante_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest credenciales de acceso. El identificador admite username,
// cédula, pasaporte, correo o licencia de fabricante.
type LoginRequest struct {
	Identificador string `json:"identificador" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

// TokenPairResponse par de tokens emitidos juntos.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // segundos del access token
}

// RestoreRequest petición de cambio de contraseña con verificación fuera de
// banda por fecha de nacimiento.
type RestoreRequest struct {
	Username        string `json:"username" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=70"`
	FechaNacimiento string `json:"fecha_nacimiento" validate:"required,datetime=2006-01-02"`
}
