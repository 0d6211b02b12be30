package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CrearUsuarioRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Nombre   string `json:"nombre"   validate:"omitempty,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type ActualizarUsuarioRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email,max=254"`
	Nombre   *string `json:"nombre"   validate:"omitempty,max=100"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role"     validate:"omitempty,oneof=admin user"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nombre    string    `json:"nombre"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LoginResponse struct {
	User  UsuarioResponse `json:"user"`
	Token string          `json:"token"`
	Exp   int64           `json:"exp"` // unix seconds
}

// YoResponse is the whoAmI payload. User is null for anonymous callers.
type YoResponse struct {
	User     *UsuarioResponse  `json:"user"`
	Permisos *PermisosResponse `json:"permisos,omitempty"`
}
