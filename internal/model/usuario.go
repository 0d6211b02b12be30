package model

import (
	"time"

	"github.com/google/uuid"
)

// Rol is the coarse role of a user. Admins bypass every permission check.
type Rol string

const (
	RolAdmin   Rol = "admin"
	RolUsuario Rol = "user"
)

// Valido reports whether r is one of the known roles.
func (r Rol) Valido() bool {
	return r == RolAdmin || r == RolUsuario
}

// Usuario stores system users. Email is stored lowercased and unique.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null;default:''"`
	PasswordHash string    `gorm:"not null"`
	Rol          Rol       `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }

// Identidad is the authenticated caller as resolved from the access token.
// A nil *Identidad means an anonymous request.
type Identidad struct {
	UsuarioID uuid.UUID
	Email     string
	Rol       Rol
}

// EsAdmin is the single admin short-circuit used across the codebase.
func (i *Identidad) EsAdmin() bool {
	return i != nil && i.Rol == RolAdmin
}

// EsUsuario reports whether the identity belongs to the given user id.
func (i *Identidad) EsUsuario(id uuid.UUID) bool {
	return i != nil && i.UsuarioID == id
}
