package model

import (
	"time"

	"github.com/google/uuid"
)

// Modulo identifies one permission-gated area of the application.
type Modulo int

const (
	ModuloInventario Modulo = iota
	ModuloVentas
	ModuloCobranzas
)

// Modulos lists every gated module in a stable order.
var Modulos = []Modulo{ModuloInventario, ModuloVentas, ModuloCobranzas}

func (m Modulo) String() string {
	switch m {
	case ModuloInventario:
		return "inventario"
	case ModuloVentas:
		return "ventas"
	case ModuloCobranzas:
		return "cobranzas"
	default:
		return "desconocido"
	}
}

// Accion is one of the four CRUD capabilities.
type Accion int

const (
	AccionLeer Accion = iota
	AccionCrear
	AccionActualizar
	AccionEliminar
)

func (a Accion) String() string {
	switch a {
	case AccionLeer:
		return "read"
	case AccionCrear:
		return "create"
	case AccionActualizar:
		return "update"
	case AccionEliminar:
		return "delete"
	default:
		return "desconocida"
	}
}

// Capacidades is the 4-tuple of flags held for a single module.
type Capacidades struct {
	CanRead   bool `gorm:"not null;default:false"`
	CanCreate bool `gorm:"not null;default:false"`
	CanUpdate bool `gorm:"not null;default:false"`
	CanDelete bool `gorm:"not null;default:false"`
}

// Permite returns the flag that governs the given action.
func (c Capacidades) Permite(a Accion) bool {
	switch a {
	case AccionLeer:
		return c.CanRead
	case AccionCrear:
		return c.CanCreate
	case AccionActualizar:
		return c.CanUpdate
	case AccionEliminar:
		return c.CanDelete
	default:
		return false
	}
}

// CapacidadesTotales has every flag set. Used for admin effective permissions.
func CapacidadesTotales() Capacidades {
	return Capacidades{CanRead: true, CanCreate: true, CanUpdate: true, CanDelete: true}
}

// Permiso is the single permission row of a non-admin user.
// One row per user, enforced by the unique index on usuario_id.
type Permiso struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID  uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null"`
	Inventario Capacidades `gorm:"embedded;embeddedPrefix:inventario_"`
	Ventas     Capacidades `gorm:"embedded;embeddedPrefix:ventas_"`
	Cobranzas  Capacidades `gorm:"embedded;embeddedPrefix:cobranzas_"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE"`
}

func (Permiso) TableName() string { return "permisos" }

// Capacidades returns the flags held for module m.
func (p *Permiso) Capacidades(m Modulo) Capacidades {
	if p == nil {
		return Capacidades{}
	}
	switch m {
	case ModuloInventario:
		return p.Inventario
	case ModuloVentas:
		return p.Ventas
	case ModuloCobranzas:
		return p.Cobranzas
	default:
		return Capacidades{}
	}
}

// Permite reports whether the row grants action a on module m.
func (p *Permiso) Permite(m Modulo, a Accion) bool {
	return p.Capacidades(m).Permite(a)
}
