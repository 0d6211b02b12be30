package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoCobranza: "pendiente" | "pagada" | "vencida"
// "vencida" is set by the caller; overdue-ness is derived, see Atrasada.
type EstadoCobranza string

const (
	CobranzaPendiente EstadoCobranza = "pendiente"
	CobranzaPagada    EstadoCobranza = "pagada"
	CobranzaVencida   EstadoCobranza = "vencida"
)

func (e EstadoCobranza) Valido() bool {
	switch e {
	case CobranzaPendiente, CobranzaPagada, CobranzaVencida:
		return true
	}
	return false
}

type Cobranza struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FechaVencimiento time.Time       `gorm:"index;not null"`
	Referencia       string          `gorm:"not null"`
	Cliente          string          `gorm:"index;not null"`
	Monto            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado           EstadoCobranza  `gorm:"type:varchar(20);index;not null;default:'pendiente'"`
	Descripcion      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Cobranza) TableName() string { return "cobranzas" }

// Atrasada reports whether the receivable is still pending past its due date.
func (c *Cobranza) Atrasada(ahora time.Time) bool {
	return c.Estado == CobranzaPendiente && c.FechaVencimiento.Before(ahora)
}
