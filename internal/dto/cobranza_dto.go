package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCobranzaRequest struct {
	FechaVencimiento Fecha            `json:"fechaVencimiento" validate:"required"`
	Referencia       string           `json:"referencia"       validate:"required,max=120"`
	Cliente          string           `json:"cliente"          validate:"required,max=200"`
	Monto            *decimal.Decimal `json:"monto"`
	Estado           string           `json:"estado"           validate:"omitempty,oneof=pendiente pagada vencida"`
	Descripcion      *string          `json:"descripcion"`
}

type ActualizarCobranzaRequest struct {
	FechaVencimiento *Fecha           `json:"fechaVencimiento"`
	Referencia       *string          `json:"referencia"       validate:"omitempty,max=120"`
	Cliente          *string          `json:"cliente"          validate:"omitempty,max=200"`
	Monto            *decimal.Decimal `json:"monto"`
	Estado           *string          `json:"estado"           validate:"omitempty,oneof=pendiente pagada vencida"`
	Descripcion      *string          `json:"descripcion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CobranzaResponse struct {
	ID               string          `json:"id"`
	FechaVencimiento time.Time       `json:"fechaVencimiento"`
	Referencia       string          `json:"referencia"`
	Cliente          string          `json:"cliente"`
	Monto            decimal.Decimal `json:"monto"`
	Estado           string          `json:"estado"`
	Descripcion      *string         `json:"descripcion"`
	// Atrasada is derived: pending and past its due date.
	Atrasada  bool      `json:"atrasada"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
