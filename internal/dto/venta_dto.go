package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearVentaRequest has no total: it is always computed from the product price.
type CrearVentaRequest struct {
	Fecha       Fecha   `json:"fecha"       validate:"required"`
	Referencia  string  `json:"referencia"  validate:"required,max=120"`
	Cliente     string  `json:"cliente"     validate:"required,max=200"`
	Producto    string  `json:"producto"    validate:"required,uuid"`
	Cantidad    *int    `json:"cantidad"    validate:"omitempty,min=1"`
	Estado      string  `json:"estado"      validate:"omitempty,oneof=pendiente pagada cancelada"`
	Descripcion *string `json:"descripcion"`
}

// ActualizarVentaRequest declares the immutable fields only so that attempts to
// change them are rejected instead of silently dropped.
type ActualizarVentaRequest struct {
	Fecha       *Fecha  `json:"fecha"`
	Referencia  *string `json:"referencia"  validate:"omitempty,max=120"`
	Cliente     *string `json:"cliente"     validate:"omitempty,max=200"`
	Estado      *string `json:"estado"      validate:"omitempty,oneof=pendiente pagada cancelada"`
	Descripcion *string `json:"descripcion"`

	Producto *string          `json:"producto"`
	Cantidad *int             `json:"cantidad"`
	Total    *decimal.Decimal `json:"total"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID             string          `json:"id"`
	Fecha          time.Time       `json:"fecha"`
	Referencia     string          `json:"referencia"`
	Cliente        string          `json:"cliente"`
	Producto       string          `json:"producto"`
	ProductoNombre string          `json:"productoNombre,omitempty"`
	Cantidad       int             `json:"cantidad"`
	Total          decimal.Decimal `json:"total"`
	Estado         string          `json:"estado"`
	Descripcion    *string         `json:"descripcion"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
