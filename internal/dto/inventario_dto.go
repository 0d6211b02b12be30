package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearItemRequest struct {
	Nombre      string           `json:"nombre"      validate:"required,max=120"`
	SKU         string           `json:"sku"         validate:"required,max=64"`
	Precio      *decimal.Decimal `json:"precio"` // required; checked by the service since 0 is valid
	Stock       *int             `json:"stock"`
	Descripcion *string          `json:"descripcion"`
	Imagen      *string          `json:"imagen"      validate:"omitempty,url"`
	Activo      *bool            `json:"activo"`
}

type ActualizarItemRequest struct {
	Nombre      *string          `json:"nombre"      validate:"omitempty,max=120"`
	SKU         *string          `json:"sku"         validate:"omitempty,max=64"`
	Precio      *decimal.Decimal `json:"precio"`
	Stock       *int             `json:"stock"`
	Descripcion *string          `json:"descripcion"`
	Imagen      *string          `json:"imagen"      validate:"omitempty,url"`
	Activo      *bool            `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	SKU         string          `json:"sku"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Descripcion *string         `json:"descripcion"`
	Imagen      *string         `json:"imagen"`
	Activo      bool            `json:"activo"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// EliminarItemResponse tells the caller whether the item was removed or,
// because sales reference it, only deactivated.
type EliminarItemResponse struct {
	ID          string `json:"id"`
	Desactivado bool   `json:"desactivado"`
}
