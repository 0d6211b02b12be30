package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInventario is a stock-keeping unit. Stock is never negative; the
// database enforces it with a CHECK constraint as well.
//
// Activo carries no gorm default: GORM omits zero values of columns that have
// one, so an explicit false would be stored as true. The column default lives
// in infra.Migrar instead.
type ItemInventario struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string          `gorm:"index;not null"`
	SKU         string          `gorm:"column:sku;uniqueIndex;not null"`
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Descripcion *string
	Imagen      *string
	Activo      bool            `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ItemInventario) TableName() string { return "items_inventario" }
