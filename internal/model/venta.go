package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoVenta: "pendiente" | "pagada" | "cancelada"
type EstadoVenta string

const (
	VentaPendiente EstadoVenta = "pendiente"
	VentaPagada    EstadoVenta = "pagada"
	VentaCancelada EstadoVenta = "cancelada"
)

func (e EstadoVenta) Valido() bool {
	switch e {
	case VentaPendiente, VentaPagada, VentaCancelada:
		return true
	}
	return false
}

// Venta is a single-product sale. Total is derived from the product price at
// creation time and is never written by callers.
type Venta struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha       time.Time       `gorm:"index;not null"`
	Referencia  string          `gorm:"not null"`
	Cliente     string          `gorm:"index;not null"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Cantidad    int             `gorm:"not null;default:1"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado      EstadoVenta     `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Descripcion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Producto *ItemInventario `gorm:"foreignKey:ProductoID;constraint:OnDelete:RESTRICT"`
}

func (Venta) TableName() string { return "ventas" }

// NuevaVenta builds a sale for producto, computing Total = precio × cantidad.
func NuevaVenta(producto *ItemInventario, cantidad int, fecha time.Time, referencia, cliente string) Venta {
	return Venta{
		Fecha:      fecha,
		Referencia: referencia,
		Cliente:    cliente,
		ProductoID: producto.ID,
		Cantidad:   cantidad,
		Total:      producto.Precio.Mul(decimal.NewFromInt(int64(cantidad))).Round(2),
		Estado:     VentaPendiente,
		Producto:   producto,
	}
}
