package repository

import (
	"context"
	"time"

	"gestion/internal/model"
	"gestion/internal/query"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, q query.Consulta) ([]model.Venta, int64, error)
	Update(ctx context.Context, v *model.Venta) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistePorProducto(ctx context.Context, productoID uuid.UUID) (bool, error)

	// ResumenDesde sums total and counts sales with fecha >= desde.
	ResumenDesde(ctx context.Context, desde time.Time) (decimal.Decimal, int64, error)
	// ListDesde returns fecha and total of every sale with fecha >= desde.
	ListDesde(ctx context.Context, desde time.Time) ([]model.Venta, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return conn(tx, r.db).WithContext(ctx).Omit("Producto").Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := r.db.WithContext(ctx).Preload("Producto").First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) List(ctx context.Context, q query.Consulta) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	base := q.Filtrar(r.db.WithContext(ctx).Model(&model.Venta{}))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginar(base).Preload("Producto").Find(&ventas).Error
	return ventas, total, err
}

// Update persists only the mutable columns; producto, cantidad and total are
// fixed at creation.
func (r *ventaRepo) Update(ctx context.Context, v *model.Venta) error {
	return r.db.WithContext(ctx).Model(v).
		Select("fecha", "referencia", "cliente", "estado", "descripcion", "updated_at").
		Updates(v).Error
}

func (r *ventaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return borrado(r.db.WithContext(ctx).Delete(&model.Venta{}, "id = ?", id))
}

func (r *ventaRepo) ExistePorProducto(ctx context.Context, productoID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).Where("producto_id = ?", productoID).Count(&n).Error
	return n > 0, err
}

func (r *ventaRepo) ResumenDesde(ctx context.Context, desde time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total    decimal.Decimal
		Cantidad int64
	}
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS cantidad").
		Where("fecha >= ?", desde).
		Scan(&row).Error
	return row.Total, row.Cantidad, err
}

func (r *ventaRepo) ListDesde(ctx context.Context, desde time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Select("id", "fecha", "total").
		Where("fecha >= ?", desde).
		Order("fecha ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
