package repository

import (
	"context"

	"gestion/internal/model"
	"gestion/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository is the Inventory Ledger's data access contract.
type ItemRepository interface {
	Create(ctx context.Context, it *model.ItemInventario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ItemInventario, error)
	FindBySKU(ctx context.Context, sku string) (*model.ItemInventario, error)
	List(ctx context.Context, q query.Consulta) ([]model.ItemInventario, int64, error)
	// Update writes only the given columns (plus updated_at). Stock must be
	// listed explicitly, otherwise a concurrent sale's decrement would be lost.
	Update(ctx context.Context, it *model.ItemInventario, columnas ...string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Desactivar(ctx context.Context, id uuid.UUID) error

	// DescontarStockTx decrements stock only if enough units remain and
	// returns the stock left after the decrement. It reports false, without
	// error, when the guard rejected the update.
	DescontarStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, cantidad int) (restante int, ok bool, err error)

	// StockBajo returns up to limite items with stock < umbral (lowest first)
	// together with the total number of such items.
	StockBajo(ctx context.Context, umbral, limite int) ([]model.ItemInventario, int64, error)

	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, it *model.ItemInventario) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ItemInventario, error) {
	var it model.ItemInventario
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) FindBySKU(ctx context.Context, sku string) (*model.ItemInventario, error) {
	var it model.ItemInventario
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) List(ctx context.Context, q query.Consulta) ([]model.ItemInventario, int64, error) {
	var items []model.ItemInventario
	var total int64

	base := q.Filtrar(r.db.WithContext(ctx).Model(&model.ItemInventario{}))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginar(base).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) Update(ctx context.Context, it *model.ItemInventario, columnas ...string) error {
	cols := append(append([]string{}, columnas...), "updated_at")
	return r.db.WithContext(ctx).Model(it).Select(cols).Updates(it).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return borrado(r.db.WithContext(ctx).Delete(&model.ItemInventario{}, "id = ?", id))
}

func (r *itemRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.ItemInventario{}).Where("id = ?", id).Update("activo", false)
	return borrado(res)
}

func (r *itemRepo) DescontarStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, cantidad int) (int, bool, error) {
	var actualizados []model.ItemInventario
	res := conn(tx, r.db).WithContext(ctx).Model(&actualizados).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "stock"}}}).
		Where("id = ? AND stock >= ?", id, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected != 1 || len(actualizados) != 1 {
		return 0, false, nil
	}
	return actualizados[0].Stock, true, nil
}

func (r *itemRepo) StockBajo(ctx context.Context, umbral, limite int) ([]model.ItemInventario, int64, error) {
	var items []model.ItemInventario
	var total int64

	base := r.db.WithContext(ctx).Model(&model.ItemInventario{}).Where("stock < ?", umbral)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base.Order("stock ASC").Order("nombre ASC").Limit(limite).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) DB() *gorm.DB { return r.db }
