package repository

import (
	"context"
	"time"

	"gestion/internal/model"
	"gestion/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CobranzaRepository interface {
	Create(ctx context.Context, c *model.Cobranza) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cobranza, error)
	List(ctx context.Context, q query.Consulta) ([]model.Cobranza, int64, error)
	Update(ctx context.Context, c *model.Cobranza) error
	Delete(ctx context.Context, id uuid.UUID) error

	ContarPendientes(ctx context.Context) (int64, error)
	// ContarAtrasadas counts pending receivables due before ahora.
	ContarAtrasadas(ctx context.Context, ahora time.Time) (int64, error)
	// ProximasPendientes returns pending receivables ordered by due date.
	ProximasPendientes(ctx context.Context, limite int) ([]model.Cobranza, error)
}

type cobranzaRepo struct{ db *gorm.DB }

func NewCobranzaRepository(db *gorm.DB) CobranzaRepository { return &cobranzaRepo{db: db} }

func (r *cobranzaRepo) Create(ctx context.Context, c *model.Cobranza) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cobranzaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cobranza, error) {
	var c model.Cobranza
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cobranzaRepo) List(ctx context.Context, q query.Consulta) ([]model.Cobranza, int64, error) {
	var cobranzas []model.Cobranza
	var total int64

	base := q.Filtrar(r.db.WithContext(ctx).Model(&model.Cobranza{}))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginar(base).Find(&cobranzas).Error
	return cobranzas, total, err
}

func (r *cobranzaRepo) Update(ctx context.Context, c *model.Cobranza) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cobranzaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return borrado(r.db.WithContext(ctx).Delete(&model.Cobranza{}, "id = ?", id))
}

func (r *cobranzaRepo) ContarPendientes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cobranza{}).
		Where("estado = ?", model.CobranzaPendiente).Count(&n).Error
	return n, err
}

func (r *cobranzaRepo) ContarAtrasadas(ctx context.Context, ahora time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cobranza{}).
		Where("estado = ? AND fecha_vencimiento < ?", model.CobranzaPendiente, ahora).Count(&n).Error
	return n, err
}

func (r *cobranzaRepo) ProximasPendientes(ctx context.Context, limite int) ([]model.Cobranza, error) {
	var cobranzas []model.Cobranza
	err := r.db.WithContext(ctx).
		Where("estado = ?", model.CobranzaPendiente).
		Order("fecha_vencimiento ASC").
		Limit(limite).
		Find(&cobranzas).Error
	return cobranzas, err
}
