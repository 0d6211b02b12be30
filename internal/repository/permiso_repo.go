package repository

import (
	"context"

	"gestion/internal/model"
	"gestion/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermisoRepository is the Permission Store. Lookups always hit the database;
// nothing is cached so revocations take effect on the next request.
type PermisoRepository interface {
	Create(ctx context.Context, p *model.Permiso) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Permiso, error)
	FindByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Permiso, error)
	List(ctx context.Context, q query.Consulta) ([]model.Permiso, int64, error)
	Update(ctx context.Context, p *model.Permiso) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUsuarioTx(ctx context.Context, tx *gorm.DB, usuarioID uuid.UUID) error
}

type permisoRepo struct{ db *gorm.DB }

func NewPermisoRepository(db *gorm.DB) PermisoRepository { return &permisoRepo{db: db} }

func (r *permisoRepo) Create(ctx context.Context, p *model.Permiso) error {
	return r.db.WithContext(ctx).Omit("Usuario").Create(p).Error
}

func (r *permisoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Permiso, error) {
	var p model.Permiso
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *permisoRepo) FindByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Permiso, error) {
	var p model.Permiso
	if err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *permisoRepo) List(ctx context.Context, q query.Consulta) ([]model.Permiso, int64, error) {
	var permisos []model.Permiso
	var total int64

	base := q.Filtrar(r.db.WithContext(ctx).Model(&model.Permiso{}))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginar(base).Find(&permisos).Error
	return permisos, total, err
}

func (r *permisoRepo) Update(ctx context.Context, p *model.Permiso) error {
	return r.db.WithContext(ctx).Omit("Usuario").Save(p).Error
}

func (r *permisoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return borrado(r.db.WithContext(ctx).Delete(&model.Permiso{}, "id = ?", id))
}

// DeleteByUsuarioTx is a no-op when the user has no row.
func (r *permisoRepo) DeleteByUsuarioTx(ctx context.Context, tx *gorm.DB, usuarioID uuid.UUID) error {
	return conn(tx, r.db).WithContext(ctx).Where("usuario_id = ?", usuarioID).Delete(&model.Permiso{}).Error
}
