package repository

import (
	"context"
	"strings"

	"gestion/internal/model"
	"gestion/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	List(ctx context.Context, q query.Consulta) ([]model.Usuario, int64, error)
	Update(ctx context.Context, u *model.Usuario) error
	// DeleteTx removes the user inside tx; the caller removes dependent rows.
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) List(ctx context.Context, q query.Consulta) ([]model.Usuario, int64, error) {
	var users []model.Usuario
	var total int64

	base := q.Filtrar(r.db.WithContext(ctx).Model(&model.Usuario{}))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginar(base).Find(&users).Error
	return users, total, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return borrado(conn(tx, r.db).WithContext(ctx).Delete(&model.Usuario{}, "id = ?", id))
}

func (r *usuarioRepo) DB() *gorm.DB { return r.db }
