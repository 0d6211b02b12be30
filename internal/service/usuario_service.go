package service

import (
	"context"

	"gestion/internal/dto"
	"gestion/internal/model"
	"gestion/internal/query"
	"gestion/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsuarioService: read/update are self-or-admin, create/delete are admin-only.
type UsuarioService interface {
	Listar(ctx context.Context, id *model.Identidad, q query.Consulta) (query.Pagina[dto.UsuarioResponse], error)
	Obtener(ctx context.Context, id *model.Identidad, usuarioID uuid.UUID) (*dto.UsuarioResponse, error)
	Crear(ctx context.Context, id *model.Identidad, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, id *model.Identidad, usuarioID uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	Eliminar(ctx context.Context, id *model.Identidad, usuarioID uuid.UUID) error
}

type usuarioService struct {
	repo     repository.UsuarioRepository
	permisos repository.PermisoRepository
}

func NewUsuarioService(repo repository.UsuarioRepository, permisos repository.PermisoRepository) UsuarioService {
	return &usuarioService{repo: repo, permisos: permisos}
}

func (s *usuarioService) Listar(ctx context.Context, id *model.Identidad, q query.Consulta) (query.Pagina[dto.UsuarioResponse], error) {
	if id == nil {
		return query.Pagina[dto.UsuarioResponse]{}, ErrNoAutenticado
	}
	if !id.EsAdmin() {
		q.Restringir("id", id.UsuarioID)
	}
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return query.Pagina[dto.UsuarioResponse]{}, traducir(err)
	}
	docs := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		docs[i] = usuarioToResponse(&users[i])
	}
	return query.NuevaPagina(docs, total, q), nil
}

func (s *usuarioService) Obtener(ctx context.Context, id *model.Identidad, usuarioID uuid.UUID) (*dto.UsuarioResponse, error) {
	if err := mismoOAdmin(id, usuarioID); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, traducir(err)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) Crear(ctx context.Context, id *model.Identidad, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := soloAdmin(id); err != nil {
		return nil, err
	}
	email := normalizarEmail(req.Email)
	if err := s.emailLibre(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}
	rol := model.RolUsuario
	if req.Role != "" {
		rol = model.Rol(req.Role)
	}
	if !rol.Valido() {
		return nil, validacion("role", "debe ser admin o user")
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Email:        email,
		Nombre:       req.Nombre,
		PasswordHash: hash,
		Rol:          rol,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, traducir(err)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, id *model.Identidad, usuarioID uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := mismoOAdmin(id, usuarioID); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, traducir(err)
	}

	if req.Role != nil && model.Rol(*req.Role) != user.Rol {
		if !id.EsAdmin() {
			return nil, ErrAccesoDenegado
		}
		rol := model.Rol(*req.Role)
		if !rol.Valido() {
			return nil, validacion("role", "debe ser admin o user")
		}
		user.Rol = rol
	}
	if req.Email != nil {
		email := normalizarEmail(*req.Email)
		if email != user.Email {
			if err := s.emailLibre(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Nombre != nil {
		user.Nombre = *req.Nombre
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, traducir(err)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

// Eliminar deletes the user and its permission row in one transaction.
func (s *usuarioService) Eliminar(ctx context.Context, id *model.Identidad, usuarioID uuid.UUID) error {
	if err := soloAdmin(id); err != nil {
		return err
	}
	if id.EsUsuario(usuarioID) {
		return validacion("id", "un administrador no puede eliminarse a si mismo")
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.permisos.DeleteByUsuarioTx(ctx, tx, usuarioID); err != nil {
			return err
		}
		return s.repo.DeleteTx(ctx, tx, usuarioID)
	})
	return traducir(err)
}

// emailLibre fails with ErrConflicto when another user already has email.
func (s *usuarioService) emailLibre(ctx context.Context, email string, propio uuid.UUID) error {
	existente, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return nil
		}
		return traducir(err)
	}
	if existente.ID != propio {
		return ErrConflicto
	}
	return nil
}

func soloAdmin(id *model.Identidad) error {
	if id == nil {
		return ErrNoAutenticado
	}
	if !id.EsAdmin() {
		return ErrAccesoDenegado
	}
	return nil
}

func mismoOAdmin(id *model.Identidad, usuarioID uuid.UUID) error {
	if id == nil {
		return ErrNoAutenticado
	}
	if id.EsAdmin() || id.EsUsuario(usuarioID) {
		return nil
	}
	return ErrAccesoDenegado
}
