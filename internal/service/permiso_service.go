package service

import (
	"context"

	"gestion/internal/dto"
	"gestion/internal/model"
	"gestion/internal/query"
	"gestion/internal/repository"

	"github.com/google/uuid"
)

// PermisoService manages the one-row-per-user permission table. Only admins
// write; a regular user may read their own row.
type PermisoService interface {
	Listar(ctx context.Context, id *model.Identidad, q query.Consulta) (query.Pagina[dto.PermisoResponse], error)
	Obtener(ctx context.Context, id *model.Identidad, permisoID uuid.UUID) (*dto.PermisoResponse, error)
	ObtenerPorUsuario(ctx context.Context, id *model.Identidad, usuarioID uuid.UUID) (*dto.PermisoResponse, error)
	Crear(ctx context.Context, id *model.Identidad, req dto.CrearPermisoRequest) (*dto.PermisoResponse, error)
	Actualizar(ctx context.Context, id *model.Identidad, permisoID uuid.UUID, req dto.ActualizarPermisoRequest) (*dto.PermisoResponse, error)
	Eliminar(ctx context.Context, id *model.Identidad, permisoID uuid.UUID) error
}

type permisoService struct {
	repo     repository.PermisoRepository
	usuarios repository.UsuarioRepository
}

func NewPermisoService(repo repository.PermisoRepository, usuarios repository.UsuarioRepository) PermisoService {
	return &permisoService{repo: repo, usuarios: usuarios}
}

func (s *permisoService) Listar(ctx context.Context, id *model.Identidad, q query.Consulta) (query.Pagina[dto.PermisoResponse], error) {
	if id == nil {
		return query.Pagina[dto.PermisoResponse]{}, ErrNoAutenticado
	}
	if !id.EsAdmin() {
		q.Restringir("usuario_id", id.UsuarioID)
	}
	permisos, total, err := s.repo.List(ctx, q)
	if err != nil {
		return query.Pagina[dto.PermisoResponse]{}, traducir(err)
	}
	docs := make([]dto.PermisoResponse, len(permisos))
	for i := range permisos {
		docs[i] = permisoToResponse(&permisos[i])
	}
	return query.NuevaPagina(docs, total, q), nil
}

func (s *permisoService) Obtener(ctx context.Context, id *model.Identidad, permisoID uuid.UUID) (*dto.PermisoResponse, error) {
	if id == nil {
		return nil, ErrNoAutenticado
	}
	p, err := s.repo.FindByID(ctx, permisoID)
	if err != nil {
		if !id.EsAdmin() && repository.EsNoEncontrado(err) {
			// Non-admins cannot probe which rows exist.
			return nil, ErrAccesoDenegado
		}
		return nil, traducir(err)
	}
	if !id.EsAdmin() && !id.EsUsuario(p.UsuarioID) {
		return nil, ErrAccesoDenegado
	}
	resp := permisoToResponse(p)
	return &resp, nil
}

func (s *permisoService) ObtenerPorUsuario(ctx context.Context, id *model.Identidad, usuarioID uuid.UUID) (*dto.PermisoResponse, error) {
	if err := mismoOAdmin(id, usuarioID); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByUsuarioID(ctx, usuarioID)
	if err != nil {
		return nil, traducir(err)
	}
	resp := permisoToResponse(p)
	return &resp, nil
}

func (s *permisoService) Crear(ctx context.Context, id *model.Identidad, req dto.CrearPermisoRequest) (*dto.PermisoResponse, error) {
	if err := soloAdmin(id); err != nil {
		return nil, err
	}
	usuarioID, err := uuid.Parse(req.Usuario)
	if err != nil {
		return nil, validacion("usuario", "debe ser un UUID")
	}
	user, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return nil, validacion("usuario", "el usuario no existe")
		}
		return nil, traducir(err)
	}
	if user.Rol != model.RolUsuario {
		return nil, validacion("usuario", "solo los usuarios con rol user llevan permisos")
	}

	if _, err := s.repo.FindByUsuarioID(ctx, usuarioID); err == nil {
		return nil, ErrConflicto
	} else if !repository.EsNoEncontrado(err) {
		return nil, traducir(err)
	}

	p := &model.Permiso{
		UsuarioID:  usuarioID,
		Inventario: capacidadesFromDTO(req.Inventario),
		Ventas:     capacidadesFromDTO(req.Ventas),
		Cobranzas:  capacidadesFromDTO(req.Cobranzas),
	}
	// The unique index still catches a concurrent insert for the same user.
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, traducir(err)
	}
	resp := permisoToResponse(p)
	return &resp, nil
}

func (s *permisoService) Actualizar(ctx context.Context, id *model.Identidad, permisoID uuid.UUID, req dto.ActualizarPermisoRequest) (*dto.PermisoResponse, error) {
	if err := soloAdmin(id); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, permisoID)
	if err != nil {
		return nil, traducir(err)
	}
	if req.Inventario != nil {
		p.Inventario = capacidadesFromDTO(*req.Inventario)
	}
	if req.Ventas != nil {
		p.Ventas = capacidadesFromDTO(*req.Ventas)
	}
	if req.Cobranzas != nil {
		p.Cobranzas = capacidadesFromDTO(*req.Cobranzas)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, traducir(err)
	}
	resp := permisoToResponse(p)
	return &resp, nil
}

func (s *permisoService) Eliminar(ctx context.Context, id *model.Identidad, permisoID uuid.UUID) error {
	if err := soloAdmin(id); err != nil {
		return err
	}
	return traducir(s.repo.Delete(ctx, permisoID))
}
