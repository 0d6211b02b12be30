package service

import (
	"context"

	"gestion/internal/model"
	"gestion/internal/repository"

	"github.com/rs/zerolog/log"
)

// AutorizacionService is the access predicate shared by every gated operation.
type AutorizacionService interface {
	// Verificar never returns an error: lookups that fail deny access.
	Verificar(ctx context.Context, id *model.Identidad, modulo model.Modulo, accion model.Accion) bool
	// Efectivos returns the caller's full capability table; admins get every flag.
	Efectivos(ctx context.Context, id *model.Identidad) model.Permiso
}

type autorizacionService struct {
	permisos repository.PermisoRepository
}

func NewAutorizacionService(permisos repository.PermisoRepository) AutorizacionService {
	return &autorizacionService{permisos: permisos}
}

func (s *autorizacionService) Verificar(ctx context.Context, id *model.Identidad, modulo model.Modulo, accion model.Accion) bool {
	if id == nil {
		return false
	}
	if id.EsAdmin() {
		return true
	}
	p, ok := s.buscar(ctx, id)
	if !ok {
		return false
	}
	return p.Permite(modulo, accion)
}

func (s *autorizacionService) Efectivos(ctx context.Context, id *model.Identidad) model.Permiso {
	if id.EsAdmin() {
		todo := model.CapacidadesTotales()
		return model.Permiso{UsuarioID: id.UsuarioID, Inventario: todo, Ventas: todo, Cobranzas: todo}
	}
	if id == nil {
		return model.Permiso{}
	}
	p, ok := s.buscar(ctx, id)
	if !ok {
		return model.Permiso{UsuarioID: id.UsuarioID}
	}
	return *p
}

func (s *autorizacionService) buscar(ctx context.Context, id *model.Identidad) (*model.Permiso, bool) {
	p, err := s.permisos.FindByUsuarioID(ctx, id.UsuarioID)
	if err != nil {
		if !repository.EsNoEncontrado(err) {
			log.Warn().Err(err).
				Str("usuario_id", id.UsuarioID.String()).
				Msg("autorizacion: permission lookup failed, denying")
		}
		return nil, false
	}
	return p, true
}
