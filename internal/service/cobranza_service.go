package service

import (
	"context"
	"strings"
	"time"

	"gestion/internal/dto"
	"gestion/internal/model"
	"gestion/internal/query"
	"gestion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CobranzaService is the Receivables Register. Estado transitions are
// caller-driven; "atrasada" is derived on every read.
type CobranzaService interface {
	Listar(ctx context.Context, q query.Consulta) (query.Pagina[dto.CobranzaResponse], error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CobranzaResponse, error)
	Crear(ctx context.Context, req dto.CrearCobranzaRequest) (*dto.CobranzaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCobranzaRequest) (*dto.CobranzaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type cobranzaService struct {
	repo  repository.CobranzaRepository
	ahora func() time.Time
}

func NewCobranzaService(repo repository.CobranzaRepository) CobranzaService {
	return &cobranzaService{repo: repo, ahora: time.Now}
}

func (s *cobranzaService) Listar(ctx context.Context, q query.Consulta) (query.Pagina[dto.CobranzaResponse], error) {
	cobranzas, total, err := s.repo.List(ctx, q)
	if err != nil {
		return query.Pagina[dto.CobranzaResponse]{}, traducir(err)
	}
	ahora := s.ahora()
	docs := make([]dto.CobranzaResponse, len(cobranzas))
	for i := range cobranzas {
		docs[i] = cobranzaToResponse(&cobranzas[i], ahora)
	}
	return query.NuevaPagina(docs, total, q), nil
}

func (s *cobranzaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CobranzaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	resp := cobranzaToResponse(c, s.ahora())
	return &resp, nil
}

func (s *cobranzaService) Crear(ctx context.Context, req dto.CrearCobranzaRequest) (*dto.CobranzaResponse, error) {
	c := &model.Cobranza{
		FechaVencimiento: req.FechaVencimiento.Time,
		Referencia:       strings.TrimSpace(req.Referencia),
		Cliente:          strings.TrimSpace(req.Cliente),
		Estado:           model.CobranzaPendiente,
		Descripcion:      req.Descripcion,
	}
	if req.Monto == nil {
		return nil, validacion("monto", "es obligatorio")
	}
	c.Monto = *req.Monto
	if req.Estado != "" {
		c.Estado = model.EstadoCobranza(req.Estado)
	}
	if err := validarCobranza(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, traducir(err)
	}
	resp := cobranzaToResponse(c, s.ahora())
	return &resp, nil
}

func (s *cobranzaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCobranzaRequest) (*dto.CobranzaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	if req.FechaVencimiento != nil {
		c.FechaVencimiento = req.FechaVencimiento.Time
	}
	if req.Referencia != nil {
		c.Referencia = strings.TrimSpace(*req.Referencia)
	}
	if req.Cliente != nil {
		c.Cliente = strings.TrimSpace(*req.Cliente)
	}
	if req.Monto != nil {
		c.Monto = *req.Monto
	}
	if req.Estado != nil {
		c.Estado = model.EstadoCobranza(*req.Estado)
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if err := validarCobranza(c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, traducir(err)
	}
	resp := cobranzaToResponse(c, s.ahora())
	return &resp, nil
}

func (s *cobranzaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return traducir(s.repo.Delete(ctx, id))
}

func validarCobranza(c *model.Cobranza) error {
	switch {
	case c.FechaVencimiento.IsZero():
		return validacion("fechaVencimiento", "es obligatoria")
	case c.Referencia == "":
		return validacion("referencia", "es obligatoria")
	case c.Cliente == "":
		return validacion("cliente", "es obligatorio")
	case c.Monto.LessThan(decimal.Zero):
		return validacion("monto", "debe ser >= 0")
	case !c.Estado.Valido():
		return validacion("estado", "debe ser pendiente, pagada o vencida")
	}
	return nil
}
