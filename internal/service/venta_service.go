package service

import (
	"context"
	"errors"
	"strings"

	"gestion/internal/dto"
	"gestion/internal/infra"
	"gestion/internal/model"
	"gestion/internal/query"
	"gestion/internal/repository"
	"gestion/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AlertasStock enqueues low-stock notifications.
type AlertasStock interface {
	EncolarStockBajo(ctx context.Context, alerta worker.AlertaStockPayload) error
}

type VentaService interface {
	Listar(ctx context.Context, q query.Consulta) (query.Pagina[dto.VentaResponse], error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Crear(ctx context.Context, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	// Actualizar edits descriptive fields only. Stock is never touched.
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error)
	// Eliminar removes the sale. Stock is never restored.
	Eliminar(ctx context.Context, id uuid.UUID) error
	Comprobante(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type ventaService struct {
	ventas          repository.VentaRepository
	items           repository.ItemRepository
	alertas         AlertasStock
	umbralStockBajo int
}

func NewVentaService(ventas repository.VentaRepository, items repository.ItemRepository, alertas AlertasStock, umbralStockBajo int) VentaService {
	return &ventaService{
		ventas:          ventas,
		items:           items,
		alertas:         alertas,
		umbralStockBajo: umbralStockBajo,
	}
}

// errSinStock signals that the guarded decrement matched no row.
var errSinStock = errors.New("decremento de stock rechazado")

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. Resolve the product (must exist and be active)
//   2. total = precio × cantidad, ignoring anything the client sent
//   3. Pre-check stock for a precise error message
//   4. BEGIN TX: guarded decrement (stock >= cantidad), insert venta
//   5. COMMIT
//   6. (async) low-stock alert if the remaining stock dropped below the threshold

func (s *ventaService) Crear(ctx context.Context, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	productoID, err := uuid.Parse(req.Producto)
	if err != nil {
		return nil, validacion("producto", "debe ser un UUID")
	}
	cantidad := 1
	if req.Cantidad != nil {
		cantidad = *req.Cantidad
	}
	if cantidad < 1 {
		return nil, validacion("cantidad", "debe ser >= 1")
	}
	if req.Fecha.IsZero() {
		return nil, validacion("fecha", "es obligatoria")
	}
	referencia := strings.TrimSpace(req.Referencia)
	if referencia == "" {
		return nil, validacion("referencia", "es obligatoria")
	}
	cliente := strings.TrimSpace(req.Cliente)
	if cliente == "" {
		return nil, validacion("cliente", "es obligatorio")
	}
	estado := model.VentaPendiente
	if req.Estado != "" {
		estado = model.EstadoVenta(req.Estado)
		if !estado.Valido() {
			return nil, validacion("estado", "debe ser pendiente, pagada o cancelada")
		}
	}

	// 1. Resolve product
	producto, err := s.items.FindByID(ctx, productoID)
	if err != nil {
		return nil, traducir(err)
	}
	if !producto.Activo {
		return nil, validacion("producto", "el producto esta inactivo y no puede venderse")
	}

	// 2-3. Price and stock pre-check
	venta := model.NuevaVenta(producto, cantidad, req.Fecha.Time, referencia, cliente)
	venta.Estado = estado
	venta.Descripcion = req.Descripcion

	if producto.Stock < cantidad {
		return nil, &StockInsuficienteError{Producto: producto.Nombre, Stock: producto.Stock, Solicitado: cantidad}
	}

	// 4-5. Atomic decrement + insert
	var restante int
	txErr := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		quedan, ok, err := s.items.DescontarStockTx(ctx, tx, producto.ID, cantidad)
		if err != nil {
			return err
		}
		if !ok {
			return errSinStock
		}
		restante = quedan
		return s.ventas.Create(ctx, tx, &venta)
	})
	if errors.Is(txErr, errSinStock) {
		// Another sale won the race; report the stock that is actually left.
		actual := producto.Stock
		if fresco, err := s.items.FindByID(ctx, producto.ID); err == nil {
			actual = fresco.Stock
		}
		return nil, &StockInsuficienteError{Producto: producto.Nombre, Stock: actual, Solicitado: cantidad}
	}
	if txErr != nil {
		return nil, traducir(txErr)
	}

	// 6. Best-effort alert
	s.alertarStockBajo(ctx, producto, restante)

	resp := ventaToResponse(&venta)
	return &resp, nil
}

func (s *ventaService) alertarStockBajo(ctx context.Context, producto *model.ItemInventario, restante int) {
	if s.alertas == nil || restante >= s.umbralStockBajo {
		return
	}
	err := s.alertas.EncolarStockBajo(ctx, worker.AlertaStockPayload{
		ItemID: producto.ID.String(),
		Nombre: producto.Nombre,
		SKU:    producto.SKU,
		Stock:  restante,
		Umbral: s.umbralStockBajo,
	})
	if err != nil {
		log.Warn().Err(err).Str("item_id", producto.ID.String()).Msg("ventas: could not enqueue low-stock alert")
	}
}

func (s *ventaService) Listar(ctx context.Context, q query.Consulta) (query.Pagina[dto.VentaResponse], error) {
	ventas, total, err := s.ventas.List(ctx, q)
	if err != nil {
		return query.Pagina[dto.VentaResponse]{}, traducir(err)
	}
	docs := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		docs[i] = ventaToResponse(&ventas[i])
	}
	return query.NuevaPagina(docs, total, q), nil
}

func (s *ventaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	resp := ventaToResponse(v)
	return &resp, nil
}

func (s *ventaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error) {
	switch {
	case req.Producto != nil:
		return nil, validacion("producto", "no se puede modificar una vez creada la venta")
	case req.Cantidad != nil:
		return nil, validacion("cantidad", "no se puede modificar una vez creada la venta")
	case req.Total != nil:
		return nil, validacion("total", "es calculado y no se puede modificar")
	}

	v, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	if req.Fecha != nil {
		if req.Fecha.IsZero() {
			return nil, validacion("fecha", "es obligatoria")
		}
		v.Fecha = req.Fecha.Time
	}
	if req.Referencia != nil {
		if strings.TrimSpace(*req.Referencia) == "" {
			return nil, validacion("referencia", "es obligatoria")
		}
		v.Referencia = strings.TrimSpace(*req.Referencia)
	}
	if req.Cliente != nil {
		if strings.TrimSpace(*req.Cliente) == "" {
			return nil, validacion("cliente", "es obligatorio")
		}
		v.Cliente = strings.TrimSpace(*req.Cliente)
	}
	if req.Estado != nil {
		estado := model.EstadoVenta(*req.Estado)
		if !estado.Valido() {
			return nil, validacion("estado", "debe ser pendiente, pagada o cancelada")
		}
		v.Estado = estado
	}
	if req.Descripcion != nil {
		v.Descripcion = req.Descripcion
	}
	if err := s.ventas.Update(ctx, v); err != nil {
		return nil, traducir(err)
	}
	resp := ventaToResponse(v)
	return &resp, nil
}

func (s *ventaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return traducir(s.ventas.Delete(ctx, id))
}

func (s *ventaService) Comprobante(ctx context.Context, id uuid.UUID) ([]byte, error) {
	v, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	return infra.GenerarComprobantePDF(v)
}
