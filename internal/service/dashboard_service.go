package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gestion/internal/dto"
	"gestion/internal/model"
	"gestion/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	DiasDashboardPorDefecto = 30
	dashboardTopN           = 5
)

// Rangos and agrupaciones accepted by the sales time series.
var rangosSerie = map[string]int{"7d": 7, "30d": 30, "90d": 90}

const (
	AgruparDia    = "day"
	AgruparSemana = "week"
	AgruparMes    = "month"
)

// DashboardService aggregates read-only figures across modules. Every facet
// is computed independently: one failing or forbidden facet does not hide
// the others.
type DashboardService interface {
	Resumen(ctx context.Context, id *model.Identidad, dias int) (*dto.DashboardResponse, error)
	SerieVentas(ctx context.Context, id *model.Identidad, rango, agrupar string) (*dto.SerieVentasResponse, error)
}

type dashboardService struct {
	autz      AutorizacionService
	ventas    repository.VentaRepository
	cobranzas repository.CobranzaRepository
	items     repository.ItemRepository
	umbral    int
	ahora     func() time.Time
}

func NewDashboardService(
	autz AutorizacionService,
	ventas repository.VentaRepository,
	cobranzas repository.CobranzaRepository,
	items repository.ItemRepository,
	umbralStockBajo int,
) DashboardService {
	return &dashboardService{
		autz:      autz,
		ventas:    ventas,
		cobranzas: cobranzas,
		items:     items,
		umbral:    umbralStockBajo,
		ahora:     time.Now,
	}
}

// Resumen runs three facet queries in parallel:
//  1. ventas     → salesTotalAmount + salesCount within the window
//  2. cobranzas  → pending, overdue and the next due receivables
//  3. inventario → items under the low-stock threshold
func (s *dashboardService) Resumen(ctx context.Context, id *model.Identidad, dias int) (*dto.DashboardResponse, error) {
	if id == nil {
		return nil, ErrNoAutenticado
	}
	if dias <= 0 {
		dias = DiasDashboardPorDefecto
	}
	if dias > 365 {
		return nil, validacion("dias", "debe estar entre 1 y 365")
	}
	ahora := s.ahora()
	desde := ahora.AddDate(0, 0, -dias)

	type ventasResult struct {
		total    decimal.Decimal
		cantidad int64
		err      error
	}
	type cobranzasResult struct {
		pendientes  int64
		atrasadas   int64
		importantes []model.Cobranza
		err         error
	}
	type stockResult struct {
		items []model.ItemInventario
		total int64
		err   error
	}

	ventasCh := make(chan ventasResult, 1)
	cobranzasCh := make(chan cobranzasResult, 1)
	stockCh := make(chan stockResult, 1)

	go func() {
		if !s.autz.Verificar(ctx, id, model.ModuloVentas, model.AccionLeer) {
			ventasCh <- ventasResult{err: ErrAccesoDenegado}
			return
		}
		total, n, err := s.ventas.ResumenDesde(ctx, desde)
		ventasCh <- ventasResult{total, n, err}
	}()
	go func() {
		if !s.autz.Verificar(ctx, id, model.ModuloCobranzas, model.AccionLeer) {
			cobranzasCh <- cobranzasResult{err: ErrAccesoDenegado}
			return
		}
		var r cobranzasResult
		if r.pendientes, r.err = s.cobranzas.ContarPendientes(ctx); r.err == nil {
			if r.atrasadas, r.err = s.cobranzas.ContarAtrasadas(ctx, ahora); r.err == nil {
				r.importantes, r.err = s.cobranzas.ProximasPendientes(ctx, dashboardTopN)
			}
		}
		cobranzasCh <- r
	}()
	go func() {
		if !s.autz.Verificar(ctx, id, model.ModuloInventario, model.AccionLeer) {
			stockCh <- stockResult{err: ErrAccesoDenegado}
			return
		}
		items, total, err := s.items.StockBajo(ctx, s.umbral, dashboardTopN)
		stockCh <- stockResult{items, total, err}
	}()

	v := <-ventasCh
	c := <-cobranzasCh
	st := <-stockCh

	resp := &dto.DashboardResponse{Dias: dias}
	errores := map[string]string{}

	if v.err != nil {
		errores[model.ModuloVentas.String()] = s.motivo(model.ModuloVentas, v.err)
	} else {
		total := v.total.Round(2)
		resp.SalesTotalAmount = &total
		resp.SalesCount = &v.cantidad
	}

	if c.err != nil {
		errores[model.ModuloCobranzas.String()] = s.motivo(model.ModuloCobranzas, c.err)
	} else {
		resp.PendingCobranzasCount = &c.pendientes
		resp.OverdueCobranzasCount = &c.atrasadas
		resp.ImportantCobranzas = make([]dto.CobranzaResponse, len(c.importantes))
		for i := range c.importantes {
			resp.ImportantCobranzas[i] = cobranzaToResponse(&c.importantes[i], ahora)
		}
	}

	if st.err != nil {
		errores[model.ModuloInventario.String()] = s.motivo(model.ModuloInventario, st.err)
	} else {
		resp.LowStockCount = &st.total
		resp.LowStockItems = make([]dto.ItemResponse, len(st.items))
		for i := range st.items {
			resp.LowStockItems[i] = itemToResponse(&st.items[i])
		}
	}

	if len(errores) > 0 {
		resp.Errores = errores
	}
	return resp, nil
}

// motivo is the client-facing reason of a failed facet; storage details are
// only logged.
func (s *dashboardService) motivo(m model.Modulo, err error) string {
	if err == ErrAccesoDenegado {
		return ErrAccesoDenegado.Error()
	}
	log.Error().Err(err).Str("modulo", m.String()).Msg("dashboard: facet failed")
	return "no disponible"
}

func (s *dashboardService) SerieVentas(ctx context.Context, id *model.Identidad, rango, agrupar string) (*dto.SerieVentasResponse, error) {
	if id == nil {
		return nil, ErrNoAutenticado
	}
	if rango == "" {
		rango = "30d"
	}
	if agrupar == "" {
		agrupar = AgruparDia
	}
	dias, ok := rangosSerie[rango]
	if !ok {
		return nil, validacion("rango", "debe ser 7d, 30d o 90d")
	}
	if agrupar != AgruparDia && agrupar != AgruparSemana && agrupar != AgruparMes {
		return nil, validacion("agrupar", "debe ser day, week o month")
	}
	if !s.autz.Verificar(ctx, id, model.ModuloVentas, model.AccionLeer) {
		return nil, ErrAccesoDenegado
	}

	ventas, err := s.ventas.ListDesde(ctx, s.ahora().AddDate(0, 0, -dias))
	if err != nil {
		return nil, traducir(err)
	}
	return &dto.SerieVentasResponse{
		Rango:   rango,
		Agrupar: agrupar,
		Puntos:  agruparSerie(ventas, agrupar),
	}, nil
}

// agruparSerie buckets sales by UTC day (YYYY-MM-DD), ISO week (YYYY-Www) or
// month (YYYY-MM) and returns the buckets in ascending key order.
func agruparSerie(ventas []model.Venta, agrupar string) []dto.PuntoSerie {
	buckets := map[string]*dto.PuntoSerie{}
	for i := range ventas {
		clave := claveSerie(ventas[i].Fecha.UTC(), agrupar)
		p, ok := buckets[clave]
		if !ok {
			p = &dto.PuntoSerie{Clave: clave, Total: decimal.Zero}
			buckets[clave] = p
		}
		p.Total = p.Total.Add(ventas[i].Total)
		p.Cantidad++
	}
	puntos := make([]dto.PuntoSerie, 0, len(buckets))
	for _, p := range buckets {
		puntos = append(puntos, *p)
	}
	sort.Slice(puntos, func(i, j int) bool { return puntos[i].Clave < puntos[j].Clave })
	return puntos
}

func claveSerie(t time.Time, agrupar string) string {
	switch agrupar {
	case AgruparSemana:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case AgruparMes:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
