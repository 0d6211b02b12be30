package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"gestion/internal/model"
	"gestion/internal/query"
	"gestion/internal/repository"
	"gestion/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so runTx calls fn(nil) directly.

var errBaseCaida = errors.New("conexion rechazada")

type stubUsuarioRepo struct {
	users    map[uuid.UUID]*model.Usuario
	ultimaQ  query.Consulta
	borrados []uuid.UUID
}

func newStubUsuarioRepo(users ...*model.Usuario) *stubUsuarioRepo {
	r := &stubUsuarioRepo{users: map[uuid.UUID]*model.Usuario{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, q query.Consulta) ([]model.Usuario, int64, error) {
	r.ultimaQ = q
	out := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) DeleteTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	r.borrados = append(r.borrados, id)
	return nil
}

func (r *stubUsuarioRepo) DB() *gorm.DB { return nil }

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubPermisoRepo struct {
	permisos map[uuid.UUID]*model.Permiso
	ultimaQ  query.Consulta

	// falla makes every lookup fail as if the database were down.
	falla bool
}

func newStubPermisoRepo(ps ...*model.Permiso) *stubPermisoRepo {
	r := &stubPermisoRepo{permisos: map[uuid.UUID]*model.Permiso{}}
	for _, p := range ps {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.permisos[p.ID] = p
	}
	return r
}

func (r *stubPermisoRepo) Create(_ context.Context, p *model.Permiso) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.permisos[p.ID] = p
	return nil
}

func (r *stubPermisoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Permiso, error) {
	p, ok := r.permisos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPermisoRepo) FindByUsuarioID(_ context.Context, usuarioID uuid.UUID) (*model.Permiso, error) {
	if r.falla {
		return nil, errBaseCaida
	}
	for _, p := range r.permisos {
		if p.UsuarioID == usuarioID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPermisoRepo) List(_ context.Context, q query.Consulta) ([]model.Permiso, int64, error) {
	r.ultimaQ = q
	out := make([]model.Permiso, 0, len(r.permisos))
	for _, p := range r.permisos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPermisoRepo) Update(_ context.Context, p *model.Permiso) error {
	r.permisos[p.ID] = p
	return nil
}

func (r *stubPermisoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.permisos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.permisos, id)
	return nil
}

func (r *stubPermisoRepo) DeleteByUsuarioTx(_ context.Context, _ *gorm.DB, usuarioID uuid.UUID) error {
	for id, p := range r.permisos {
		if p.UsuarioID == usuarioID {
			delete(r.permisos, id)
		}
	}
	return nil
}

var _ repository.PermisoRepository = (*stubPermisoRepo)(nil)

type stubItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.ItemInventario

	// rechazarDescuento simulates a concurrent sale winning the guarded update.
	rechazarDescuento bool
	desactivados      []uuid.UUID
	errStockBajo      error

	// vendidoEnParalelo units are taken by another sale right before the
	// next write (update or decrement) reaches the store.
	vendidoEnParalelo int
	ultimasColumnas   []string
}

func (r *stubItemRepo) ventaParalela(it *model.ItemInventario) {
	if r.vendidoEnParalelo > 0 {
		it.Stock -= r.vendidoEnParalelo
		r.vendidoEnParalelo = 0
	}
}

func newStubItemRepo(items ...*model.ItemInventario) *stubItemRepo {
	r := &stubItemRepo{items: map[uuid.UUID]*model.ItemInventario{}}
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		r.items[it.ID] = it
	}
	return r
}

func (r *stubItemRepo) Create(_ context.Context, it *model.ItemInventario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	r.items[it.ID] = it
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ItemInventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubItemRepo) FindBySKU(_ context.Context, sku string) (*model.ItemInventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.SKU == sku {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubItemRepo) List(_ context.Context, _ query.Consulta) ([]model.ItemInventario, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ItemInventario, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (r *stubItemRepo) Update(_ context.Context, it *model.ItemInventario, columnas ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.items[it.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.ventaParalela(actual)
	r.ultimasColumnas = columnas
	for _, c := range columnas {
		switch c {
		case "nombre":
			actual.Nombre = it.Nombre
		case "sku":
			actual.SKU = it.SKU
		case "precio":
			actual.Precio = it.Precio
		case "stock":
			actual.Stock = it.Stock
		case "descripcion":
			actual.Descripcion = it.Descripcion
		case "imagen":
			actual.Imagen = it.Imagen
		case "activo":
			actual.Activo = it.Activo
		}
	}
	return nil
}

func (r *stubItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubItemRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.Activo = false
	r.desactivados = append(r.desactivados, id)
	return nil
}

func (r *stubItemRepo) DescontarStockTx(_ context.Context, _ *gorm.DB, id uuid.UUID, cantidad int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return 0, false, nil
	}
	if r.rechazarDescuento {
		// The competing sale took the remaining units.
		it.Stock = 0
		return 0, false, nil
	}
	r.ventaParalela(it)
	if it.Stock < cantidad {
		return 0, false, nil
	}
	it.Stock -= cantidad
	return it.Stock, true, nil
}

func (r *stubItemRepo) StockBajo(_ context.Context, umbral, limite int) ([]model.ItemInventario, int64, error) {
	if r.errStockBajo != nil {
		return nil, 0, r.errStockBajo
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var bajos []model.ItemInventario
	for _, it := range r.items {
		if it.Stock < umbral {
			bajos = append(bajos, *it)
		}
	}
	sort.Slice(bajos, func(i, j int) bool { return bajos[i].Stock < bajos[j].Stock })
	total := int64(len(bajos))
	if len(bajos) > limite {
		bajos = bajos[:limite]
	}
	return bajos, total, nil
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

var _ repository.ItemRepository = (*stubItemRepo)(nil)

type stubVentaRepo struct {
	mu     sync.Mutex
	ventas map[uuid.UUID]*model.Venta

	// referenciados marks products with at least one sale, for ExistePorProducto.
	referenciados map[uuid.UUID]bool
	errResumen    error
}

func newStubVentaRepo(vs ...*model.Venta) *stubVentaRepo {
	r := &stubVentaRepo{ventas: map[uuid.UUID]*model.Venta{}, referenciados: map[uuid.UUID]bool{}}
	for _, v := range vs {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		r.ventas[v.ID] = v
		r.referenciados[v.ProductoID] = true
	}
	return r
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	r.referenciados[v.ProductoID] = true
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) List(_ context.Context, _ query.Consulta) ([]model.Venta, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) Update(_ context.Context, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ventas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.ventas, id)
	return nil
}

func (r *stubVentaRepo) ExistePorProducto(_ context.Context, productoID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.referenciados[productoID], nil
}

func (r *stubVentaRepo) ResumenDesde(ctx context.Context, desde time.Time) (decimal.Decimal, int64, error) {
	if r.errResumen != nil {
		return decimal.Zero, 0, r.errResumen
	}
	vs, _ := r.ListDesde(ctx, desde)
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(v.Total)
	}
	return total, int64(len(vs)), nil
}

func (r *stubVentaRepo) ListDesde(_ context.Context, desde time.Time) ([]model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if !v.Fecha.Before(desde) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

type stubCobranzaRepo struct {
	cobranzas map[uuid.UUID]*model.Cobranza
}

func newStubCobranzaRepo(cs ...*model.Cobranza) *stubCobranzaRepo {
	r := &stubCobranzaRepo{cobranzas: map[uuid.UUID]*model.Cobranza{}}
	for _, c := range cs {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.cobranzas[c.ID] = c
	}
	return r
}

func (r *stubCobranzaRepo) Create(_ context.Context, c *model.Cobranza) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cobranzas[c.ID] = c
	return nil
}

func (r *stubCobranzaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cobranza, error) {
	c, ok := r.cobranzas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCobranzaRepo) List(_ context.Context, _ query.Consulta) ([]model.Cobranza, int64, error) {
	out := r.ordenadas()
	return out, int64(len(out)), nil
}

func (r *stubCobranzaRepo) Update(_ context.Context, c *model.Cobranza) error {
	cp := *c
	r.cobranzas[c.ID] = &cp
	return nil
}

func (r *stubCobranzaRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.cobranzas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.cobranzas, id)
	return nil
}

func (r *stubCobranzaRepo) ContarPendientes(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.cobranzas {
		if c.Estado == model.CobranzaPendiente {
			n++
		}
	}
	return n, nil
}

func (r *stubCobranzaRepo) ContarAtrasadas(_ context.Context, ahora time.Time) (int64, error) {
	var n int64
	for _, c := range r.cobranzas {
		if c.Atrasada(ahora) {
			n++
		}
	}
	return n, nil
}

func (r *stubCobranzaRepo) ProximasPendientes(_ context.Context, limite int) ([]model.Cobranza, error) {
	var out []model.Cobranza
	for _, c := range r.ordenadas() {
		if c.Estado == model.CobranzaPendiente {
			out = append(out, c)
		}
	}
	if len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

func (r *stubCobranzaRepo) ordenadas() []model.Cobranza {
	out := make([]model.Cobranza, 0, len(r.cobranzas))
	for _, c := range r.cobranzas {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaVencimiento.Before(out[j].FechaVencimiento) })
	return out
}

var _ repository.CobranzaRepository = (*stubCobranzaRepo)(nil)

// stubAlertas records enqueued low-stock alerts.
type stubAlertas struct {
	mu      sync.Mutex
	alertas []worker.AlertaStockPayload
	err     error
}

func (s *stubAlertas) EncolarStockBajo(_ context.Context, a worker.AlertaStockPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertas = append(s.alertas, a)
	return s.err
}

type stubAlmacen struct {
	subidas   map[string][]byte
	borrados  []string
	errUpload error
}

func newStubAlmacen() *stubAlmacen { return &stubAlmacen{subidas: map[string][]byte{}} }

func (s *stubAlmacen) Upload(_ context.Context, file io.Reader, path string) (string, string, error) {
	if s.errUpload != nil {
		return "", "", s.errUpload
	}
	b, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	s.subidas[path] = b
	return path, "/uploads/" + path, nil
}

func (s *stubAlmacen) Delete(_ context.Context, path string) error {
	s.borrados = append(s.borrados, path)
	delete(s.subidas, path)
	return nil
}

type stubRevocacion struct {
	jti string
	ttl time.Duration
}

func (s *stubRevocacion) Revocar(_ context.Context, jti string, ttl time.Duration) error {
	s.jti, s.ttl = jti, ttl
	return nil
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

func admin() *model.Identidad {
	return &model.Identidad{UsuarioID: uuid.New(), Email: "admin@test.com", Rol: model.RolAdmin}
}

func usuarioComun() *model.Identidad {
	return &model.Identidad{UsuarioID: uuid.New(), Email: "user@test.com", Rol: model.RolUsuario}
}

func soloLectura() model.Capacidades { return model.Capacidades{CanRead: true} }

func ptr[T any](v T) *T { return &v }
