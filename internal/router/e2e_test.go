//go:build integration

package router

// End-to-end tests against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"gestion/internal/config"
	"gestion/internal/infra"
	"gestion/internal/model"
	"gestion/internal/repository"
	"gestion/internal/storage"
	"gestion/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func llamar(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	rdb    *redis.Client
	admin  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("gestion_test"),
		tcPostgres.WithUsername("gestion"),
		tcPostgres.WithPassword("gestion"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "clave-de-pruebas-e2e-con-32-caracteres-o-mas",
		JWTExpirationHours: 8,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		LowStockThreshold:  5,
		StorageDriver:      "local",
		UploadsPath:        t.TempDir(),
		MaxUploadMB:        5,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.Migrar(db))

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := storage.New(ctx, cfg)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-e2e-clave"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repository.NewUsuarioRepository(db).Create(ctx, &model.Usuario{
		Email: "admin@e2e.test", Nombre: "Admin E2E", PasswordHash: string(hash), Rol: model.RolAdmin,
	}))

	r := New(cfg, NewDeps(cfg, db, rdb, store, worker.NewDispatcher(rdb), infra.NewMailer(cfg)))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, rdb: rdb, admin: login(t, srv, "admin@e2e.test", "admin-e2e-clave")}
}

func login(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	resp := llamar(t, srv, http.MethodPost, "/api/users/login",
		jsonBody(t, map[string]string{"email": email, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func crearItem(t *testing.T, env *testEnv, sku string, stock int, precio string) string {
	t.Helper()
	resp := llamar(t, env.server, http.MethodPost, "/api/inventory-items",
		jsonBody(t, map[string]any{"nombre": "Item " + sku, "sku": sku, "precio": precio, "stock": stock}), env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &item)
	return item.ID
}

func stockDe(t *testing.T, env *testEnv, id string) int {
	t.Helper()
	resp := llamar(t, env.server, http.MethodGet, "/api/inventory-items/"+id, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var item struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, resp, &item)
	return item.Stock
}

func venta(t *testing.T, env *testEnv, producto string, cantidad int, token string) *http.Response {
	return llamar(t, env.server, http.MethodPost, "/api/ventas", jsonBody(t, map[string]any{
		"fecha":      "2026-05-10",
		"referencia": "E2E",
		"cliente":    "Cliente E2E",
		"producto":   producto,
		"cantidad":   cantidad,
	}), token)
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_UsuarioConPermisosVendeYVeSuDashboard(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Admin creates a user and grants sales + inventory read.
	resp := llamar(t, env.server, http.MethodPost, "/api/users",
		jsonBody(t, map[string]any{"email": "vendedor@e2e.test", "password": "vendedor-clave"}), env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var usuario struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &usuario)

	resp = llamar(t, env.server, http.MethodPost, "/api/permissions", jsonBody(t, map[string]any{
		"usuario":    usuario.ID,
		"ventas":     map[string]bool{"canRead": true, "canCreate": true},
		"inventario": map[string]bool{"canRead": true},
	}), env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	vendedor := login(t, env.server, "vendedor@e2e.test", "vendedor-clave")
	producto := crearItem(t, env, "YER-1", 7, "12.50")

	// 2. Sale decrements stock and computes the total.
	resp = venta(t, env, producto, 3, vendedor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var v struct {
		Total decimal.Decimal `json:"total"`
	}
	decodeJSON(t, resp, &v)
	assert.True(t, decimal.RequireFromString("37.50").Equal(v.Total))
	assert.Equal(t, 4, stockDe(t, env, producto))

	// 3. Crossing the threshold queues a low-stock alert.
	n, err := env.rdb.LLen(context.Background(), worker.QueueAlertasStock).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// 4. Not enough stock: rejected, nothing changes.
	resp = venta(t, env, producto, 10, vendedor)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 4, stockDe(t, env, producto))

	// 5. The user cannot create inventory items nor read cobranzas.
	resp = llamar(t, env.server, http.MethodPost, "/api/inventory-items",
		jsonBody(t, map[string]any{"nombre": "X", "sku": "X", "precio": "1"}), vendedor)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	resp = llamar(t, env.server, http.MethodGet, "/api/cobranzas", nil, vendedor)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// 6. Dashboard: sales facet present, cobranzas facet null.
	resp = llamar(t, env.server, http.MethodGet, "/api/dashboard?dias=3650", nil, vendedor)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = llamar(t, env.server, http.MethodGet, "/api/dashboard?dias=365", nil, vendedor)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dash struct {
		SalesCount            *int64            `json:"salesCount"`
		PendingCobranzasCount *int64            `json:"pendingCobranzasCount"`
		LowStockCount         *int64            `json:"lowStockCount"`
		Errores               map[string]string `json:"errores"`
	}
	decodeJSON(t, resp, &dash)
	require.NotNil(t, dash.SalesCount)
	assert.Nil(t, dash.PendingCobranzasCount)
	assert.NotNil(t, dash.LowStockCount)
	assert.Equal(t, "acceso denegado", dash.Errores["cobranzas"])

	// 7. Logout revokes the token.
	resp = llamar(t, env.server, http.MethodPost, "/api/users/logout", nil, vendedor)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	resp = llamar(t, env.server, http.MethodGet, "/api/ventas", nil, vendedor)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_VentasConcurrentesNoSobrevenden(t *testing.T) {
	env := setupTestEnv(t)
	producto := crearItem(t, env, "CONC-1", 5, "1")

	var wg sync.WaitGroup
	codigos := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := venta(t, env, producto, 1, env.admin)
			resp.Body.Close()
			codigos <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codigos)

	creadas := 0
	for c := range codigos {
		if c == http.StatusCreated {
			creadas++
		} else {
			assert.Equal(t, http.StatusUnprocessableEntity, c)
		}
	}
	assert.Equal(t, 5, creadas)
	assert.Equal(t, 0, stockDe(t, env, producto))
}

func TestE2E_EliminarItemConVentasLoDesactiva(t *testing.T) {
	env := setupTestEnv(t)
	conVenta := crearItem(t, env, "DEL-1", 10, "3")
	sinVenta := crearItem(t, env, "DEL-2", 10, "3")

	resp := venta(t, env, conVenta, 1, env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = llamar(t, env.server, http.MethodDelete, "/api/inventory-items/"+conVenta, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Desactivado bool `json:"desactivado"`
	}
	decodeJSON(t, resp, &body)
	assert.True(t, body.Desactivado)

	resp = llamar(t, env.server, http.MethodDelete, "/api/inventory-items/"+sinVenta, nil, env.admin)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Deactivated items can no longer be sold.
	resp = venta(t, env, conVenta, 1, env.admin)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = llamar(t, env.server, http.MethodGet, "/api/inventory-items?where[sku][equals]=DEL-2", nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pag struct {
		TotalDocs int64 `json:"totalDocs"`
	}
	decodeJSON(t, resp, &pag)
	assert.Equal(t, int64(0), pag.TotalDocs)
}
