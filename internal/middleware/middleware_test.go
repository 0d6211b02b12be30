package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gestion/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secretoTest = "secreto-de-pruebas-con-al-menos-32-caracteres"

func init() {
	gin.SetMode(gin.TestMode)
}

func firmar(t *testing.T, claims JWTClaims, secret string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func claimsValidos(rol model.Rol) JWTClaims {
	return JWTClaims{
		UserID: uuid.NewString(),
		Email:  "ana@example.com",
		Rol:    string(rol),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

type stubRevocados struct {
	revocados map[string]bool
	err       error
}

func (s *stubRevocados) EstaRevocado(_ context.Context, jti string) (bool, error) {
	return s.revocados[jti], s.err
}

type stubCuentas struct {
	usuarios map[uuid.UUID]*model.Usuario
	err      error
}

func (s *stubCuentas) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

// cuentaCon stores the account behind claims with the given role.
func cuentaCon(claims JWTClaims, rol model.Rol) *stubCuentas {
	id := uuid.MustParse(claims.UserID)
	return &stubCuentas{usuarios: map[uuid.UUID]*model.Usuario{
		id: {ID: id, Email: claims.Email, Rol: rol},
	}}
}

type stubAutorizador struct{ permitir bool }

func (s stubAutorizador) Verificar(context.Context, *model.Identidad, model.Modulo, model.Accion) bool {
	return s.permitir
}

func routerCon(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		id := Identidad(c)
		if id == nil {
			c.String(http.StatusOK, "anonimo")
			return
		}
		c.String(http.StatusOK, id.Email)
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ───────────────────────────────────────────────────────────────────

func TestJWTAuth_SinToken(t *testing.T) {
	r := routerCon(JWTAuth(secretoTest, nil, nil))
	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestJWTAuth_Bearer(t *testing.T) {
	r := routerCon(JWTAuth(secretoTest, nil, nil))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claimsValidos(model.RolUsuario), secretoTest))

	w := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", w.Body.String())
}

func TestJWTAuth_Cookie(t *testing.T) {
	r := routerCon(JWTAuth(secretoTest, nil, nil))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: CookieToken, Value: firmar(t, claimsValidos(model.RolUsuario), secretoTest)})

	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestJWTAuth_FirmaInvalida(t *testing.T) {
	r := routerCon(JWTAuth(secretoTest, nil, nil))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claimsValidos(model.RolUsuario), "otro-secreto-de-al-menos-32-caracteres!!"))

	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestJWTAuth_Expirado(t *testing.T) {
	claims := claimsValidos(model.RolUsuario)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	r := routerCon(JWTAuth(secretoTest, nil, nil))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claims, secretoTest))

	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestJWTAuth_Revocado(t *testing.T) {
	claims := claimsValidos(model.RolUsuario)
	rev := &stubRevocados{revocados: map[string]bool{claims.ID: true}}
	r := routerCon(JWTAuth(secretoTest, rev, nil))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claims, secretoTest))

	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestJWTAuth_FalloDeRevocacionEs503(t *testing.T) {
	rev := &stubRevocados{err: errors.New("redis caido")}
	r := routerCon(JWTAuth(secretoTest, rev, nil))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claimsValidos(model.RolUsuario), secretoTest))

	assert.Equal(t, http.StatusServiceUnavailable, do(r, req).Code)
}

func TestJWTAuth_RolDegradadoPierdeAdmin(t *testing.T) {
	claims := claimsValidos(model.RolAdmin)
	r := routerCon(JWTAuth(secretoTest, nil, cuentaCon(claims, model.RolUsuario)), RequireAdmin())
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claims, secretoTest))

	assert.Equal(t, http.StatusForbidden, do(r, req).Code)
}

func TestJWTAuth_RolAscendidoGanaAdmin(t *testing.T) {
	claims := claimsValidos(model.RolUsuario)
	r := routerCon(JWTAuth(secretoTest, nil, cuentaCon(claims, model.RolAdmin)), RequireAdmin())
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claims, secretoTest))

	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestJWTAuth_CuentaBorrada401(t *testing.T) {
	r := routerCon(JWTAuth(secretoTest, nil, &stubCuentas{}))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claimsValidos(model.RolAdmin), secretoTest))

	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestJWTAuth_FalloAlLeerLaCuentaEs503(t *testing.T) {
	r := routerCon(JWTAuth(secretoTest, nil, &stubCuentas{err: errors.New("postgres caido")}))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claimsValidos(model.RolUsuario), secretoTest))

	assert.Equal(t, http.StatusServiceUnavailable, do(r, req).Code)
}

// ── JWTOpcional ───────────────────────────────────────────────────────────────

func TestJWTOpcional_AnonimoPasa(t *testing.T) {
	r := routerCon(JWTOpcional(secretoTest, nil, nil))
	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonimo", w.Body.String())
}

func TestJWTOpcional_TokenInvalidoEsAnonimo(t *testing.T) {
	r := routerCon(JWTOpcional(secretoTest, nil, nil))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer basura")
	assert.Equal(t, "anonimo", do(r, req).Body.String())
}

func TestJWTOpcional_CuentaBorradaEsAnonimo(t *testing.T) {
	r := routerCon(JWTOpcional(secretoTest, nil, &stubCuentas{}))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claimsValidos(model.RolUsuario), secretoTest))

	assert.Equal(t, "anonimo", do(r, req).Body.String())
}

// ── RequireAdmin / RequirePermiso ─────────────────────────────────────────────

func TestRequireAdmin(t *testing.T) {
	r := routerCon(JWTAuth(secretoTest, nil, nil), RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claimsValidos(model.RolUsuario), secretoTest))
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+firmar(t, claimsValidos(model.RolAdmin), secretoTest))
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRequirePermiso(t *testing.T) {
	token := firmar(t, claimsValidos(model.RolUsuario), secretoTest)

	denegado := routerCon(JWTAuth(secretoTest, nil, nil), RequirePermiso(stubAutorizador{false}, model.ModuloVentas, model.AccionCrear))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(denegado, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Acceso denegado"}`, w.Body.String())

	permitido := routerCon(JWTAuth(secretoTest, nil, nil), RequirePermiso(stubAutorizador{true}, model.ModuloVentas, model.AccionCrear))
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, do(permitido, req).Code)
}

func TestRequirePermiso_SinIdentidadEs401(t *testing.T) {
	r := routerCon(RequirePermiso(stubAutorizador{true}, model.ModuloVentas, model.AccionLeer))
	assert.Equal(t, http.StatusUnauthorized, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

// ── RequestID / Timeout / ErrorHandler / Recovery ─────────────────────────────

func TestRequestID_GeneraYPropaga(t *testing.T) {
	r := routerCon(RequestID())

	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", do(r, req).Header().Get(RequestIDHeader))
}

func TestTimeout_FijaDeadline(t *testing.T) {
	r := gin.New()
	r.GET("/x", Timeout(time.Second), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})
	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())
}

func TestErrorHandler_Responde500SinDetalles(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) { _ = c.Error(errors.New("pq: conexion rechazada")) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/x", func(*gin.Context) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

// ── Rate limiter / CORS ───────────────────────────────────────────────────────

func TestLoginRateLimiter(t *testing.T) {
	r := routerCon(LoginRateLimiter(2))
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestVentanaIP_ReiniciaAlVencer(t *testing.T) {
	v := nuevaVentana(1, time.Minute)
	now := time.Now()

	ok, _ := v.permitir("1.1.1.1", now)
	assert.True(t, ok)
	ok, _ = v.permitir("1.1.1.1", now)
	assert.False(t, ok)
	ok, _ = v.permitir("1.1.1.1", now.Add(2*time.Minute))
	assert.True(t, ok)

	assert.Equal(t, 1, v.purgar(now.Add(10*time.Minute)))
}

func TestCORS_OrigenPermitido(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := do(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://malicioso.example.com")
	assert.Empty(t, do(r, req).Header().Get("Access-Control-Allow-Origin"))
}
