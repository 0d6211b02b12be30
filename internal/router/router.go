package router

import (
	"time"

	"gestion/internal/config"
	"gestion/internal/handler"
	"gestion/internal/infra"
	"gestion/internal/middleware"
	"gestion/internal/model"
	"gestion/internal/repository"
	"gestion/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the services behind the HTTP layer. Tests build it by hand with
// stubs; the server uses NewDeps.
type Deps struct {
	Auth       service.AuthService
	Autz       service.AutorizacionService
	Usuarios   service.UsuarioService
	Permisos   service.PermisoService
	Inventario service.InventarioService
	Ventas     service.VentaService
	Cobranzas  service.CobranzaService
	Dashboard  service.DashboardService
	Revocados  middleware.Revocados
	// Cuentas resolves the stored role on every authenticated request; nil
	// trusts the role signed into the token.
	Cuentas middleware.Cuentas
	// Health is optional; nil leaves /health unregistered.
	Health gin.HandlerFunc
}

// NewDeps wires all dependencies.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewDeps(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	imagenes service.AlmacenImagenes,
	alertas service.AlertasStock,
	mailer *infra.Mailer,
) Deps {
	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	permisoRepo := repository.NewPermisoRepository(db)
	itemRepo := repository.NewItemRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cobranzaRepo := repository.NewCobranzaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	denylist := infra.NewTokenDenylist(rdb)
	autz := service.NewAutorizacionService(permisoRepo)

	var smtpCB *infra.CircuitBreaker
	if mailer.Habilitado() {
		smtpCB = mailer.Breaker()
	}

	return Deps{
		Auth:       service.NewAuthService(usuarioRepo, autz, denylist, cfg),
		Autz:       autz,
		Usuarios:   service.NewUsuarioService(usuarioRepo, permisoRepo),
		Permisos:   service.NewPermisoService(permisoRepo, usuarioRepo),
		Inventario: service.NewInventarioService(itemRepo, ventaRepo, imagenes),
		Ventas:     service.NewVentaService(ventaRepo, itemRepo, alertas, cfg.LowStockThreshold),
		Cobranzas:  service.NewCobranzaService(cobranzaRepo),
		Dashboard:  service.NewDashboardService(autz, ventaRepo, cobranzaRepo, itemRepo, cfg.LowStockThreshold),
		Revocados:  denylist,
		Cuentas:    usuarioRepo,
		Health:     handler.Health(db, rdb, smtpCB),
	}
}

// New returns a configured Gin engine serving every route under /api.
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP
	if cfg.RequestTimeoutSeconds > 0 {
		r.Use(middleware.Timeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(d.Auth, cfg.IsProduction(), time.Duration(cfg.JWTExpirationHours)*time.Hour)
	usuariosH := handler.NewUsuariosHandler(d.Usuarios)
	permisosH := handler.NewPermisosHandler(d.Permisos)
	inventarioH := handler.NewInventarioHandler(d.Inventario, cfg.MaxUploadMB)
	ventasH := handler.NewVentasHandler(d.Ventas)
	cobranzasH := handler.NewCobranzasHandler(d.Cobranzas)
	dashboardH := handler.NewDashboardHandler(d.Dashboard)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	if d.Health != nil {
		r.GET("/health", d.Health)
	}
	if cfg.StorageDriver == "local" && cfg.UploadsPath != "" {
		r.Static("/uploads", cfg.UploadsPath)
	}

	api := r.Group("/api")

	// Auth (public)
	api.POST("/users/login", middleware.LoginRateLimiter(10), authH.Login)
	api.GET("/users/me", middleware.JWTOpcional(cfg.JWTSecret, d.Revocados, d.Cuentas), authH.Me)

	// Protected routes
	priv := api.Group("", middleware.JWTAuth(cfg.JWTSecret, d.Revocados, d.Cuentas))
	{
		priv.POST("/users/logout", authH.Logout)

		// Self-or-admin rules are enforced by the services.
		users := priv.Group("/users")
		{
			users.GET("", usuariosH.Listar)
			users.GET("/:id", usuariosH.Obtener)
			users.POST("", usuariosH.Crear)
			users.PATCH("/:id", usuariosH.Actualizar)
			users.DELETE("/:id", usuariosH.Eliminar)
		}

		perms := priv.Group("/permissions")
		{
			perms.GET("", permisosH.Listar)
			perms.GET("/usuario/:usuarioId", permisosH.PorUsuario)
			perms.GET("/:id", permisosH.Obtener)
			perms.POST("", middleware.RequireAdmin(), permisosH.Crear)
			perms.PATCH("/:id", middleware.RequireAdmin(), permisosH.Actualizar)
			perms.DELETE("/:id", middleware.RequireAdmin(), permisosH.Eliminar)
		}

		items := priv.Group("/inventory-items")
		{
			items.GET("", permiso(d.Autz, model.ModuloInventario, model.AccionLeer), inventarioH.Listar)
			items.GET("/:id", permiso(d.Autz, model.ModuloInventario, model.AccionLeer), inventarioH.Obtener)
			items.POST("", permiso(d.Autz, model.ModuloInventario, model.AccionCrear), inventarioH.Crear)
			items.PATCH("/:id", permiso(d.Autz, model.ModuloInventario, model.AccionActualizar), inventarioH.Actualizar)
			items.DELETE("/:id", permiso(d.Autz, model.ModuloInventario, model.AccionEliminar), inventarioH.Eliminar)
			items.POST("/:id/imagen", permiso(d.Autz, model.ModuloInventario, model.AccionActualizar), inventarioH.SubirImagen)
		}

		ventas := priv.Group("/ventas")
		{
			ventas.GET("", permiso(d.Autz, model.ModuloVentas, model.AccionLeer), ventasH.Listar)
			ventas.GET("/:id", permiso(d.Autz, model.ModuloVentas, model.AccionLeer), ventasH.Obtener)
			ventas.GET("/:id/comprobante", permiso(d.Autz, model.ModuloVentas, model.AccionLeer), ventasH.Comprobante)
			ventas.POST("", permiso(d.Autz, model.ModuloVentas, model.AccionCrear), ventasH.Crear)
			ventas.PATCH("/:id", permiso(d.Autz, model.ModuloVentas, model.AccionActualizar), ventasH.Actualizar)
			ventas.DELETE("/:id", permiso(d.Autz, model.ModuloVentas, model.AccionEliminar), ventasH.Eliminar)
		}

		cobranzas := priv.Group("/cobranzas")
		{
			cobranzas.GET("", permiso(d.Autz, model.ModuloCobranzas, model.AccionLeer), cobranzasH.Listar)
			cobranzas.GET("/:id", permiso(d.Autz, model.ModuloCobranzas, model.AccionLeer), cobranzasH.Obtener)
			cobranzas.POST("", permiso(d.Autz, model.ModuloCobranzas, model.AccionCrear), cobranzasH.Crear)
			cobranzas.PATCH("/:id", permiso(d.Autz, model.ModuloCobranzas, model.AccionActualizar), cobranzasH.Actualizar)
			cobranzas.DELETE("/:id", permiso(d.Autz, model.ModuloCobranzas, model.AccionEliminar), cobranzasH.Eliminar)
		}

		// Facets are gated one by one inside the service.
		priv.GET("/dashboard", dashboardH.Resumen)
		priv.GET("/dashboard/ventas-serie", dashboardH.SerieVentas)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

func permiso(autz service.AutorizacionService, m model.Modulo, a model.Accion) gin.HandlerFunc {
	return middleware.RequirePermiso(autz, m, a)
}
