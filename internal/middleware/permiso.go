package middleware

import (
	"context"
	"net/http"

	"gestion/internal/apierror"
	"gestion/internal/model"

	"github.com/gin-gonic/gin"
)

// Autorizador is satisfied by service.AutorizacionService.
type Autorizador interface {
	Verificar(ctx context.Context, id *model.Identidad, modulo model.Modulo, accion model.Accion) bool
}

// RequirePermiso gates a route on one capability flag of one module. Admins
// always pass. Must run after JWTAuth.
func RequirePermiso(autz Autorizador, modulo model.Modulo, accion model.Accion) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identidad(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}
		if !autz.Verificar(c.Request.Context(), id, modulo, accion) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Acceso denegado"))
			return
		}
		c.Next()
	}
}
