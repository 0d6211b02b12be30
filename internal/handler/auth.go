package handler

import (
	"net/http"
	"time"

	"gestion/internal/dto"
	"gestion/internal/middleware"
	"gestion/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc          service.AuthService
	cookieSegura bool
	cookieMaxAge int
}

// NewAuthHandler wires login/logout/me. cookieSegura sets the Secure flag on
// the session cookie (production); ttl is the token lifetime.
func NewAuthHandler(svc service.AuthService, cookieSegura bool, ttl time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, cookieSegura: cookieSegura, cookieMaxAge: int(ttl.Seconds())}
}

// Login godoc
// @Summary      Login de usuario
// @Description  Devuelve el token y lo deja ademas en la cookie HttpOnly gestion-token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credenciales"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieToken, resp.Token, h.cookieMaxAge, "/", "", h.cookieSegura, true)
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary      Logout
// @Description  Revoca el token actual y borra la cookie.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object} apierror.APIError
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		responderError(c, service.ErrNoAutenticado)
		return
	}
	var expira time.Time
	if claims.ExpiresAt != nil {
		expira = claims.ExpiresAt.Time
	}
	if err := h.svc.Logout(c.Request.Context(), claims.ID, expira); err != nil {
		responderError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieToken, "", -1, "/", "", h.cookieSegura, true)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Usuario actual
// @Description  Usuario autenticado y su tabla de permisos efectiva. Anonimo: {"user": null}.
// @Tags         auth
// @Produce      json
// @Success      200  {object} dto.YoResponse
// @Router       /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Yo(c.Request.Context(), middleware.Identidad(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
