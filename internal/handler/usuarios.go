package handler

import (
	"net/http"

	"gestion/internal/dto"
	"gestion/internal/middleware"
	"gestion/internal/repository"
	"gestion/internal/service"

	"github.com/gin-gonic/gin"
)

// UsuariosHandler exposes /users. Self-or-admin rules live in the service.
type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar usuarios
// @Description  Admin ve todos; un usuario comun solo se ve a si mismo.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int    false "Pagina (default 1)"
// @Param        limit query int    false "Registros por pagina (default 10, max 100)"
// @Param        sort  query string false "Campo de orden, prefijo - para descendente"
// @Success      200   {object} query.Pagina[dto.UsuarioResponse]
// @Failure      400   {object} apierror.APIError
// @Router       /users [get]
func (h *UsuariosHandler) Listar(c *gin.Context) {
	q, ok := parseConsulta(c, repository.CamposUsuario, "-createdAt")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.Identidad(c), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener usuario
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del usuario"
// @Success      200 {object} dto.UsuarioResponse
// @Failure      403 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /users/{id} [get]
func (h *UsuariosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.Identidad(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary      Crear usuario (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearUsuarioRequest true "Usuario"
// @Success      201  {object} dto.UsuarioResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /users [post]
func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.Identidad(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary      Actualizar usuario
// @Description  El propio usuario o un admin. Solo un admin cambia el rol.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                       true "UUID del usuario"
// @Param        body body     dto.ActualizarUsuarioRequest true "Campos a modificar"
// @Success      200  {object} dto.UsuarioResponse
// @Router       /users/{id} [patch]
func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.Identidad(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar usuario (admin)
// @Description  Borra tambien su fila de permisos.
// @Tags         users
// @Security     BearerAuth
// @Param        id  path string true "UUID del usuario"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /users/{id} [delete]
func (h *UsuariosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.Identidad(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
