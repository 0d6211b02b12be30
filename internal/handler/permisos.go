package handler

import (
	"net/http"

	"gestion/internal/apierror"
	"gestion/internal/dto"
	"gestion/internal/middleware"
	"gestion/internal/repository"
	"gestion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PermisosHandler struct{ svc service.PermisoService }

func NewPermisosHandler(svc service.PermisoService) *PermisosHandler {
	return &PermisosHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar filas de permisos
// @Description  Admin ve todas; un usuario comun solo la propia. where[usuario][equals]=<uuid> filtra por usuario.
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} query.Pagina[dto.PermisoResponse]
// @Router       /permissions [get]
func (h *PermisosHandler) Listar(c *gin.Context) {
	q, ok := parseConsulta(c, repository.CamposPermiso, "-createdAt")
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
// @Summary      Obtener fila de permisos
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID de la fila"
// @Success      200 {object} dto.PermisoResponse
// @Failure      403 {object} apierror.APIError
// @Router       /permissions/{id} [get]
func (h *PermisosHandler) Obtener(c *gin.Context) {
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

// PorUsuario godoc
// @Summary      Permisos de un usuario
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        usuarioId path     string true "UUID del usuario"
// @Success      200       {object} dto.PermisoResponse
// @Failure      404       {object} apierror.APIError
// @Router       /permissions/usuario/{usuarioId} [get]
func (h *PermisosHandler) PorUsuario(c *gin.Context) {
	usuarioID, err := uuid.Parse(c.Param("usuarioId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorUsuario(c.Request.Context(), middleware.Identidad(c), usuarioID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary      Crear fila de permisos (admin)
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearPermisoRequest true "Permisos"
// @Success      201  {object} dto.PermisoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /permissions [post]
func (h *PermisosHandler) Crear(c *gin.Context) {
	var req dto.CrearPermisoRequest
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
// @Summary      Actualizar fila de permisos (admin)
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                       true "UUID de la fila"
// @Param        body body     dto.ActualizarPermisoRequest true "Grupos a reemplazar"
// @Success      200  {object} dto.PermisoResponse
// @Router       /permissions/{id} [patch]
func (h *PermisosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarPermisoRequest
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
// @Summary      Eliminar fila de permisos (admin)
// @Tags         permissions
// @Security     BearerAuth
// @Param        id path string true "UUID de la fila"
// @Success      204
// @Router       /permissions/{id} [delete]
func (h *PermisosHandler) Eliminar(c *gin.Context) {
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
