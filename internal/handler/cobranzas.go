package handler

import (
	"net/http"

	"gestion/internal/dto"
	"gestion/internal/repository"
	"gestion/internal/service"

	"github.com/gin-gonic/gin"
)

type CobranzasHandler struct{ svc service.CobranzaService }

func NewCobranzasHandler(svc service.CobranzaService) *CobranzasHandler {
	return &CobranzasHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar cobranzas
// @Description  atrasada se calcula al leer: pendiente con vencimiento pasado.
// @Tags         cobranzas
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int    false "Pagina (default 1)"
// @Param        limit query int    false "Registros por pagina (default 10, max 100)"
// @Param        sort  query string false "Campo de orden (default fechaVencimiento)"
// @Success      200   {object} query.Pagina[dto.CobranzaResponse]
// @Router       /cobranzas [get]
func (h *CobranzasHandler) Listar(c *gin.Context) {
	q, ok := parseConsulta(c, repository.CamposCobranza, "fechaVencimiento")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), q)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener cobranza
// @Tags         cobranzas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID de la cobranza"
// @Success      200 {object} dto.CobranzaResponse
// @Router       /cobranzas/{id} [get]
func (h *CobranzasHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary      Crear cobranza
// @Tags         cobranzas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearCobranzaRequest true "Cobranza"
// @Success      201  {object} dto.CobranzaResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /cobranzas [post]
func (h *CobranzasHandler) Crear(c *gin.Context) {
	var req dto.CrearCobranzaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary      Actualizar cobranza
// @Tags         cobranzas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                        true "UUID de la cobranza"
// @Param        body body     dto.ActualizarCobranzaRequest true "Campos a modificar"
// @Success      200  {object} dto.CobranzaResponse
// @Router       /cobranzas/{id} [patch]
func (h *CobranzasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarCobranzaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar cobranza
// @Tags         cobranzas
// @Security     BearerAuth
// @Param        id path string true "UUID de la cobranza"
// @Success      204
// @Router       /cobranzas/{id} [delete]
func (h *CobranzasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
