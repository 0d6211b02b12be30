package handler

import (
	"fmt"
	"net/http"

	"gestion/internal/dto"
	"gestion/internal/repository"
	"gestion/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int    false "Pagina (default 1)"
// @Param        limit query int    false "Registros por pagina (default 10, max 100)"
// @Param        sort  query string false "Campo de orden (default -fecha)"
// @Success      200   {object} query.Pagina[dto.VentaResponse]
// @Router       /ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	q, ok := parseConsulta(c, repository.CamposVenta, "-fecha")
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
// @Summary      Obtener venta
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /ventas/{id} [get]
func (h *VentasHandler) Obtener(c *gin.Context) {
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
// @Summary      Registrar venta
// @Description  Descuenta stock del producto de forma atomica. El total se calcula como precio * cantidad.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearVentaRequest true "Venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      422  {object} apierror.APIError "Stock insuficiente o producto inactivo"
// @Router       /ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
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
// @Summary      Actualizar venta
// @Description  producto, cantidad y total son inmutables.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                     true "UUID de la venta"
// @Param        body body     dto.ActualizarVentaRequest true "Campos a modificar"
// @Success      200  {object} dto.VentaResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /ventas/{id} [patch]
func (h *VentasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarVentaRequest
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
// @Summary      Eliminar venta
// @Description  No repone stock.
// @Tags         ventas
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      204
// @Router       /ventas/{id} [delete]
func (h *VentasHandler) Eliminar(c *gin.Context) {
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

// Comprobante godoc
// @Summary      Comprobante PDF de la venta
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path string true "UUID de la venta"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /ventas/{id}/comprobante [get]
func (h *VentasHandler) Comprobante(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pdf, err := h.svc.Comprobante(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="venta-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
