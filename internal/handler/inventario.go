package handler

import (
	"errors"
	"net/http"

	"gestion/internal/apierror"
	"gestion/internal/dto"
	"gestion/internal/repository"
	"gestion/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	svc         service.InventarioService
	maxUploadMB int
}

func NewInventarioHandler(svc service.InventarioService, maxUploadMB int) *InventarioHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 5
	}
	return &InventarioHandler{svc: svc, maxUploadMB: maxUploadMB}
}

// Listar godoc
// @Summary      Listar items de inventario
// @Description  Filtros where[campo][operador]=valor sobre nombre, sku, precio, stock y activo.
// @Tags         inventory-items
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int    false "Pagina (default 1)"
// @Param        limit query int    false "Registros por pagina (default 10, max 100)"
// @Param        sort  query string false "Campo de orden, ej: -stock"
// @Success      200   {object} query.Pagina[dto.ItemResponse]
// @Router       /inventory-items [get]
func (h *InventarioHandler) Listar(c *gin.Context) {
	q, ok := parseConsulta(c, repository.CamposItem, "-createdAt")
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
// @Summary      Obtener item
// @Tags         inventory-items
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del item"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /inventory-items/{id} [get]
func (h *InventarioHandler) Obtener(c *gin.Context) {
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
// @Summary      Crear item
// @Tags         inventory-items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearItemRequest true "Item"
// @Success      201  {object} dto.ItemResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /inventory-items [post]
func (h *InventarioHandler) Crear(c *gin.Context) {
	var req dto.CrearItemRequest
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
// @Summary      Actualizar item
// @Tags         inventory-items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                    true "UUID del item"
// @Param        body body     dto.ActualizarItemRequest true "Campos a modificar"
// @Success      200  {object} dto.ItemResponse
// @Router       /inventory-items/{id} [patch]
func (h *InventarioHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarItemRequest
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
// @Summary      Eliminar item
// @Description  Si alguna venta lo referencia el item solo se desactiva y se responde 200.
// @Tags         inventory-items
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del item"
// @Success      200 {object} dto.EliminarItemResponse
// @Success      204
// @Router       /inventory-items/{id} [delete]
func (h *InventarioHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	if resp.Desactivado {
		c.JSON(http.StatusOK, resp)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubirImagen godoc
// @Summary      Subir imagen del item
// @Description  multipart/form-data con el campo "imagen". Se redimensiona a 800px y se guarda como JPEG.
// @Tags         inventory-items
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path     string true "UUID del item"
// @Param        imagen formData file   true "Imagen"
// @Success      200    {object} dto.ItemResponse
// @Failure      413    {object} apierror.APIError
// @Router       /inventory-items/{id}/imagen [post]
func (h *InventarioHandler) SubirImagen(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.maxUploadMB)<<20)
	fh, err := c.FormFile("imagen")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("La imagen supera el tamano maximo permitido"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo 'imagen'"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer la imagen"))
		return
	}
	defer f.Close()

	resp, err := h.svc.SubirImagen(c.Request.Context(), id, f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
