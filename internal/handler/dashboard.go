package handler

import (
	"net/http"
	"strconv"

	"gestion/internal/apierror"
	"gestion/internal/middleware"
	"gestion/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Resumen godoc
// @Summary      Dashboard
// @Description  Cada faceta se calcula por separado. Las que el usuario no puede leer o que fallan quedan en null y se listan en "errores".
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        dias query    int false "Ventana en dias (default 30, max 365)"
// @Success      200  {object} dto.DashboardResponse
// @Failure      400  {object} apierror.APIError
// @Router       /dashboard [get]
func (h *DashboardHandler) Resumen(c *gin.Context) {
	dias := 0
	if raw := c.Query("dias"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("dias debe ser un entero positivo"))
			return
		}
		dias = n
	}
	resp, err := h.svc.Resumen(c.Request.Context(), middleware.Identidad(c), dias)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SerieVentas godoc
// @Summary      Serie temporal de ventas
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        rango   query    string false "7d | 30d | 90d (default 30d)"
// @Param        agrupar query    string false "day | week | month (default day)"
// @Success      200     {object} dto.SerieVentasResponse
// @Failure      403     {object} apierror.APIError
// @Router       /dashboard/ventas-serie [get]
func (h *DashboardHandler) SerieVentas(c *gin.Context) {
	resp, err := h.svc.SerieVentas(c.Request.Context(), middleware.Identidad(c), c.Query("rango"), c.Query("agrupar"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
