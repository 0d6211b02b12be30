package dto

import "github.com/shopspring/decimal"

// DashboardResponse carries one field per facet. A facet that could not be
// computed is null and its reason is listed in Errores under the module name.
type DashboardResponse struct {
	Dias                  int                `json:"dias"`
	SalesTotalAmount      *decimal.Decimal   `json:"salesTotalAmount"`
	SalesCount            *int64             `json:"salesCount"`
	PendingCobranzasCount *int64             `json:"pendingCobranzasCount"`
	OverdueCobranzasCount *int64             `json:"overdueCobranzasCount"`
	ImportantCobranzas    []CobranzaResponse `json:"importantCobranzas"`
	LowStockCount         *int64             `json:"lowStockCount"`
	LowStockItems         []ItemResponse     `json:"lowStockItems"`
	Errores               map[string]string  `json:"errores,omitempty"`
}

type PuntoSerie struct {
	Clave    string          `json:"key"`
	Total    decimal.Decimal `json:"total"`
	Cantidad int             `json:"count"`
}

type SerieVentasResponse struct {
	Rango   string       `json:"rango"`
	Agrupar string       `json:"agrupar"`
	Puntos  []PuntoSerie `json:"puntos"`
}
