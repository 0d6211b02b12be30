package dto

import "time"

type CapacidadesDTO struct {
	CanRead   bool `json:"canRead"`
	CanCreate bool `json:"canCreate"`
	CanUpdate bool `json:"canUpdate"`
	CanDelete bool `json:"canDelete"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPermisoRequest struct {
	Usuario    string         `json:"usuario" validate:"required,uuid"`
	Inventario CapacidadesDTO `json:"inventario"`
	Ventas     CapacidadesDTO `json:"ventas"`
	Cobranzas  CapacidadesDTO `json:"cobranzas"`
}

// ActualizarPermisoRequest replaces whole module groups; omitted groups are kept.
type ActualizarPermisoRequest struct {
	Inventario *CapacidadesDTO `json:"inventario"`
	Ventas     *CapacidadesDTO `json:"ventas"`
	Cobranzas  *CapacidadesDTO `json:"cobranzas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PermisoResponse struct {
	ID         string         `json:"id"`
	Usuario    string         `json:"usuario"`
	Inventario CapacidadesDTO `json:"inventario"`
	Ventas     CapacidadesDTO `json:"ventas"`
	Cobranzas  CapacidadesDTO `json:"cobranzas"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// PermisosResponse is the effective capability table of the caller.
type PermisosResponse struct {
	Inventario CapacidadesDTO `json:"inventario"`
	Ventas     CapacidadesDTO `json:"ventas"`
	Cobranzas  CapacidadesDTO `json:"cobranzas"`
}
