package service

import (
	"time"

	"gestion/internal/dto"
	"gestion/internal/model"
)

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Nombre:    u.Nombre,
		Role:      string(u.Rol),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func capacidadesToDTO(c model.Capacidades) dto.CapacidadesDTO {
	return dto.CapacidadesDTO{CanRead: c.CanRead, CanCreate: c.CanCreate, CanUpdate: c.CanUpdate, CanDelete: c.CanDelete}
}

func capacidadesFromDTO(c dto.CapacidadesDTO) model.Capacidades {
	return model.Capacidades{CanRead: c.CanRead, CanCreate: c.CanCreate, CanUpdate: c.CanUpdate, CanDelete: c.CanDelete}
}

func permisoToResponse(p *model.Permiso) dto.PermisoResponse {
	return dto.PermisoResponse{
		ID:         p.ID.String(),
		Usuario:    p.UsuarioID.String(),
		Inventario: capacidadesToDTO(p.Inventario),
		Ventas:     capacidadesToDTO(p.Ventas),
		Cobranzas:  capacidadesToDTO(p.Cobranzas),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func permisosEfectivosToResponse(p model.Permiso) *dto.PermisosResponse {
	return &dto.PermisosResponse{
		Inventario: capacidadesToDTO(p.Inventario),
		Ventas:     capacidadesToDTO(p.Ventas),
		Cobranzas:  capacidadesToDTO(p.Cobranzas),
	}
}

func itemToResponse(it *model.ItemInventario) dto.ItemResponse {
	return dto.ItemResponse{
		ID:          it.ID.String(),
		Nombre:      it.Nombre,
		SKU:         it.SKU,
		Precio:      it.Precio,
		Stock:       it.Stock,
		Descripcion: it.Descripcion,
		Imagen:      it.Imagen,
		Activo:      it.Activo,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:          v.ID.String(),
		Fecha:       v.Fecha,
		Referencia:  v.Referencia,
		Cliente:     v.Cliente,
		Producto:    v.ProductoID.String(),
		Cantidad:    v.Cantidad,
		Total:       v.Total,
		Estado:      string(v.Estado),
		Descripcion: v.Descripcion,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if v.Producto != nil {
		resp.ProductoNombre = v.Producto.Nombre
	}
	return resp
}

func cobranzaToResponse(c *model.Cobranza, ahora time.Time) dto.CobranzaResponse {
	return dto.CobranzaResponse{
		ID:               c.ID.String(),
		FechaVencimiento: c.FechaVencimiento,
		Referencia:       c.Referencia,
		Cliente:          c.Cliente,
		Monto:            c.Monto,
		Estado:           string(c.Estado),
		Descripcion:      c.Descripcion,
		Atrasada:         c.Atrasada(ahora),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
