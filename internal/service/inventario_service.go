package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gestion/internal/dto"
	"gestion/internal/model"
	"gestion/internal/query"
	"gestion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AlmacenImagenes is the object store holding item pictures.
type AlmacenImagenes interface {
	Upload(ctx context.Context, file io.Reader, path string) (storagePath string, publicURL string, err error)
	Delete(ctx context.Context, path string) error
}

type InventarioService interface {
	Listar(ctx context.Context, q query.Consulta) (query.Pagina[dto.ItemResponse], error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	Crear(ctx context.Context, req dto.CrearItemRequest) (*dto.ItemResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarItemRequest) (*dto.ItemResponse, error)
	// Eliminar deactivates items referenced by sales and hard-deletes the rest.
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.EliminarItemResponse, error)
	SubirImagen(ctx context.Context, id uuid.UUID, imagen io.Reader) (*dto.ItemResponse, error)
}

type inventarioService struct {
	items    repository.ItemRepository
	ventas   repository.VentaRepository
	imagenes AlmacenImagenes
}

func NewInventarioService(items repository.ItemRepository, ventas repository.VentaRepository, imagenes AlmacenImagenes) InventarioService {
	return &inventarioService{items: items, ventas: ventas, imagenes: imagenes}
}

func (s *inventarioService) Listar(ctx context.Context, q query.Consulta) (query.Pagina[dto.ItemResponse], error) {
	items, total, err := s.items.List(ctx, q)
	if err != nil {
		return query.Pagina[dto.ItemResponse]{}, traducir(err)
	}
	docs := make([]dto.ItemResponse, len(items))
	for i := range items {
		docs[i] = itemToResponse(&items[i])
	}
	return query.NuevaPagina(docs, total, q), nil
}

func (s *inventarioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	resp := itemToResponse(it)
	return &resp, nil
}

func (s *inventarioService) Crear(ctx context.Context, req dto.CrearItemRequest) (*dto.ItemResponse, error) {
	it := &model.ItemInventario{
		Nombre:      strings.TrimSpace(req.Nombre),
		SKU:         strings.TrimSpace(req.SKU),
		Descripcion: req.Descripcion,
		Imagen:      req.Imagen,
		Activo:      true,
	}
	if req.Precio == nil {
		return nil, validacion("precio", "es obligatorio")
	}
	it.Precio = *req.Precio
	if req.Stock != nil {
		it.Stock = *req.Stock
	}
	if req.Activo != nil {
		it.Activo = *req.Activo
	}
	if err := validarItem(it); err != nil {
		return nil, err
	}
	if err := s.skuLibre(ctx, it.SKU, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, traducir(err)
	}
	resp := itemToResponse(it)
	return &resp, nil
}

func (s *inventarioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarItemRequest) (*dto.ItemResponse, error) {
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	var columnas []string
	if req.Nombre != nil {
		it.Nombre = strings.TrimSpace(*req.Nombre)
		columnas = append(columnas, "nombre")
	}
	if req.SKU != nil {
		it.SKU = strings.TrimSpace(*req.SKU)
		columnas = append(columnas, "sku")
	}
	if req.Precio != nil {
		it.Precio = *req.Precio
		columnas = append(columnas, "precio")
	}
	if req.Stock != nil {
		it.Stock = *req.Stock
		columnas = append(columnas, "stock")
	}
	if req.Descripcion != nil {
		it.Descripcion = req.Descripcion
		columnas = append(columnas, "descripcion")
	}
	if req.Imagen != nil {
		it.Imagen = req.Imagen
		columnas = append(columnas, "imagen")
	}
	if req.Activo != nil {
		it.Activo = *req.Activo
		columnas = append(columnas, "activo")
	}
	if err := validarItem(it); err != nil {
		return nil, err
	}
	if req.SKU != nil {
		if err := s.skuLibre(ctx, it.SKU, it.ID); err != nil {
			return nil, err
		}
	}
	if err := s.items.Update(ctx, it, columnas...); err != nil {
		return nil, traducir(err)
	}
	// Columns left out (stock above all) may have moved since the read.
	if fresco, err := s.items.FindByID(ctx, id); err == nil {
		it = fresco
	}
	resp := itemToResponse(it)
	return &resp, nil
}

func (s *inventarioService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.EliminarItemResponse, error) {
	if _, err := s.items.FindByID(ctx, id); err != nil {
		return nil, traducir(err)
	}
	referenciado, err := s.ventas.ExistePorProducto(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	if referenciado {
		if err := s.items.Desactivar(ctx, id); err != nil {
			return nil, traducir(err)
		}
		log.Info().Str("item_id", id.String()).Msg("inventario: item referenced by sales, deactivated instead of deleted")
		return &dto.EliminarItemResponse{ID: id.String(), Desactivado: true}, nil
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return nil, traducir(err)
	}
	return &dto.EliminarItemResponse{ID: id.String()}, nil
}

func (s *inventarioService) SubirImagen(ctx context.Context, id uuid.UUID, imagen io.Reader) (*dto.ItemResponse, error) {
	if s.imagenes == nil {
		return nil, fmt.Errorf("inventario: almacenamiento de imagenes no configurado")
	}
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	procesada, err := procesarImagen(imagen)
	if err != nil {
		return nil, validacion("imagen", err.Error())
	}
	ruta := fmt.Sprintf("items/%s/%s.jpg", it.ID, uuid.NewString())
	clave, url, err := s.imagenes.Upload(ctx, procesada, ruta)
	if err != nil {
		return nil, fmt.Errorf("inventario: subir imagen: %w", err)
	}
	it.Imagen = &url
	if err := s.items.Update(ctx, it, "imagen"); err != nil {
		if derr := s.imagenes.Delete(ctx, clave); derr != nil {
			log.Warn().Err(derr).Str("clave", clave).Msg("inventario: orphan image left in storage")
		}
		return nil, traducir(err)
	}
	resp := itemToResponse(it)
	return &resp, nil
}

func (s *inventarioService) skuLibre(ctx context.Context, sku string, propio uuid.UUID) error {
	existente, err := s.items.FindBySKU(ctx, sku)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return nil
		}
		return traducir(err)
	}
	if existente.ID != propio {
		return fmt.Errorf("%w: sku %q", ErrConflicto, sku)
	}
	return nil
}

func validarItem(it *model.ItemInventario) error {
	switch {
	case it.Nombre == "":
		return validacion("nombre", "es obligatorio")
	case it.SKU == "":
		return validacion("sku", "es obligatorio")
	case it.Precio.LessThan(decimal.Zero):
		return validacion("precio", "debe ser >= 0")
	case it.Stock < 0:
		return validacion("stock", "debe ser >= 0")
	}
	return nil
}
