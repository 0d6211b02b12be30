package service

import (
	"errors"
	"fmt"

	"gestion/internal/repository"
)

// Domain errors. Handlers map them to HTTP status codes in one place; no other
// layer decides status codes.
var (
	ErrNoAutenticado         = errors.New("autenticacion requerida")
	ErrAccesoDenegado        = errors.New("acceso denegado")
	ErrNoEncontrado          = errors.New("recurso no encontrado")
	ErrConflicto             = errors.New("ya existe un registro con ese valor unico")
	ErrStockInsuficiente     = errors.New("stock insuficiente")
	ErrCredencialesInvalidas = errors.New("credenciales invalidas")
	ErrAlmacenamiento        = errors.New("error de almacenamiento")
)

// ValidacionError names the offending field and the violated constraint.
type ValidacionError struct {
	Campo   string
	Mensaje string
}

func (e *ValidacionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Campo, e.Mensaje)
}

func validacion(campo, mensaje string) error {
	return &ValidacionError{Campo: campo, Mensaje: mensaje}
}

// StockInsuficienteError carries both quantities so the client can show them.
type StockInsuficienteError struct {
	Producto   string
	Stock      int
	Solicitado int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("Stock insuficiente para el producto %q. Stock actual: %d, solicitado: %d",
		e.Producto, e.Stock, e.Solicitado)
}

func (e *StockInsuficienteError) Is(target error) bool {
	return target == ErrStockInsuficiente
}

// traducir converts repository errors into domain errors. Unknown failures keep
// their chain so context cancellation stays detectable upstream.
func traducir(err error) error {
	switch {
	case err == nil:
		return nil
	case repository.EsNoEncontrado(err):
		return ErrNoEncontrado
	case repository.EsDuplicado(err):
		return ErrConflicto
	default:
		return fmt.Errorf("%w: %w", ErrAlmacenamiento, err)
	}
}
