package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"gestion/internal/apierror"
	"gestion/internal/dto"
	"gestion/internal/query"
	"gestion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Field errors are reported under the JSON name the client sent.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0 or gt=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// dto.Fecha validates as a string: empty when the zero time was sent.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(dto.Fecha); ok {
			if v.IsZero() {
				return ""
			}
			return v.Format(time.RFC3339)
		}
		return nil
	}, dto.Fecha{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New("JSON invalido"))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads the :id path parameter. Writes a 400 and returns false when it
// is not a UUID.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// parseConsulta parses the list query string. Writes a 400 and returns false
// on malformed filters.
func parseConsulta(c *gin.Context, campos query.Campos, ordenPorDefecto string) (query.Consulta, bool) {
	q, err := query.Parse(c.Request.URL.Query(), campos, ordenPorDefecto)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return query.Consulta{}, false
	}
	return q, true
}

// responderError maps domain errors to HTTP status codes. It is the only place
// where service errors become statuses; anything unknown goes to ErrorHandler.
func responderError(c *gin.Context, err error) {
	var verr *service.ValidacionError
	var serr *service.StockInsuficienteError

	switch {
	case errors.Is(err, service.ErrNoAutenticado):
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
	case errors.Is(err, service.ErrCredencialesInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.New("Credenciales invalidas"))
	case errors.Is(err, service.ErrAccesoDenegado):
		c.JSON(http.StatusForbidden, apierror.New("Acceso denegado"))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCampo(verr.Campo, verr.Mensaje))
	case errors.As(err, &serr):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(serr.Error()))
	case errors.Is(err, service.ErrConflicto):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, query.ErrConsultaInvalida):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, apierror.New("La operacion excedio el tiempo limite"))
	default:
		_ = c.Error(err)
	}
}
