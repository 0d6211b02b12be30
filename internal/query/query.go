// Package query parses the collection list parameters accepted by every
// GET /api/{coleccion} endpoint (page, limit, sort and where[...] filters)
// and applies them to a GORM statement.
//
// Field names are resolved against a per-collection whitelist at parse time,
// so a parsed Consulta only ever references known columns with values that
// have already been converted to the column's type.
package query

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	LimitePorDefecto = 10
	LimiteMaximo     = 100
	MaxAlternativas  = 10
)

// ErrConsultaInvalida is wrapped by every parse error so handlers can map it to 400.
var ErrConsultaInvalida = errors.New("consulta invalida")

// Tipo is the storage type of a filterable field.
type Tipo int

const (
	Texto Tipo = iota
	Entero
	Decimal
	Fecha
	Booleano
	UUID
)

// Campo maps an API field name to its column.
type Campo struct {
	Columna string
	Tipo    Tipo
}

// Campos is the whitelist of filterable / sortable fields of a collection.
type Campos map[string]Campo

type Operador string

const (
	Equals           Operador = "equals"
	NotEquals        Operador = "not_equals"
	Contains         Operador = "contains"
	LessThan         Operador = "less_than"
	LessThanEqual    Operador = "less_than_equal"
	GreaterThan      Operador = "greater_than"
	GreaterThanEqual Operador = "greater_than_or_equal"
)

// Condicion is one resolved predicate: column, operator and typed value.
type Condicion struct {
	Columna  string
	Operador Operador
	Valor    any
}

func (c Condicion) sql() (string, any) {
	col := c.Columna
	switch c.Operador {
	case NotEquals:
		return col + " <> ?", c.Valor
	case Contains:
		return col + " ILIKE ?", "%" + escaparLike(c.Valor.(string)) + "%"
	case LessThan:
		return col + " < ?", c.Valor
	case LessThanEqual:
		return col + " <= ?", c.Valor
	case GreaterThan:
		return col + " > ?", c.Valor
	case GreaterThanEqual:
		return col + " >= ?", c.Valor
	default:
		return col + " = ?", c.Valor
	}
}

// Consulta is a fully validated list request.
type Consulta struct {
	Page  int
	Limit int

	OrdenColumna string
	OrdenDesc    bool

	// Filtros are ANDed together.
	Filtros []Condicion
	// Alternativas are ORed together; each group is itself an AND.
	Alternativas [][]Condicion
}

// Restringir adds an equality filter that callers cannot override, e.g. to
// scope a listing to the caller's own rows.
func (q *Consulta) Restringir(columna string, valor any) {
	q.Filtros = append(q.Filtros, Condicion{Columna: columna, Operador: Equals, Valor: valor})
}

// Offset is the number of rows to skip for the requested page.
func (q Consulta) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Filtrar applies the where clauses. Use it before Count.
func (q Consulta) Filtrar(db *gorm.DB) *gorm.DB {
	for _, f := range q.Filtros {
		sql, v := f.sql()
		db = db.Where(sql, v)
	}
	if len(q.Alternativas) == 0 {
		return db
	}
	grupos := make([]string, 0, len(q.Alternativas))
	var args []any
	for _, grupo := range q.Alternativas {
		partes := make([]string, 0, len(grupo))
		for _, c := range grupo {
			sql, v := c.sql()
			partes = append(partes, sql)
			args = append(args, v)
		}
		grupos = append(grupos, "("+strings.Join(partes, " AND ")+")")
	}
	return db.Where("("+strings.Join(grupos, " OR ")+")", args...)
}

// Paginar applies ordering, limit and offset. The id column is always the
// last sort key so pages are stable.
func (q Consulta) Paginar(db *gorm.DB) *gorm.DB {
	if q.OrdenColumna != "" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrdenColumna}, Desc: q.OrdenDesc})
	}
	return db.Order("id").Limit(q.Limit).Offset(q.Offset())
}

// Pagina is the list envelope returned by every collection.
type Pagina[T any] struct {
	Docs        []T   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Limit       int   `json:"limit"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NuevaPagina[T any](docs []T, total int64, q Consulta) Pagina[T] {
	if docs == nil {
		docs = []T{}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = LimitePorDefecto
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	paginas := int(math.Ceil(float64(total) / float64(limit)))
	if paginas < 1 {
		paginas = 1
	}
	return Pagina[T]{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       limit,
		Page:        page,
		TotalPages:  paginas,
		HasNextPage: page < paginas,
		HasPrevPage: page > 1,
	}
}

// ParseFecha accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func ParseFecha(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: se espera RFC3339 o YYYY-MM-DD", s)
	}
	return t, nil
}

func escaparLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
