package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Parse builds a Consulta from URL query values.
//
//	page=2&limit=20&sort=-fecha
//	where[estado][equals]=pendiente
//	where[or][0][cliente][contains]=acme&where[or][1][referencia][contains]=acme
//
// ordenPorDefecto uses the same syntax as the sort parameter and may be empty.
func Parse(valores url.Values, campos Campos, ordenPorDefecto string) (Consulta, error) {
	q := Consulta{Page: 1, Limit: LimitePorDefecto}

	if v := valores.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, invalida("page debe ser un entero >= 1")
		}
		q.Page = n
	}
	if v := valores.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, invalida("limit debe ser un entero >= 1")
		}
		if n > LimiteMaximo {
			n = LimiteMaximo
		}
		q.Limit = n
	}

	orden := valores.Get("sort")
	if orden == "" {
		orden = ordenPorDefecto
	}
	if orden != "" {
		desc := strings.HasPrefix(orden, "-")
		nombre := strings.TrimPrefix(orden, "-")
		campo, ok := campos[nombre]
		if !ok {
			return q, invalida(fmt.Sprintf("no se puede ordenar por %q", nombre))
		}
		q.OrdenColumna = campo.Columna
		q.OrdenDesc = desc
	}

	alternativas := map[int][]Condicion{}
	for clave, vals := range valores {
		if !strings.HasPrefix(clave, "where[") || len(vals) == 0 {
			continue
		}
		segs, err := segmentos(strings.TrimPrefix(clave, "where"))
		if err != nil {
			return q, err
		}
		switch {
		case len(segs) == 2:
			c, err := condicion(campos, segs[0], segs[1], vals[0])
			if err != nil {
				return q, err
			}
			q.Filtros = append(q.Filtros, c)

		case len(segs) == 4 && (segs[0] == "or" || segs[0] == "and"):
			idx, err := strconv.Atoi(segs[1])
			if err != nil || idx < 0 || idx >= MaxAlternativas {
				return q, invalida(fmt.Sprintf("indice %q fuera de rango (0-%d)", segs[1], MaxAlternativas-1))
			}
			c, err := condicion(campos, segs[2], segs[3], vals[0])
			if err != nil {
				return q, err
			}
			if segs[0] == "and" {
				q.Filtros = append(q.Filtros, c)
			} else {
				alternativas[idx] = append(alternativas[idx], c)
			}

		default:
			return q, invalida(fmt.Sprintf("parametro %q no reconocido", clave))
		}
	}

	if len(alternativas) > 0 {
		indices := make([]int, 0, len(alternativas))
		for i := range alternativas {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		for _, i := range indices {
			q.Alternativas = append(q.Alternativas, alternativas[i])
		}
	}
	// url.Values iteration order is random; keep filters deterministic.
	sort.SliceStable(q.Filtros, func(i, j int) bool { return q.Filtros[i].Columna < q.Filtros[j].Columna })

	return q, nil
}

// segmentos splits "[a][b][c]" into ["a","b","c"].
func segmentos(s string) ([]string, error) {
	var out []string
	for len(s) > 0 {
		if s[0] != '[' {
			return nil, invalida("filtro mal formado")
		}
		fin := strings.IndexByte(s, ']')
		if fin < 0 {
			return nil, invalida("filtro mal formado")
		}
		out = append(out, s[1:fin])
		s = s[fin+1:]
	}
	return out, nil
}

func condicion(campos Campos, nombre, op, crudo string) (Condicion, error) {
	campo, ok := campos[nombre]
	if !ok {
		return Condicion{}, invalida(fmt.Sprintf("no se puede filtrar por %q", nombre))
	}
	operador := Operador(op)
	if !permitido(campo.Tipo, operador) {
		return Condicion{}, invalida(fmt.Sprintf("operador %q no soportado para %q", op, nombre))
	}
	valor, err := convertir(campo.Tipo, crudo)
	if err != nil {
		return Condicion{}, invalida(fmt.Sprintf("valor invalido para %q: %v", nombre, err))
	}
	return Condicion{Columna: campo.Columna, Operador: operador, Valor: valor}, nil
}

func permitido(t Tipo, op Operador) bool {
	switch op {
	case Equals, NotEquals:
		return true
	case Contains:
		return t == Texto
	case LessThan, LessThanEqual, GreaterThan, GreaterThanEqual:
		return t == Entero || t == Decimal || t == Fecha
	default:
		return false
	}
}

func convertir(t Tipo, crudo string) (any, error) {
	switch t {
	case Entero:
		return strconv.Atoi(crudo)
	case Decimal:
		return decimal.NewFromString(crudo)
	case Fecha:
		return ParseFecha(crudo)
	case Booleano:
		return strconv.ParseBool(crudo)
	case UUID:
		return uuid.Parse(crudo)
	default:
		return crudo, nil
	}
}

func invalida(msg string) error {
	return fmt.Errorf("%w: %s", ErrConsultaInvalida, msg)
}
