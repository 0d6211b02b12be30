package dto

import (
	"encoding/json"
	"errors"
	"time"

	"gestion/internal/query"
)

// Fecha accepts either an RFC 3339 timestamp or a YYYY-MM-DD date on input and
// marshals back as RFC 3339.
type Fecha struct{ time.Time }

func (f *Fecha) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("fecha: se espera un string")
	}
	if s == "" {
		f.Time = time.Time{}
		return nil
	}
	t, err := query.ParseFecha(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func NuevaFecha(t time.Time) Fecha { return Fecha{Time: t} }
