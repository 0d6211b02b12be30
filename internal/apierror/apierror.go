// Package apierror provides the error envelope every 4xx/5xx response uses.
// Handlers never serialize raw errors; storage and driver details stay in logs.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError lists the offending fields, keyed by their JSON name.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// NewCampo reports a single business-rule violation on one field.
func NewCampo(campo, mensaje string) *ValidationError {
	return &ValidationError{
		Detail: campo + ": " + mensaje,
		Fields: map[string]string{campo: mensaje},
	}
}
