package query

import (
	"errors"
	"fmt"
)

// Mensajes de error expuestos al cliente.
const (
	msgInvalidFilters = "Invalid 'filters' Array[Filter{}]. Every filter should be an Object{} with three fields: 'field' or 'f', 'operator' or 'o', 'value' or 'v'."
	msgFilterValue    = "Can't parse filter value of '%s'. Check validity of filter Object{} or a possibility filtering by this field."
)

// ErrProjectionWithoutSorting indica que se intentó proyectar sin ordenación compilada.
var ErrProjectionWithoutSorting = errors.New("projection requires a compiled sorting")

// ValidationError es un error del cliente detectado antes de ejecutar ninguna consulta.
// Data contiene la estructura ofensiva y solo debe exponerse en modo debug.
type ValidationError struct {
	Message string
	Field   string
	Data    any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field: %s)", e.Message, e.Field)
	}
	return e.Message
}

func newValidationError(field string, data any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
		Field:   field,
		Data:    data,
	}
}

// IsValidationError indica si err (o alguno de los errores que envuelve) es de validación.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
