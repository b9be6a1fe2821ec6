package query

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Límites de página.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// PaginationSpec es la petición de paginación del cliente.
type PaginationSpec struct {
	NextToken *string `json:"nextToken"`
	Limit     *int    `json:"limit"`
}

// CursorField es una entrada del cursor: columna, último valor visto y sentido.
type CursorField struct {
	Field string    `json:"field"`
	Value any       `json:"value"`
	Order Direction `json:"order"`
}

// ErrInvalidCursor agrupa cualquier fallo al leer un nextToken.
var ErrInvalidCursor = errors.New("invalid next token")

// CompileLimit valida el límite pedido; nil significa el valor por defecto.
func CompileLimit(limit *int, fallback int) (int, error) {
	if fallback <= 0 || fallback > MaxLimit {
		fallback = DefaultLimit
	}
	if limit == nil {
		return fallback, nil
	}
	if *limit < 1 || *limit > MaxLimit {
		return 0, newValidationError("limit", *limit, "Pagination limit must be between 1 and %d.", MaxLimit)
	}
	return *limit, nil
}

// EncodeNextToken construye el cursor a partir de la última fila de la página.
// Devuelve nil cuando la página vino corta: no quedan más filas.
func EncodeNextToken(last Row, sort SortSpec, pageSize, limit int) (*string, error) {
	if pageSize < limit || last == nil {
		return nil, nil
	}

	fields := make([]CursorField, 0, len(sort))
	for _, sc := range sort {
		v, ok := last.ColumnValue(sc.Column)
		if !ok {
			return nil, fmt.Errorf("next token: row has no value for sort column %q", sc.Column)
		}
		fields = append(fields, CursorField{Field: sc.Column, Value: jsonValue(v), Order: sc.Direction})
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("next token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(data)
	return &token, nil
}

// DecodeCursor lee un nextToken y convierte cada valor al tipo de su columna.
func DecodeCursor(token string, model *Model) ([]CursorField, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var fields []CursorField
	if err := decodeJSON(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidCursor)
	}

	for i, f := range fields {
		col, ok := model.Column(f.Field)
		if !ok || col.Relation {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidCursor, f.Field)
		}
		if f.Order != Asc && f.Order != Desc {
			return nil, fmt.Errorf("%w: bad order %q", ErrInvalidCursor, f.Order)
		}
		v, err := coerceValue(f.Value, col.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		fields[i].Value = v
	}
	return fields, nil
}

// ResumePredicate construye el predicado keyset para continuar tras el cursor:
//
//	OR_i (c1 = v1 AND ... AND c(i-1) = v(i-1) AND ci >|< vi)
//
// Un token ilegible, o que no corresponde a la ordenación actual, equivale a no tener cursor.
func ResumePredicate(token string, sort SortSpec, model *Model) (sq.Sqlizer, error) {
	if token == "" {
		return nil, nil
	}
	fields, err := DecodeCursor(token, model)
	if err != nil {
		return nil, err
	}
	if len(fields) != len(sort) {
		return nil, fmt.Errorf("%w: token has %d fields, sorting has %d", ErrInvalidCursor, len(fields), len(sort))
	}
	for i, f := range fields {
		if f.Field != sort[i].Column || f.Order != sort[i].Direction {
			return nil, fmt.Errorf("%w: token does not match sorting", ErrInvalidCursor)
		}
	}
	return KeysetPredicate(fields), nil
}

// KeysetPredicate construye el OR de prefijos iguales más una comparación estricta.
func KeysetPredicate(fields []CursorField) sq.Sqlizer {
	terms := make(sq.Or, 0, len(fields))
	previous := make([]sq.Sqlizer, 0, len(fields))
	for _, f := range fields {
		value := sqlValue(f.Value)

		var cmp sq.Sqlizer = sq.Gt{f.Field: value}
		if f.Order == Desc {
			cmp = sq.Lt{f.Field: value}
		}

		if len(previous) == 0 {
			terms = append(terms, cmp)
		} else {
			term := make(sq.And, 0, len(previous)+1)
			term = append(term, previous...)
			term = append(term, cmp)
			terms = append(terms, term)
		}
		previous = append(previous, sq.Eq{f.Field: value})
	}
	return terms
}
