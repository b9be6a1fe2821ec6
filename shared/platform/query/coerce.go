package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Formatos de fecha aceptados en filtros y cursores, del más al menos preciso.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decodeJSON decodifica conservando los números como json.Number.
func decodeJSON(raw []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dest)
}

// coerceValue convierte un valor decodificado de JSON al tipo Go canónico de la columna:
// string, int64, float64, bool, time.Time o uuid.UUID.
func coerceValue(v any, t ValueType) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("null is not a valid %s", t)
	}

	switch t {
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}

	case Int:
		switch n := v.(type) {
		case json.Number:
			return n.Int64()
		case string:
			return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		case float64:
			if n == math.Trunc(n) {
				return int64(n), nil
			}
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		}

	case Float:
		switch n := v.(type) {
		case json.Number:
			return n.Float64()
		case string:
			return strconv.ParseFloat(strings.TrimSpace(n), 64)
		case float64:
			return n, nil
		}

	case Bool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			return strconv.ParseBool(b)
		}

	case Time:
		switch ts := v.(type) {
		case time.Time:
			return ts.UTC(), nil
		case string:
			return parseTime(ts)
		}

	case UUID:
		switch id := v.(type) {
		case uuid.UUID:
			return id, nil
		case string:
			return uuid.Parse(id)
		}
	}
	return nil, fmt.Errorf("%v (%T) is not a valid %s", v, v, t)
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a valid datetime", s)
}

// sqlValue adapta un valor canónico para usarlo como argumento de squirrel.
// uuid.UUID es un array y squirrel lo expandiría como lista IN.
func sqlValue(v any) any {
	switch x := v.(type) {
	case uuid.UUID:
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = sqlValue(item)
		}
		return out
	default:
		return v
	}
}

// jsonValue adapta un valor canónico para serializarlo en el cursor.
func jsonValue(v any) any {
	switch x := v.(type) {
	case uuid.UUID:
		return strings.ReplaceAll(x.String(), "-", "")
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC().Format(time.RFC3339Nano)
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return strings.ReplaceAll(x.String(), "-", "")
	default:
		return v
	}
}
