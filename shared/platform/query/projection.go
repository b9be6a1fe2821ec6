package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ProjectionMode indica si los campos pedidos se incluyen o se excluyen.
type ProjectionMode string

const (
	Include ProjectionMode = "INCLUDE"
	Exclude ProjectionMode = "EXCLUDE"
)

// ProjectionFields es "*" o una lista explícita de nombres públicos.
type ProjectionFields struct {
	All   bool
	Names []string
}

// UnmarshalJSON acepta "*" o un array de strings.
func (f *ProjectionFields) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "*" {
			return fmt.Errorf("projection fields must be \"*\" or a list of field names")
		}
		*f = ProjectionFields{All: true}
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("projection fields must be \"*\" or a list of field names: %w", err)
	}
	*f = ProjectionFields{Names: names}
	return nil
}

// MarshalJSON es el inverso de UnmarshalJSON.
func (f ProjectionFields) MarshalJSON() ([]byte, error) {
	if f.All {
		return []byte(`"*"`), nil
	}
	return json.Marshal(f.Names)
}

// ProjectionSpec es la petición de proyección del cliente.
type ProjectionSpec struct {
	Fields ProjectionFields `json:"fields"`
	Mode   ProjectionMode   `json:"mode"`
}

// ColumnPlan son las columnas que se seleccionan, en orden de declaración del modelo.
type ColumnPlan struct {
	Columns []string
}

// Has indica si la columna se materializa.
func (p ColumnPlan) Has(column string) bool {
	for _, c := range p.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// CompileProjection decide qué columnas cargar. La clave primaria y las columnas de
// ordenación nunca se excluyen.
func CompileProjection(spec *ProjectionSpec, sort SortSpec, model *Model, aliases AliasMap) (ColumnPlan, error) {
	if len(sort) == 0 {
		return ColumnPlan{}, ErrProjectionWithoutSorting
	}

	all := model.ScalarColumns()
	if spec == nil {
		return ColumnPlan{Columns: all}, nil
	}

	mode := ProjectionMode(strings.ToUpper(string(spec.Mode)))
	if mode == "" {
		mode = Include
	}
	if mode != Include && mode != Exclude {
		return ColumnPlan{}, newValidationError("mode", spec, "Unsupported projection mode '%s'.", spec.Mode)
	}

	fields := spec.Fields
	if !fields.All && fields.Names == nil {
		fields.All = true
	}

	requested := make(map[string]struct{}, len(fields.Names))
	for _, name := range fields.Names {
		column := aliases.Resolve(name)
		if model.IsScalar(column) {
			requested[column] = struct{}{}
		}
	}

	keep := func(pick func(column string) bool) ColumnPlan {
		cols := make([]string, 0, len(all))
		for _, c := range all {
			if pick(c) {
				cols = append(cols, c)
			}
		}
		return ColumnPlan{Columns: cols}
	}

	switch {
	case fields.All && mode == Include:
		return ColumnPlan{Columns: all}, nil

	case fields.All && mode == Exclude:
		return keep(sort.Contains), nil

	case mode == Include:
		plan := keep(func(c string) bool {
			_, ok := requested[c]
			return ok || sort.Contains(c)
		})
		if len(plan.Columns) == 0 {
			return ColumnPlan{Columns: []string{model.PrimaryKey}}, nil
		}
		return plan, nil

	default:
		return keep(func(c string) bool {
			if c == model.PrimaryKey || sort.Contains(c) {
				return true
			}
			_, excluded := requested[c]
			return !excluded
		}), nil
	}
}

// Project devuelve los valores materializados de la fila, con claves públicas.
func Project(row Row, plan ColumnPlan, aliases AliasMap) map[string]any {
	out := make(map[string]any, len(plan.Columns))
	for _, c := range plan.Columns {
		if v, ok := row.ColumnValue(c); ok {
			out[aliases.Public(c)] = v
		}
	}
	return out
}
