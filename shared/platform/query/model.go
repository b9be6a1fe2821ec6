package query

import (
	"fmt"
)

// ValueType es el tipo lógico de una columna. Guía la coerción de filtros y cursores.
type ValueType int

const (
	String ValueType = iota
	Int
	Float
	Bool
	Time
	UUID
)

func (t ValueType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Time:
		return "datetime"
	case UUID:
		return "uuid"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Column es una columna registrada de un modelo.
type Column struct {
	Name     string
	Type     ValueType
	Relation bool // relación u otro atributo no escalar: nunca se filtra ni se carga
}

// Model es el registro cerrado de columnas de una tabla.
// Se construye al arrancar y solo se lee después.
type Model struct {
	Table      string
	PrimaryKey string
	columns    map[string]Column
	order      []string
}

// NewModel valida y construye el registro de columnas de una tabla.
func NewModel(table, primaryKey string, columns ...Column) (*Model, error) {
	if table == "" {
		return nil, fmt.Errorf("model: empty table name")
	}
	m := &Model{
		Table:      table,
		PrimaryKey: primaryKey,
		columns:    make(map[string]Column, len(columns)),
		order:      make([]string, 0, len(columns)),
	}
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("model %s: column without name", table)
		}
		if _, dup := m.columns[c.Name]; dup {
			return nil, fmt.Errorf("model %s: duplicated column %q", table, c.Name)
		}
		m.columns[c.Name] = c
		m.order = append(m.order, c.Name)
	}

	pk, ok := m.columns[primaryKey]
	if !ok || pk.Relation {
		return nil, fmt.Errorf("model %s: primary key %q is not a scalar column", table, primaryKey)
	}
	return m, nil
}

// MustModel es NewModel para definiciones estáticas; un modelo inválido es un error de programación.
func MustModel(table, primaryKey string, columns ...Column) *Model {
	m, err := NewModel(table, primaryKey, columns...)
	if err != nil {
		panic(err)
	}
	return m
}

// Column devuelve la columna registrada con ese nombre canónico.
func (m *Model) Column(name string) (Column, bool) {
	c, ok := m.columns[name]
	return c, ok
}

// IsScalar indica si el nombre es una columna real y escalar del modelo.
func (m *Model) IsScalar(name string) bool {
	c, ok := m.columns[name]
	return ok && !c.Relation
}

// ScalarColumns devuelve las columnas cargables en orden de declaración.
func (m *Model) ScalarColumns() []string {
	out := make([]string, 0, len(m.order))
	for _, name := range m.order {
		if !m.columns[name].Relation {
			out = append(out, name)
		}
	}
	return out
}

// Row expone los valores de una fila ya materializada por nombre de columna.
type Row interface {
	ColumnValue(column string) (any, bool)
}
