package query

import (
	"strings"
)

// Direction es el sentido de ordenación. Su valor es el que viaja en el cursor.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortColumn es una columna canónica con su sentido.
type SortColumn struct {
	Column    string
	Direction Direction
}

// SortSpec es la ordenación compilada de una petición.
// Siempre termina en la columna de desempate.
type SortSpec []SortColumn

// DefaultSorting ordena por id descendente.
var DefaultSorting = []string{"-id"}

// Columns devuelve las columnas de la ordenación, en orden.
func (s SortSpec) Columns() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Column
	}
	return out
}

// Contains indica si la columna participa en la ordenación.
func (s SortSpec) Contains(column string) bool {
	for _, c := range s {
		if c.Column == column {
			return true
		}
	}
	return false
}

// OrderBy devuelve las cláusulas "col ASC|DESC" listas para ORDER BY.
func (s SortSpec) OrderBy() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Column + " " + strings.ToUpper(string(c.Direction))
	}
	return out
}

// parseSortToken separa el signo del nombre: "-f" es DESC, "+f" y "f" son ASC.
func parseSortToken(token string) (string, Direction) {
	token = strings.TrimSpace(token)
	switch {
	case strings.HasPrefix(token, "-"):
		return strings.TrimSpace(token[1:]), Desc
	case strings.HasPrefix(token, "+"):
		return strings.TrimSpace(token[1:]), Asc
	default:
		return token, Asc
	}
}

// CompileSorting traduce los tokens del cliente a una SortSpec.
// Las columnas desconocidas o no permitidas se descartan en silencio.
func CompileSorting(raw []string, model *Model, available []string, aliases AliasMap, defaults []string) SortSpec {
	if len(defaults) == 0 {
		defaults = DefaultSorting
	}

	tokens := raw
	if len(tokens) == 0 {
		tokens = defaults
	} else {
		tieBreaker := defaults[len(defaults)-1]
		last, _ := parseSortToken(tokens[len(tokens)-1])
		wanted, _ := parseSortToken(tieBreaker)
		if last != wanted {
			tokens = append(append(make([]string, 0, len(raw)+1), raw...), tieBreaker)
		}
	}

	allowed := make(map[string]struct{}, len(available))
	for _, col := range available {
		allowed[col] = struct{}{}
	}

	spec := make(SortSpec, 0, len(tokens))
	for _, token := range tokens {
		name, dir := parseSortToken(token)
		if name == "" {
			continue
		}
		column := aliases.Resolve(name)
		if !model.IsScalar(column) {
			continue
		}
		if _, ok := allowed[column]; !ok {
			continue
		}
		spec = append(spec, SortColumn{Column: column, Direction: dir})
	}
	return spec
}
