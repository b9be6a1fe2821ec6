package query

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// SearchMode selecciona la función de Postgres que construye el tsquery.
type SearchMode string

const (
	SearchPlain  SearchMode = "PLAIN"
	SearchPhrase SearchMode = "PHRASE"
	SearchWeb    SearchMode = "WEB"
)

// MaxSearchTextLength es la longitud máxima del texto de búsqueda.
const MaxSearchTextLength = 128

var searchFunctions = map[SearchMode]string{
	SearchPlain:  "plainto_tsquery",
	SearchPhrase: "phraseto_tsquery",
	SearchWeb:    "websearch_to_tsquery",
}

var searchLanguages = map[string]struct{}{
	"simple":    {},
	"english":   {},
	"ukrainian": {},
}

// SearchSpec es la petición de búsqueda de texto libre.
type SearchSpec struct {
	Text     string     `json:"text"`
	Mode     SearchMode `json:"mode"`
	Language string     `json:"language"`
	Fields   []string   `json:"fields"`
}

// SearchPredicate es una condición de texto completo sobre una columna.
// Renderiza la sintaxis de Postgres; los dialectos sin tsvector usan Fallback.
type SearchPredicate struct {
	Column   string
	Function string
	Language string
	Text     string
}

// ToSql implementa squirrel.Sqlizer.
func (p SearchPredicate) ToSql() (string, []interface{}, error) {
	sql := fmt.Sprintf("to_tsvector(?::regconfig, %s) @@ %s(?::regconfig, ?)", p.Column, p.Function)
	return sql, []interface{}{p.Language, p.Language, p.Text}, nil
}

// Fallback es la versión portable: coincidencia por subcadena sin distinguir mayúsculas.
func (p SearchPredicate) Fallback() sq.Sqlizer {
	return sq.Expr(fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", p.Column), "%"+p.Text+"%")
}

// CompileSearching devuelve un predicado por cada campo buscable solicitado.
// El repositorio los combina con OR.
func CompileSearching(spec *SearchSpec, model *Model, available []string, aliases AliasMap) ([]sq.Sqlizer, error) {
	if spec == nil {
		return nil, nil
	}
	if len([]rune(spec.Text)) > MaxSearchTextLength {
		return nil, newValidationError("text", spec, "Search text must be at most %d characters long.", MaxSearchTextLength)
	}

	language := strings.ToLower(strings.TrimSpace(spec.Language))
	if language == "" {
		language = "simple"
	}
	if _, ok := searchLanguages[language]; !ok {
		return nil, newValidationError("language", spec, "Unsupported search language '%s'.", spec.Language)
	}

	text := strings.TrimSpace(spec.Text)
	if text == "" {
		return nil, nil
	}

	function, ok := searchFunctions[SearchMode(strings.ToUpper(string(spec.Mode)))]
	if !ok {
		function = searchFunctions[SearchPlain]
	}

	allowed := make(map[string]struct{}, len(available))
	for _, col := range available {
		allowed[col] = struct{}{}
	}

	predicates := make([]sq.Sqlizer, 0, len(spec.Fields))
	seen := make(map[string]struct{}, len(spec.Fields))
	for _, field := range spec.Fields {
		column := aliases.Resolve(field)
		if _, ok := allowed[column]; !ok || !model.IsScalar(column) {
			continue
		}
		if _, dup := seen[column]; dup {
			continue
		}
		seen[column] = struct{}{}
		predicates = append(predicates, SearchPredicate{
			Column:   column,
			Function: function,
			Language: language,
			Text:     text,
		})
	}
	return predicates, nil
}
