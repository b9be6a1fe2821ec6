package query

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Portable lo implementan los predicados cuya sintaxis es de Postgres y que
// tienen una forma equivalente para motores sin ella.
type Portable interface {
	sq.Sqlizer
	Fallback() sq.Sqlizer
}

var (
	_ Portable = PatternPredicate{}
	_ Portable = SearchPredicate{}
)

// PatternMatch indica qué extremos del valor quedan abiertos.
type PatternMatch int

const (
	MatchContains PatternMatch = iota
	MatchPrefix
	MatchSuffix
)

// PatternPredicate es una comparación por patrón sobre una columna de texto.
// Sin Fold distingue mayúsculas; con Fold no.
type PatternPredicate struct {
	Column string
	Value  string
	Match  PatternMatch
	Fold   bool
}

// ToSql renderiza LIKE / ILIKE de Postgres.
func (p PatternPredicate) ToSql() (string, []interface{}, error) {
	op := "LIKE"
	if p.Fold {
		op = "ILIKE"
	}
	return fmt.Sprintf("%s %s ?", p.Column, op), []interface{}{p.wrap(p.Value, "%")}, nil
}

// Fallback es la forma de SQLite: allí LIKE ignora mayúsculas en ASCII, así que
// la variante sensible usa GLOB y la insensible normaliza con LOWER.
func (p PatternPredicate) Fallback() sq.Sqlizer {
	if p.Fold {
		return sq.Expr(fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", p.Column), p.wrap(p.Value, "%"))
	}
	return sq.Expr(fmt.Sprintf("%s GLOB ?", p.Column), p.wrap(likeToGlob(p.Value), "*"))
}

func (p PatternPredicate) wrap(value, wildcard string) string {
	switch p.Match {
	case MatchPrefix:
		return value + wildcard
	case MatchSuffix:
		return wildcard + value
	default:
		return wildcard + value + wildcard
	}
}

// likeToGlob traduce los comodines de LIKE que traiga el valor (% y _) a GLOB
// y deja literales los metacaracteres propios de GLOB.
func likeToGlob(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch r {
		case '%':
			b.WriteByte('*')
		case '_':
			b.WriteByte('?')
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
