package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// ---------------- Operadores ----------------

// Operator es un operador lógico de filtrado, en su forma canónica externa.
type Operator string

const (
	OpEq         Operator = "="
	OpNe         Operator = "!="
	OpGt         Operator = ">"
	OpGe         Operator = ">="
	OpLt         Operator = "<"
	OpLe         Operator = "<="
	OpIn         Operator = "in"
	OpNotIn      Operator = "notin"
	OpLike       Operator = "like"
	OpILike      Operator = "ilike"
	OpStartsWith Operator = "startswith"
	OpEndsWith   Operator = "endswith"
	OpIsNull     Operator = "isnull"
	OpNotNull    Operator = "notnull"
)

var operatorVocabulary = map[string]Operator{
	"=": OpEq, "!=": OpNe, ">": OpGt, ">=": OpGe, "<": OpLt, "<=": OpLe,
	"in": OpIn, "notin": OpNotIn,
	"like": OpLike, "ilike": OpILike, "startswith": OpStartsWith, "endswith": OpEndsWith,
	"isnull": OpIsNull, "notnull": OpNotNull,
	// alias cortos
	"eq": OpEq, "ne": OpNe, "g": OpGt, "ge": OpGe, "l": OpLt, "le": OpLe,
}

// ParseOperator reconoce un token del vocabulario externo (incluidos los alias cortos).
func ParseOperator(token string) (Operator, bool) {
	op, ok := operatorVocabulary[strings.ToLower(strings.TrimSpace(token))]
	return op, ok
}

func (op Operator) takesList() bool { return op == OpIn || op == OpNotIn }

func (op Operator) ignoresValue() bool { return op == OpIsNull || op == OpNotNull }

// predicate traduce el operador a su primitiva de comparación.
func (op Operator) predicate(column string, value any) sq.Sqlizer {
	value = sqlValue(value)
	switch op {
	case OpEq, OpIn:
		return sq.Eq{column: value}
	case OpNe, OpNotIn:
		return sq.NotEq{column: value}
	case OpGt:
		return sq.Gt{column: value}
	case OpGe:
		return sq.GtOrEq{column: value}
	case OpLt:
		return sq.Lt{column: value}
	case OpLe:
		return sq.LtOrEq{column: value}
	case OpLike:
		return PatternPredicate{Column: column, Value: fmt.Sprint(value), Match: MatchContains}
	case OpILike:
		return PatternPredicate{Column: column, Value: fmt.Sprint(value), Match: MatchContains, Fold: true}
	case OpStartsWith:
		return PatternPredicate{Column: column, Value: fmt.Sprint(value), Match: MatchPrefix}
	case OpEndsWith:
		return PatternPredicate{Column: column, Value: fmt.Sprint(value), Match: MatchSuffix}
	case OpIsNull:
		return sq.Eq{column: nil}
	case OpNotNull:
		return sq.NotEq{column: nil}
	default:
		return nil
	}
}

// ---------------- Reglas y cláusulas ----------------

// FilterRule declara que un campo público admite ciertos operadores con un tipo de valor.
type FilterRule struct {
	Field     string
	Operators []Operator
	Type      ValueType
	Nullable  bool // admite null con = y != (IS NULL / IS NOT NULL)
}

func (r FilterRule) allows(op Operator) bool {
	for _, allowed := range r.Operators {
		if allowed == op {
			return true
		}
	}
	return false
}

// FilterClause es un filtro tal como lo envía el cliente.
// Value es nil cuando la clave de valor no viene en el JSON.
type FilterClause struct {
	Field    string          `json:"field"`
	Operator string          `json:"operator,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// UnmarshalJSON acepta las claves largas (field, operator, value) y las cortas (f, o, v).
func (c *FilterClause) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("filter must be an object")
	}

	pick := func(long, short string) (json.RawMessage, bool) {
		if v, ok := obj[long]; ok {
			return v, true
		}
		v, ok := obj[short]
		return v, ok
	}

	var clause FilterClause
	if raw, ok := pick("field", "f"); ok {
		if err := json.Unmarshal(raw, &clause.Field); err != nil {
			return fmt.Errorf("filter field must be a string: %w", err)
		}
	}
	if raw, ok := pick("operator", "o"); ok {
		if err := json.Unmarshal(raw, &clause.Operator); err != nil {
			return fmt.Errorf("filter operator must be a string: %w", err)
		}
	}
	if raw, ok := pick("value", "v"); ok {
		clause.Value = append(json.RawMessage(nil), raw...)
	}
	*c = clause
	return nil
}

// ParseFilterClauses decodifica el array crudo de filtros.
// Cualquier elemento que no sea un objeto de filtro invalida el lote entero.
func ParseFilterClauses(raw []json.RawMessage) ([]FilterClause, error) {
	clauses := make([]FilterClause, 0, len(raw))
	for _, item := range raw {
		var c FilterClause
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, newValidationError("", json.RawMessage(item), msgInvalidFilters)
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}

// ---------------- Compilación ----------------

type parsedClause struct {
	clause   FilterClause
	operator Operator
}

// CompileFiltration valida los filtros del cliente contra las reglas del endpoint y
// devuelve un predicado por cláusula superviviente. El repositorio los combina con AND.
func CompileFiltration(raw []FilterClause, rules []FilterRule, model *Model, aliases AliasMap) ([]sq.Sqlizer, error) {
	// 1. Forma: todo el lote se valida antes de compilar nada.
	parsed := make([]parsedClause, 0, len(raw))
	for _, c := range raw {
		op := OpEq
		if strings.TrimSpace(c.Operator) != "" {
			var ok bool
			if op, ok = ParseOperator(c.Operator); !ok {
				return nil, newValidationError("", c, msgInvalidFilters)
			}
		}
		if strings.TrimSpace(c.Field) == "" || (c.Value == nil && !op.ignoresValue()) {
			return nil, newValidationError("", c, msgInvalidFilters)
		}
		parsed = append(parsed, parsedClause{clause: c, operator: op})
	}

	rulesByField := make(map[string]FilterRule, len(rules))
	for _, r := range rules {
		rulesByField[r.Field] = r
	}

	predicates := make([]sq.Sqlizer, 0, len(parsed))
	for _, p := range parsed {
		// 2. Campo u operador fuera de la lista permitida: se ignora.
		rule, ok := rulesByField[p.clause.Field]
		if !ok || !rule.allows(p.operator) {
			continue
		}

		// 6. Solo columnas escalares reales.
		column := aliases.Resolve(p.clause.Field)
		if !model.IsScalar(column) {
			continue
		}

		// 3-4. Forma del valor según operador y coerción al tipo de la regla.
		value, err := filterValue(p.clause, p.operator, rule)
		if err != nil {
			return nil, err
		}

		// 5. Tabla de operadores.
		if value == nil && !p.operator.ignoresValue() {
			// null explícito en una regla nullable
			if p.operator == OpNe {
				predicates = append(predicates, sq.NotEq{column: nil})
			} else {
				predicates = append(predicates, sq.Eq{column: nil})
			}
			continue
		}
		predicates = append(predicates, p.operator.predicate(column, value))
	}
	return predicates, nil
}

// filterValue aplica las reglas de forma del operador y convierte el valor crudo.
func filterValue(c FilterClause, op Operator, rule FilterRule) (any, error) {
	if op.ignoresValue() {
		return nil, nil
	}

	raw := bytes.TrimSpace(c.Value)
	isList := len(raw) > 0 && raw[0] == '['

	if op.takesList() {
		if !isList {
			return nil, newValidationError(c.Field, c, "Operator '%s' of '%s' filter requires a list value.", op, c.Field)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, newValidationError(c.Field, c, msgFilterValue, c.Field)
		}
		values := make([]any, 0, len(items))
		for _, item := range items {
			v, err := coerceRaw(item, rule.Type)
			if err != nil {
				return nil, newValidationError(c.Field, c, msgFilterValue, c.Field)
			}
			values = append(values, v)
		}
		return values, nil
	}

	if isList || (len(raw) > 0 && raw[0] == '{') {
		return nil, newValidationError(c.Field, c, "Operator '%s' of '%s' filter requires a single value.", op, c.Field)
	}

	if bytes.Equal(raw, []byte("null")) {
		if rule.Nullable && (op == OpEq || op == OpNe) {
			return nil, nil
		}
		return nil, newValidationError(c.Field, c, msgFilterValue, c.Field)
	}

	v, err := coerceRaw(raw, rule.Type)
	if err != nil {
		return nil, newValidationError(c.Field, c, msgFilterValue, c.Field)
	}
	return v, nil
}

func coerceRaw(raw json.RawMessage, t ValueType) (any, error) {
	var v any
	if err := decodeJSON(raw, &v); err != nil {
		return nil, err
	}
	return coerceValue(v, t)
}
