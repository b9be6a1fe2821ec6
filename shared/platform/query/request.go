package query

import (
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// ---------------- Petición ----------------

// ListRequest es el cuerpo de cualquier endpoint de listado.
type ListRequest struct {
	Sorting    []string          `json:"sorting"`
	Filtration []json.RawMessage `json:"filtration"`
	Searching  *SearchSpec       `json:"searching"`
	Projection *ProjectionSpec   `json:"projection"`
	Pagination *PaginationSpec   `json:"pagination"`
}

// ---------------- Endpoint ----------------

// Endpoint agrupa el registro de columnas y las listas permitidas de un listado.
// Se construye una vez al arrancar y es de solo lectura.
type Endpoint struct {
	Name         string
	Model        *Model
	Aliases      AliasMap
	DefaultSort  []string
	Sortable     []string // columnas canónicas
	Searchable   []string // columnas canónicas
	Filters      []FilterRule
	DefaultLimit int
}

// NewEndpoint valida la definición. Una definición inválida es un error de programación.
// Las columnas de la ordenación por defecto quedan siempre permitidas para ordenar,
// de modo que el desempate nunca se descarta.
func NewEndpoint(e Endpoint) *Endpoint {
	if e.Model == nil {
		panic(fmt.Sprintf("endpoint %s: nil model", e.Name))
	}
	if len(e.DefaultSort) == 0 {
		e.DefaultSort = DefaultSorting
	}

	sortable := append([]string(nil), e.Sortable...)
	for _, token := range e.DefaultSort {
		name, _ := parseSortToken(token)
		column := e.Aliases.Resolve(name)
		if !e.Model.IsScalar(column) {
			panic(fmt.Sprintf("endpoint %s: default sort column %q is not a scalar column", e.Name, column))
		}
		sortable = append(sortable, column)
	}
	for _, column := range sortable {
		if !e.Model.IsScalar(column) {
			panic(fmt.Sprintf("endpoint %s: sortable column %q is not a scalar column", e.Name, column))
		}
	}
	for _, column := range e.Searchable {
		if !e.Model.IsScalar(column) {
			panic(fmt.Sprintf("endpoint %s: searchable column %q is not a scalar column", e.Name, column))
		}
	}
	for _, rule := range e.Filters {
		if !e.Model.IsScalar(e.Aliases.Resolve(rule.Field)) {
			panic(fmt.Sprintf("endpoint %s: filter field %q is not a scalar column", e.Name, rule.Field))
		}
	}
	e.Sortable = sortable
	return &e
}

// ---------------- Consulta compilada ----------------

// ListQuery es el resultado inmutable de compilar una petición de listado.
type ListQuery struct {
	Table   string
	Sort    SortSpec
	Filters []sq.Sqlizer
	Search  []sq.Sqlizer
	Scope   []sq.Sqlizer
	Resume  sq.Sqlizer
	Plan    ColumnPlan
	Limit   int
	Aliases AliasMap
}

// WithScope devuelve una copia con predicados de servidor adicionales (p. ej. el padre de un recurso anidado).
func (q *ListQuery) WithScope(preds ...sq.Sqlizer) *ListQuery {
	cp := *q
	cp.Scope = append(append([]sq.Sqlizer(nil), q.Scope...), preds...)
	return &cp
}

// Compile ejecuta el pipeline completo: ordenación, filtros, búsqueda, proyección y paginación.
// Toda la validación ocurre aquí, antes de tocar la base de datos.
func (e *Endpoint) Compile(req ListRequest, log *zap.Logger) (*ListQuery, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sort := CompileSorting(req.Sorting, e.Model, e.Sortable, e.Aliases, e.DefaultSort)

	clauses, err := ParseFilterClauses(req.Filtration)
	if err != nil {
		return nil, err
	}
	filters, err := CompileFiltration(clauses, e.Filters, e.Model, e.Aliases)
	if err != nil {
		return nil, err
	}

	search, err := CompileSearching(req.Searching, e.Model, e.Searchable, e.Aliases)
	if err != nil {
		return nil, err
	}

	plan, err := CompileProjection(req.Projection, sort, e.Model, e.Aliases)
	if err != nil {
		return nil, err
	}

	var (
		limitReq *int
		token    string
	)
	if req.Pagination != nil {
		limitReq = req.Pagination.Limit
		if req.Pagination.NextToken != nil {
			token = *req.Pagination.NextToken
		}
	}
	limit, err := CompileLimit(limitReq, e.DefaultLimit)
	if err != nil {
		return nil, err
	}

	resume, err := ResumePredicate(token, sort, e.Model)
	if err != nil {
		log.Warn("⚠️ nextToken ignorado, se empieza desde el principio",
			zap.String("endpoint", e.Name),
			zap.Error(err),
		)
		resume = nil
	}

	for _, token := range req.Sorting {
		name, _ := parseSortToken(token)
		if !sort.Contains(e.Aliases.Resolve(name)) {
			log.Debug("Término de ordenación descartado", zap.String("endpoint", e.Name), zap.String("token", token))
		}
	}
	if len(clauses) != len(filters) {
		log.Debug("Filtros descartados por la lista permitida",
			zap.String("endpoint", e.Name),
			zap.Int("requested", len(clauses)),
			zap.Int("applied", len(filters)),
		)
	}

	return &ListQuery{
		Table:   e.Model.Table,
		Sort:    sort,
		Filters: filters,
		Search:  search,
		Resume:  resume,
		Plan:    plan,
		Limit:   limit,
		Aliases: e.Aliases,
	}, nil
}

// ---------------- Resultado ----------------

// Page es la respuesta paginada de un listado.
type Page struct {
	Objects    []map[string]any `json:"objects"`
	Limit      int              `json:"limit"`
	TotalCount int64            `json:"totalCount"`
	NextToken  *string          `json:"nextToken"`
}

// NewPage proyecta las filas y genera el siguiente cursor.
func NewPage[T Row](q *ListQuery, total int64, rows []T) (Page, error) {
	objects := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		objects = append(objects, Project(r, q.Plan, q.Aliases))
	}

	var last Row
	if len(rows) > 0 {
		last = rows[len(rows)-1]
	}
	next, err := EncodeNextToken(last, q.Sort, len(rows), q.Limit)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Objects:    objects,
		Limit:      q.Limit,
		TotalCount: total,
		NextToken:  next,
	}, nil
}
