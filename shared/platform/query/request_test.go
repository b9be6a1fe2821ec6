package query

import (
	"encoding/json"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newWishEndpoint() *Endpoint {
	return NewEndpoint(Endpoint{
		Name:       "wishes",
		Model:      wishModel,
		Aliases:    wishAliases,
		Sortable:   []string{"created_at", "title", "priority"},
		Searchable: wishSearchable,
		Filters:    wishFilterRules[:5],
	})
}

func decodeRequest(t *testing.T, body string) ListRequest {
	t.Helper()
	var req ListRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestNewEndpoint_InvalidDefinitionPanics(t *testing.T) {
	tests := []struct {
		name string
		e    Endpoint
	}{
		{"sin modelo", Endpoint{Name: "x"}},
		{"ordenación sobre relación", Endpoint{Name: "x", Model: wishModel, Sortable: []string{"tags"}}},
		{"búsqueda sobre columna inexistente", Endpoint{Name: "x", Model: wishModel, Searchable: []string{"nope"}}},
		{"filtro sobre relación", Endpoint{Name: "x", Model: wishModel, Filters: []FilterRule{{Field: "tags", Operators: []Operator{OpEq}}}}},
		{"ordenación por defecto inexistente", Endpoint{Name: "x", Model: wishModel, DefaultSort: []string{"-nope"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() { NewEndpoint(tt.e) })
		})
	}
}

func TestNewEndpoint_DefaultSortIsAlwaysSortable(t *testing.T) {
	e := newWishEndpoint()

	assert.Equal(t, DefaultSorting, e.DefaultSort)
	assert.Contains(t, e.Sortable, "id")
}

func TestEndpoint_Compile(t *testing.T) {
	e := newWishEndpoint()
	req := decodeRequest(t, `{
		"sorting": ["-priority"],
		"filtration": [{"f": "status", "o": "in", "v": ["CREATED", "IN PROGRESS"]}, {"f": "secret", "v": 1}],
		"searching": {"text": "bici", "fields": ["title"]},
		"projection": {"fields": ["title"], "mode": "INCLUDE"},
		"pagination": {"limit": 5}
	}`)

	q, err := e.Compile(req, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, "wishes", q.Table)
	assert.Equal(t, SortSpec{{Column: "priority", Direction: Desc}, {Column: "id", Direction: Desc}}, q.Sort)
	assert.Len(t, q.Filters, 1)
	assert.Len(t, q.Search, 1)
	assert.Nil(t, q.Resume)
	assert.Equal(t, []string{"id", "title", "priority"}, q.Plan.Columns)
	assert.Equal(t, 5, q.Limit)
}

func TestEndpoint_Compile_EmptyRequest(t *testing.T) {
	q, err := newWishEndpoint().Compile(ListRequest{}, nil)

	require.NoError(t, err)
	assert.Equal(t, SortSpec{{Column: "id", Direction: Desc}}, q.Sort)
	assert.Empty(t, q.Filters)
	assert.Empty(t, q.Search)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, wishModel.ScalarColumns(), q.Plan.Columns)
}

func TestEndpoint_Compile_ClientErrors(t *testing.T) {
	e := newWishEndpoint()

	tests := []struct {
		name string
		body string
	}{
		{"límite fuera de rango", `{"pagination": {"limit": 0}}`},
		{"filtro mal formado", `{"filtration": [5]}`},
		{"valor de filtro inválido", `{"filtration": [{"f": "priority", "o": ">", "v": "alta"}]}`},
		{"idioma no soportado", `{"searching": {"text": "x", "language": "klingon"}}`},
		{"modo de proyección inválido", `{"projection": {"fields": "*", "mode": "ONLY"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Compile(decodeRequest(t, tt.body), zap.NewNop())

			assert.True(t, IsValidationError(err), "got %v", err)
		})
	}
}

func TestEndpoint_Compile_InvalidTokenRestarts(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	token := "esto-no-es-un-cursor"
	req := ListRequest{Pagination: &PaginationSpec{NextToken: &token}}

	q, err := newWishEndpoint().Compile(req, zap.New(core))

	require.NoError(t, err)
	assert.Nil(t, q.Resume)
	assert.Equal(t, 1, logs.FilterMessageSnippet("nextToken ignorado").Len())
}

func TestEndpoint_Compile_TokenFromOtherSortingRestarts(t *testing.T) {
	e := newWishEndpoint()
	core, logs := observer.New(zapcore.WarnLevel)

	first, err := e.Compile(ListRequest{Sorting: []string{"-priority"}}, zap.NewNop())
	require.NoError(t, err)
	token, err := EncodeNextToken(newFakeRow(3), first.Sort, 1, 1)
	require.NoError(t, err)

	req := ListRequest{Sorting: []string{"title"}, Pagination: &PaginationSpec{NextToken: token}}
	q, err := e.Compile(req, zap.New(core))

	require.NoError(t, err)
	assert.Nil(t, q.Resume)
	assert.Equal(t, 1, logs.Len())
}

func TestListQuery_WithScopeCopies(t *testing.T) {
	q, err := newWishEndpoint().Compile(ListRequest{}, nil)
	require.NoError(t, err)

	scoped := q.WithScope(sq.Eq{"wishlist_id": "abc"})

	assert.Empty(t, q.Scope)
	assert.Len(t, scoped.Scope, 1)
}

func TestNewPage(t *testing.T) {
	q, err := newWishEndpoint().Compile(ListRequest{
		Sorting:    []string{"-priority"},
		Projection: &ProjectionSpec{Fields: ProjectionFields{Names: []string{"createdAt"}}},
		Pagination: &PaginationSpec{Limit: intPtr(2)},
	}, nil)
	require.NoError(t, err)

	t.Run("página completa trae cursor", func(t *testing.T) {
		page, err := NewPage(q, 7, []fakeRow{newFakeRow(3), newFakeRow(2)})

		require.NoError(t, err)
		assert.Equal(t, int64(7), page.TotalCount)
		assert.Equal(t, 2, page.Limit)
		require.Len(t, page.Objects, 2)
		assert.ElementsMatch(t, []string{"id", "priority", "createdAt"}, keys(page.Objects[0]))
		assert.NotNil(t, page.NextToken)
	})

	t.Run("página corta no trae cursor", func(t *testing.T) {
		page, err := NewPage(q, 1, []fakeRow{newFakeRow(1)})

		require.NoError(t, err)
		assert.Nil(t, page.NextToken)
	})

	t.Run("sin filas la lista es vacía y no nula", func(t *testing.T) {
		page, err := NewPage[fakeRow](q, 0, nil)

		require.NoError(t, err)
		assert.NotNil(t, page.Objects)
		assert.Empty(t, page.Objects)

		data, err := json.Marshal(page)
		require.NoError(t, err)
		assert.JSONEq(t, `{"objects": [], "limit": 2, "totalCount": 0, "nextToken": null}`, string(data))
	})
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
