package domain

import (
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

var TodoModel = sharedQuery.MustModel("todos", "id",
	sharedQuery.Column{Name: "id", Type: sharedQuery.UUID},
	sharedQuery.Column{Name: "title", Type: sharedQuery.String},
	sharedQuery.Column{Name: "description", Type: sharedQuery.String},
	sharedQuery.Column{Name: "status", Type: sharedQuery.String},
	sharedQuery.Column{Name: "created_at", Type: sharedQuery.Time},
	sharedQuery.Column{Name: "updated_at", Type: sharedQuery.Time},
)

var TodoAliases = sharedQuery.NewAliasMap(
	sharedQuery.SchemaField{Name: "id"},
	sharedQuery.SchemaField{Name: "title"},
	sharedQuery.SchemaField{Name: "description"},
	sharedQuery.SchemaField{Name: "status"},
	sharedQuery.SchemaField{Name: "created_at", Alias: "createdAt"},
	sharedQuery.SchemaField{Name: "updated_at", Alias: "updatedAt"},
)

func NewTodoListEndpoint(defaultLimit int) *sharedQuery.Endpoint {
	return sharedQuery.NewEndpoint(sharedQuery.Endpoint{
		Name:       "todos",
		Model:      TodoModel,
		Aliases:    TodoAliases,
		Sortable:   []string{"created_at", "title"},
		Searchable: []string{"title", "description"},
		Filters: []sharedQuery.FilterRule{
			{Field: "title", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpLike, sharedQuery.OpILike, sharedQuery.OpStartsWith}, Type: sharedQuery.String},
			{Field: "description", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpLike, sharedQuery.OpIsNull, sharedQuery.OpNotNull}, Type: sharedQuery.String, Nullable: true},
			{Field: "status", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpNe, sharedQuery.OpIn, sharedQuery.OpNotIn}, Type: sharedQuery.String},
			{Field: "createdAt", Operators: []sharedQuery.Operator{sharedQuery.OpGt, sharedQuery.OpGe, sharedQuery.OpLt, sharedQuery.OpLe}, Type: sharedQuery.Time},
		},
		DefaultLimit: defaultLimit,
	})
}
