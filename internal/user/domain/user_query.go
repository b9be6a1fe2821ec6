package domain

import (
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// UserModel es el registro cerrado de columnas de la tabla users.
var UserModel = sharedQuery.MustModel("users", "id",
	sharedQuery.Column{Name: "id", Type: sharedQuery.UUID},
	sharedQuery.Column{Name: "email", Type: sharedQuery.String},
	sharedQuery.Column{Name: "first_name", Type: sharedQuery.String},
	sharedQuery.Column{Name: "last_name", Type: sharedQuery.String},
	sharedQuery.Column{Name: "status", Type: sharedQuery.String},
	sharedQuery.Column{Name: "created_at", Type: sharedQuery.Time},
	sharedQuery.Column{Name: "updated_at", Type: sharedQuery.Time},
	sharedQuery.Column{Name: "wishlists", Relation: true},
)

var UserAliases = sharedQuery.NewAliasMap(
	sharedQuery.SchemaField{Name: "id"},
	sharedQuery.SchemaField{Name: "email"},
	sharedQuery.SchemaField{Name: "first_name", Alias: "firstName"},
	sharedQuery.SchemaField{Name: "last_name", Alias: "lastName"},
	sharedQuery.SchemaField{Name: "status"},
	sharedQuery.SchemaField{Name: "created_at", Alias: "createdAt"},
	sharedQuery.SchemaField{Name: "updated_at", Alias: "updatedAt"},
)

// NewUserListEndpoint define qué puede ordenar, filtrar y buscar POST /users/list.
func NewUserListEndpoint(defaultLimit int) *sharedQuery.Endpoint {
	return sharedQuery.NewEndpoint(sharedQuery.Endpoint{
		Name:       "users",
		Model:      UserModel,
		Aliases:    UserAliases,
		Sortable:   []string{"created_at", "email", "last_name"},
		Searchable: []string{"first_name", "last_name", "email"},
		Filters: []sharedQuery.FilterRule{
			{Field: "email", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpLike, sharedQuery.OpILike, sharedQuery.OpEndsWith}, Type: sharedQuery.String},
			{Field: "status", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpNe, sharedQuery.OpIn, sharedQuery.OpNotIn}, Type: sharedQuery.String},
			{Field: "createdAt", Operators: []sharedQuery.Operator{sharedQuery.OpGt, sharedQuery.OpGe, sharedQuery.OpLt, sharedQuery.OpLe}, Type: sharedQuery.Time},
		},
		DefaultLimit: defaultLimit,
	})
}
