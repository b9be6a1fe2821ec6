package domain

import (
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

var WishlistModel = sharedQuery.MustModel("wishlists", "id",
	sharedQuery.Column{Name: "id", Type: sharedQuery.UUID},
	sharedQuery.Column{Name: "title", Type: sharedQuery.String},
	sharedQuery.Column{Name: "owner_id", Type: sharedQuery.UUID},
	sharedQuery.Column{Name: "created_at", Type: sharedQuery.Time},
	sharedQuery.Column{Name: "updated_at", Type: sharedQuery.Time},
	sharedQuery.Column{Name: "wishes", Relation: true},
)

var WishlistAliases = sharedQuery.NewAliasMap(
	sharedQuery.SchemaField{Name: "id"},
	sharedQuery.SchemaField{Name: "title"},
	sharedQuery.SchemaField{Name: "owner_id", Alias: "ownerId"},
	sharedQuery.SchemaField{Name: "created_at", Alias: "createdAt"},
	sharedQuery.SchemaField{Name: "updated_at", Alias: "updatedAt"},
)

var WishModel = sharedQuery.MustModel("wishes", "id",
	sharedQuery.Column{Name: "id", Type: sharedQuery.UUID},
	sharedQuery.Column{Name: "wishlist_id", Type: sharedQuery.UUID},
	sharedQuery.Column{Name: "title", Type: sharedQuery.String},
	sharedQuery.Column{Name: "description", Type: sharedQuery.String},
	sharedQuery.Column{Name: "status", Type: sharedQuery.String},
	sharedQuery.Column{Name: "complexity", Type: sharedQuery.String},
	sharedQuery.Column{Name: "priority", Type: sharedQuery.Int},
	sharedQuery.Column{Name: "created_at", Type: sharedQuery.Time},
	sharedQuery.Column{Name: "updated_at", Type: sharedQuery.Time},
	sharedQuery.Column{Name: "wishlist", Relation: true},
)

var WishAliases = sharedQuery.NewAliasMap(
	sharedQuery.SchemaField{Name: "id"},
	sharedQuery.SchemaField{Name: "wishlist_id", Alias: "wishlistId"},
	sharedQuery.SchemaField{Name: "title"},
	sharedQuery.SchemaField{Name: "description"},
	sharedQuery.SchemaField{Name: "status"},
	sharedQuery.SchemaField{Name: "complexity"},
	sharedQuery.SchemaField{Name: "priority"},
	sharedQuery.SchemaField{Name: "created_at", Alias: "createdAt"},
	sharedQuery.SchemaField{Name: "updated_at", Alias: "updatedAt"},
)

// NewWishlistListEndpoint define POST /wishlists/list.
func NewWishlistListEndpoint(defaultLimit int) *sharedQuery.Endpoint {
	return sharedQuery.NewEndpoint(sharedQuery.Endpoint{
		Name:       "wishlists",
		Model:      WishlistModel,
		Aliases:    WishlistAliases,
		Sortable:   []string{"created_at", "title"},
		Searchable: []string{"title"},
		Filters: []sharedQuery.FilterRule{
			{Field: "title", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpLike, sharedQuery.OpILike, sharedQuery.OpStartsWith}, Type: sharedQuery.String},
			{Field: "ownerId", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpIn}, Type: sharedQuery.UUID},
			{Field: "createdAt", Operators: []sharedQuery.Operator{sharedQuery.OpGt, sharedQuery.OpGe, sharedQuery.OpLt, sharedQuery.OpLe}, Type: sharedQuery.Time},
		},
		DefaultLimit: defaultLimit,
	})
}

// NewWishListEndpoint define POST /wishes/list y su variante anidada en una lista.
func NewWishListEndpoint(defaultLimit int) *sharedQuery.Endpoint {
	return sharedQuery.NewEndpoint(sharedQuery.Endpoint{
		Name:       "wishes",
		Model:      WishModel,
		Aliases:    WishAliases,
		Sortable:   []string{"created_at", "title", "priority", "complexity"},
		Searchable: []string{"title", "description"},
		Filters: []sharedQuery.FilterRule{
			{Field: "createdAt", Operators: []sharedQuery.Operator{sharedQuery.OpGt, sharedQuery.OpGe, sharedQuery.OpLt, sharedQuery.OpLe}, Type: sharedQuery.Time},
			{Field: "title", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpNe, sharedQuery.OpLike, sharedQuery.OpILike, sharedQuery.OpStartsWith, sharedQuery.OpEndsWith}, Type: sharedQuery.String},
			{Field: "description", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpLike, sharedQuery.OpILike, sharedQuery.OpIsNull, sharedQuery.OpNotNull}, Type: sharedQuery.String, Nullable: true},
			{Field: "status", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpNe, sharedQuery.OpIn, sharedQuery.OpNotIn}, Type: sharedQuery.String},
			{Field: "priority", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpNe, sharedQuery.OpGt, sharedQuery.OpGe, sharedQuery.OpLt, sharedQuery.OpLe, sharedQuery.OpIn}, Type: sharedQuery.Int},
			{Field: "wishlistId", Operators: []sharedQuery.Operator{sharedQuery.OpEq, sharedQuery.OpIn}, Type: sharedQuery.UUID},
		},
		DefaultLimit: defaultLimit,
	})
}
