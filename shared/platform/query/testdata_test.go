package query

import (
	"time"

	"github.com/google/uuid"
)

// wishModel es el registro de columnas usado por los tests del paquete.
var wishModel = MustModel("wishes", "id",
	Column{Name: "id", Type: UUID},
	Column{Name: "title", Type: String},
	Column{Name: "description", Type: String},
	Column{Name: "status", Type: String},
	Column{Name: "priority", Type: Int},
	Column{Name: "wishlist_id", Type: UUID},
	Column{Name: "created_at", Type: Time},
	Column{Name: "updated_at", Type: Time},
	Column{Name: "tags", Relation: true},
)

var wishAliases = NewAliasMap(
	SchemaField{Name: "id"},
	SchemaField{Name: "title"},
	SchemaField{Name: "description"},
	SchemaField{Name: "status"},
	SchemaField{Name: "priority"},
	SchemaField{Name: "wishlist_id", Alias: "wishlistId"},
	SchemaField{Name: "created_at", Alias: "createdAt"},
	SchemaField{Name: "updated_at", Alias: "updatedAt"},
	SchemaField{Name: "tags"},
)

// fakeRow es una fila en memoria.
type fakeRow map[string]any

func (r fakeRow) ColumnValue(column string) (any, bool) {
	v, ok := r[column]
	return v, ok
}

func newFakeRow(priority int64) fakeRow {
	return fakeRow{
		"id":         uuid.New(),
		"title":      "deseo",
		"priority":   priority,
		"created_at": time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC),
	}
}
