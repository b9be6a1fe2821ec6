package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/wishlab/shared/platform/query"
)

// newSQLiteDB crea una base de datos temporal con las migraciones reales aplicadas.
func newSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := Open(context.Background(), SQLite, SQLiteDSN(filepath.Join(t.TempDir(), "wishlab.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db, SQLite, MigrateUp))
	return db
}

type testWish struct {
	ID          uuid.UUID `db:"id"`
	WishlistID  uuid.UUID `db:"wishlist_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Status      string    `db:"status"`
	Complexity  string    `db:"complexity"`
	Priority    int64     `db:"priority"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (w testWish) ColumnValue(column string) (any, bool) {
	switch column {
	case "id":
		return w.ID, true
	case "wishlist_id":
		return w.WishlistID, true
	case "title":
		return w.Title, true
	case "description":
		return w.Description, true
	case "status":
		return w.Status, true
	case "complexity":
		return w.Complexity, true
	case "priority":
		return w.Priority, true
	case "created_at":
		return w.CreatedAt, true
	case "updated_at":
		return w.UpdatedAt, true
	}
	return nil, false
}

var testWishEndpoint = query.NewEndpoint(query.Endpoint{
	Name: "wishes",
	Model: query.MustModel("wishes", "id",
		query.Column{Name: "id", Type: query.UUID},
		query.Column{Name: "wishlist_id", Type: query.UUID},
		query.Column{Name: "title", Type: query.String},
		query.Column{Name: "description", Type: query.String},
		query.Column{Name: "status", Type: query.String},
		query.Column{Name: "complexity", Type: query.String},
		query.Column{Name: "priority", Type: query.Int},
		query.Column{Name: "created_at", Type: query.Time},
		query.Column{Name: "updated_at", Type: query.Time},
	),
	Aliases: query.NewAliasMap(
		query.SchemaField{Name: "wishlist_id", Alias: "wishlistId"},
		query.SchemaField{Name: "created_at", Alias: "createdAt"},
		query.SchemaField{Name: "updated_at", Alias: "updatedAt"},
	),
	Sortable:   []string{"created_at", "title", "priority"},
	Searchable: []string{"title", "description"},
	Filters: []query.FilterRule{
		{Field: "title", Operators: []query.Operator{query.OpLike, query.OpILike, query.OpStartsWith, query.OpEndsWith}, Type: query.String},
		{Field: "priority", Operators: []query.Operator{query.OpEq, query.OpGe, query.OpLe, query.OpIn, query.OpNotIn}, Type: query.Int},
		{Field: "status", Operators: []query.Operator{query.OpEq, query.OpIn}, Type: query.String},
		{Field: "description", Operators: []query.Operator{query.OpIsNull, query.OpNotNull}, Type: query.String, Nullable: true},
	},
})

// seedWishes crea un usuario, una lista y n deseos con prioridad 1..3 rotatoria.
func seedWishes(t *testing.T, db *sqlx.DB, n int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	userID := uuid.New()
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, email, first_name, last_name, status, created_at, updated_at) VALUES (?,?,?,?,?,?,?)`,
		userID.String(), userID.String()+"@example.com", "Ana", "García", "CONFIRMED", now, now)
	require.NoError(t, err)

	listID := uuid.New()
	_, err = db.ExecContext(ctx,
		`INSERT INTO wishlists (id, title, owner_id, created_at, updated_at) VALUES (?,?,?,?,?)`,
		listID.String(), "Cumpleaños", userID.String(), now, now)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		var description interface{}
		if i%2 == 0 {
			description = fmt.Sprintf("descripción %d", i)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO wishes (id, wishlist_id, title, description, status, complexity, priority, created_at, updated_at)
			 VALUES (?,?,?,?,?,?,?,?,?)`,
			uuid.NewString(), listID.String(), fmt.Sprintf("Deseo %02d", i), description,
			"CREATED", "NORMAL", i%3+1, now.Add(time.Duration(i)*time.Second), now)
		require.NoError(t, err)
	}
	return listID
}
