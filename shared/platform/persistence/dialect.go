package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	// _ "github.com/mattn/go-sqlite3" // mejor rendimiento pero requiere gcc
	_ "modernc.org/sqlite"
)

// Dialect describe lo que cambia entre motores: placeholders, opciones de transacción
// de lectura y si entiende ILIKE y tsvector.
type Dialect struct {
	Name           string
	DriverName     string
	Placeholder    sq.PlaceholderFormat
	ReadTx         *sql.TxOptions
	PostgresSyntax bool
}

var (
	Postgres = Dialect{
		Name:           "postgres",
		DriverName:     "pgx",
		Placeholder:    sq.Dollar,
		ReadTx:         &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
		PostgresSyntax: true,
	}

	// SQLite solo admite serializable y no distingue transacciones de solo lectura.
	SQLite = Dialect{
		Name:        "sqlite",
		DriverName:  "sqlite",
		Placeholder: sq.Question,
	}
)

// DialectFor devuelve el dialecto de un DB_DRIVER.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx", "":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Builder devuelve un constructor de sentencias con el placeholder del dialecto.
func (d Dialect) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// Open abre el pool y comprueba la conexión.
func Open(ctx context.Context, d Dialect, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}

	if d.Name == SQLite.Name {
		// Un único escritor evita SQLITE_BUSY entre conexiones del pool.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}
	return db, nil
}

// SQLiteDSN añade los pragmas que usa la aplicación a una ruta de fichero.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
