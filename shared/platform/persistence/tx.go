package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNoRowsAffected indica que una escritura por clave no encontró la fila.
var ErrNoRowsAffected = errors.New("no rows affected")

// WithTx ejecuta fn dentro de una transacción de escritura; cualquier error la deshace.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ExecOne ejecuta una sentencia que debe afectar exactamente a una fila.
func ExecOne(ctx context.Context, tx *sqlx.Tx, stmt sq.Sqlizer) error {
	sqlStr, args, err := stmt.ToSql()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// IsUniqueViolation reconoce la violación de una restricción UNIQUE en ambos motores.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return isConstraint(liteErr, "UNIQUE") || isConstraint(liteErr, "PRIMARY KEY")
	}
	return false
}

// IsForeignKeyViolation reconoce la violación de una clave foránea en ambos motores.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return isConstraint(liteErr, "FOREIGN KEY")
	}
	return false
}

// isConstraint acepta el código primario o el extendido de SQLite.
func isConstraint(err *sqlite.Error, kind string) bool {
	return err.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), kind+" constraint failed")
}
