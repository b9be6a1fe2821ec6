package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/davicafu/wishlab/shared/platform/query"
)

// List ejecuta el conteo y la página de un listado compilado dentro de una misma
// transacción de lectura. T debe tener etiquetas `db` para las columnas del plan.
func List[T any](ctx context.Context, db *sqlx.DB, d Dialect, q *query.ListQuery) (int64, []T, error) {
	where := whereClause(d, q)

	count := d.Builder().Select("COUNT(*)").From(q.Table)
	page := d.Builder().Select(q.Plan.Columns...).From(q.Table)
	if len(where) > 0 {
		count = count.Where(where)
		page = page.Where(where)
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return 0, nil, fmt.Errorf("build count: %w", err)
	}

	if q.Resume != nil {
		page = page.Where(q.Resume)
	}
	pageSQL, pageArgs, err := page.
		OrderBy(q.Sort.OrderBy()...).
		Limit(uint64(q.Limit)).
		ToSql()
	if err != nil {
		return 0, nil, fmt.Errorf("build page: %w", err)
	}

	tx, err := db.BeginTxx(ctx, d.ReadTx)
	if err != nil {
		return 0, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int64
	if err := tx.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return 0, nil, fmt.Errorf("count %s: %w", q.Table, err)
	}

	rows := make([]T, 0, q.Limit)
	if err := tx.SelectContext(ctx, &rows, pageSQL, pageArgs...); err != nil {
		return 0, nil, fmt.Errorf("select %s: %w", q.Table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("commit: %w", err)
	}
	return total, rows, nil
}

// whereClause combina alcance y filtros con AND y la búsqueda con OR. En motores
// sin la sintaxis de Postgres los predicados portables usan su forma alternativa.
func whereClause(d Dialect, q *query.ListQuery) sq.And {
	where := make(sq.And, 0, len(q.Scope)+len(q.Filters)+1)
	where = append(where, q.Scope...)
	for _, p := range q.Filters {
		where = append(where, d.render(p))
	}

	if len(q.Search) > 0 {
		search := make(sq.Or, 0, len(q.Search))
		for _, p := range q.Search {
			search = append(search, d.render(p))
		}
		where = append(where, search)
	}
	return where
}

func (d Dialect) render(p sq.Sqlizer) sq.Sqlizer {
	if portable, ok := p.(query.Portable); ok && !d.PostgresSyntax {
		return portable.Fallback()
	}
	return p
}
