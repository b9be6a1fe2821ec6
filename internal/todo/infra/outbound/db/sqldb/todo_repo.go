package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davicafu/wishlab/internal/todo/domain"
	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	"github.com/davicafu/wishlab/shared/platform/persistence"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

var todoColumns = []string{"id", "title", "description", "status", "created_at", "updated_at"}

// TodoRepoSQL implementa domain.TodoRepository sobre Postgres o SQLite.
type TodoRepoSQL struct {
	db      *sqlx.DB
	dialect persistence.Dialect
}

var _ domain.TodoRepository = (*TodoRepoSQL)(nil)

func NewTodoRepoSQL(db *sqlx.DB, d persistence.Dialect) *TodoRepoSQL {
	return &TodoRepoSQL{db: db, dialect: d}
}

// ------------------ Métodos ------------------

func (r *TodoRepoSQL) Create(ctx context.Context, t *domain.Todo, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := r.dialect.Builder().
			Insert("todos").
			Columns(todoColumns...).
			Values(t.ID.String(), t.Title, t.Description, string(t.Status), t.CreatedAt.UTC(), t.UpdatedAt.UTC())
		if err := persistence.ExecOne(ctx, tx, insert); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateError(err)
}

func (r *TodoRepoSQL) Update(ctx context.Context, t *domain.Todo, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		update := r.dialect.Builder().
			Update("todos").
			SetMap(sq.Eq{
				"title":       t.Title,
				"description": t.Description,
				"status":      string(t.Status),
				"updated_at":  t.UpdatedAt.UTC(),
			}).
			Where("id = ?", t.ID.String())
		if err := persistence.ExecOne(ctx, tx, update); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateError(err)
}

func (r *TodoRepoSQL) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		del := r.dialect.Builder().Delete("todos").Where("id = ?", id.String())
		if err := persistence.ExecOne(ctx, tx, del); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateError(err)
}

func (r *TodoRepoSQL) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	sqlStr, args, err := r.dialect.Builder().
		Select(todoColumns...).
		From("todos").
		Where("id = ?", id.String()).
		ToSql()
	if err != nil {
		return nil, err
	}

	var t domain.Todo
	if err := r.db.GetContext(ctx, &t, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo %s: %w", id, err)
	}
	return &t, nil
}

func (r *TodoRepoSQL) List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []domain.Todo, error) {
	return persistence.List[domain.Todo](ctx, r.db, r.dialect, q)
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNoRowsAffected):
		return domain.ErrTodoNotFound
	case persistence.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrTodoAlreadyExists, err)
	default:
		return err
	}
}
