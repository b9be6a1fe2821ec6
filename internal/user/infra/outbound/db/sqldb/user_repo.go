package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davicafu/wishlab/internal/user/domain"
	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	"github.com/davicafu/wishlab/shared/platform/persistence"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

var userColumns = []string{"id", "email", "first_name", "last_name", "status", "created_at", "updated_at"}

// UserRepoSQL implementa domain.UserRepository sobre Postgres o SQLite.
type UserRepoSQL struct {
	db      *sqlx.DB
	dialect persistence.Dialect
}

var _ domain.UserRepository = (*UserRepoSQL)(nil)

func NewUserRepoSQL(db *sqlx.DB, d persistence.Dialect) *UserRepoSQL {
	return &UserRepoSQL{db: db, dialect: d}
}

// ------------------ Métodos ------------------

// Create inserta usuario y evento en transacción
func (r *UserRepoSQL) Create(ctx context.Context, u *domain.User, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := r.dialect.Builder().
			Insert("users").
			Columns(userColumns...).
			Values(u.ID.String(), u.Email, u.FirstName, u.LastName, string(u.Status), u.CreatedAt.UTC(), u.UpdatedAt.UTC())
		if err := persistence.ExecOne(ctx, tx, insert); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateError(err)
}

// Update actualiza usuario y crea evento Outbox en transacción
func (r *UserRepoSQL) Update(ctx context.Context, u *domain.User, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		update := r.dialect.Builder().
			Update("users").
			SetMap(sq.Eq{
				"email":      u.Email,
				"first_name": u.FirstName,
				"last_name":  u.LastName,
				"status":     string(u.Status),
				"updated_at": u.UpdatedAt.UTC(),
			}).
			Where("id = ?", u.ID.String())
		if err := persistence.ExecOne(ctx, tx, update); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateError(err)
}

// DeleteByID elimina usuario y crea evento Outbox en transacción
func (r *UserRepoSQL) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		del := r.dialect.Builder().Delete("users").Where("id = ?", id.String())
		if err := persistence.ExecOne(ctx, tx, del); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateError(err)
}

func (r *UserRepoSQL) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	sqlStr, args, err := r.dialect.Builder().
		Select(userColumns...).
		From("users").
		Where("id = ?", id.String()).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u domain.User
	if err := r.db.GetContext(ctx, &u, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepoSQL) List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []domain.User, error) {
	return persistence.List[domain.User](ctx, r.db, r.dialect, q)
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNoRowsAffected):
		return domain.ErrUserNotFound
	case persistence.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrUserAlreadyExists, err)
	default:
		return err
	}
}
