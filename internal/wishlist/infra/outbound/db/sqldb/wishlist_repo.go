package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davicafu/wishlab/internal/wishlist/domain"
	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	"github.com/davicafu/wishlab/shared/platform/persistence"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

var (
	wishlistColumns = []string{"id", "title", "owner_id", "created_at", "updated_at"}
	wishColumns     = []string{"id", "wishlist_id", "title", "description", "status", "complexity", "priority", "created_at", "updated_at"}
)

// WishlistRepoSQL implementa domain.WishlistRepository. Los deseos de una
// lista se borran en cascada desde la base de datos.
type WishlistRepoSQL struct {
	db      *sqlx.DB
	dialect persistence.Dialect
}

var _ domain.WishlistRepository = (*WishlistRepoSQL)(nil)

func NewWishlistRepoSQL(db *sqlx.DB, d persistence.Dialect) *WishlistRepoSQL {
	return &WishlistRepoSQL{db: db, dialect: d}
}

// ------------------ Listas ------------------

func (r *WishlistRepoSQL) Create(ctx context.Context, w *domain.WishList, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := r.dialect.Builder().
			Insert("wishlists").
			Columns(wishlistColumns...).
			Values(w.ID.String(), w.Title, w.OwnerID.String(), w.CreatedAt.UTC(), w.UpdatedAt.UTC())
		if err := persistence.ExecOne(ctx, tx, insert); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateListError(err)
}

func (r *WishlistRepoSQL) Update(ctx context.Context, w *domain.WishList, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		update := r.dialect.Builder().
			Update("wishlists").
			SetMap(sq.Eq{"title": w.Title, "updated_at": w.UpdatedAt.UTC()}).
			Where("id = ?", w.ID.String())
		if err := persistence.ExecOne(ctx, tx, update); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateListError(err)
}

func (r *WishlistRepoSQL) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		del := r.dialect.Builder().Delete("wishlists").Where("id = ?", id.String())
		if err := persistence.ExecOne(ctx, tx, del); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateListError(err)
}

func (r *WishlistRepoSQL) GetByID(ctx context.Context, id uuid.UUID) (*domain.WishList, error) {
	var w domain.WishList
	if err := getByID(ctx, r.db, r.dialect, "wishlists", wishlistColumns, id, &w); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWishlistNotFound
		}
		return nil, fmt.Errorf("get wishlist %s: %w", id, err)
	}
	return &w, nil
}

func (r *WishlistRepoSQL) List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []domain.WishList, error) {
	return persistence.List[domain.WishList](ctx, r.db, r.dialect, q)
}

func translateListError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNoRowsAffected):
		return domain.ErrWishlistNotFound
	case persistence.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrOwnerNotFound, err)
	default:
		return err
	}
}

// ------------------ Deseos ------------------

// WishRepoSQL implementa domain.WishRepository.
type WishRepoSQL struct {
	db      *sqlx.DB
	dialect persistence.Dialect
}

var _ domain.WishRepository = (*WishRepoSQL)(nil)

func NewWishRepoSQL(db *sqlx.DB, d persistence.Dialect) *WishRepoSQL {
	return &WishRepoSQL{db: db, dialect: d}
}

func (r *WishRepoSQL) Create(ctx context.Context, w *domain.Wish, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := r.dialect.Builder().
			Insert("wishes").
			Columns(wishColumns...).
			Values(
				w.ID.String(), w.WishlistID.String(), w.Title, w.Description,
				string(w.Status), string(w.Complexity), int(w.Priority), w.CreatedAt.UTC(), w.UpdatedAt.UTC(),
			)
		if err := persistence.ExecOne(ctx, tx, insert); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateWishError(err)
}

func (r *WishRepoSQL) Update(ctx context.Context, w *domain.Wish, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		update := r.dialect.Builder().
			Update("wishes").
			SetMap(sq.Eq{
				"title":       w.Title,
				"description": w.Description,
				"status":      string(w.Status),
				"complexity":  string(w.Complexity),
				"priority":    int(w.Priority),
				"updated_at":  w.UpdatedAt.UTC(),
			}).
			Where("id = ?", w.ID.String())
		if err := persistence.ExecOne(ctx, tx, update); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateWishError(err)
}

func (r *WishRepoSQL) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	err := persistence.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		del := r.dialect.Builder().Delete("wishes").Where("id = ?", id.String())
		if err := persistence.ExecOne(ctx, tx, del); err != nil {
			return err
		}
		return persistence.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
	return translateWishError(err)
}

func (r *WishRepoSQL) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wish, error) {
	var w domain.Wish
	if err := getByID(ctx, r.db, r.dialect, "wishes", wishColumns, id, &w); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWishNotFound
		}
		return nil, fmt.Errorf("get wish %s: %w", id, err)
	}
	return &w, nil
}

func (r *WishRepoSQL) List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []domain.Wish, error) {
	return persistence.List[domain.Wish](ctx, r.db, r.dialect, q)
}

func translateWishError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNoRowsAffected):
		return domain.ErrWishNotFound
	case persistence.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrWishlistNotFound, err)
	default:
		return err
	}
}

// ------------------ Helpers ------------------

func getByID(ctx context.Context, db *sqlx.DB, d persistence.Dialect, table string, columns []string, id uuid.UUID, dest any) error {
	sqlStr, args, err := d.Builder().
		Select(columns...).
		From(table).
		Where("id = ?", id.String()).
		ToSql()
	if err != nil {
		return err
	}
	return db.GetContext(ctx, dest, sqlStr, args...)
}
