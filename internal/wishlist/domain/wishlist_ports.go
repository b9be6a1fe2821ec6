package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// ---------- Errores de dominio ----------
var (
	ErrWishlistNotFound = errors.New("wishlist not found")
	ErrWishNotFound     = errors.New("wish not found")
	ErrOwnerNotFound    = errors.New("wishlist owner not found")
	ErrInvalidWishlist  = errors.New("invalid wishlist")
	ErrInvalidWish      = errors.New("invalid wish")
)

// ---------- Interfaces (Ports) ----------

type WishlistRepository interface {
	// Debe devolver ErrOwnerNotFound si el usuario propietario no existe.
	Create(ctx context.Context, w *WishList, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*WishList, error)
	Update(ctx context.Context, w *WishList, evt sharedDomain.OutboxEvent) error
	// Borra también sus deseos.
	DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error
	List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []WishList, error)
}

type WishRepository interface {
	// Debe devolver ErrWishlistNotFound si la lista no existe.
	Create(ctx context.Context, w *Wish, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Wish, error)
	Update(ctx context.Context, w *Wish, evt sharedDomain.OutboxEvent) error
	DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error
	List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []Wish, error)
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func WishlistCacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("wishlist:id:%s", id.String())
}

func WishCacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("wish:id:%s", id.String())
}
