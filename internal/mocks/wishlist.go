package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	wishlistDomain "github.com/davicafu/wishlab/internal/wishlist/domain"
	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// InMemoryWishlistRepo simula listas y deseos sobre un mismo almacén,
// igual que las dos tablas relacionadas de la base de datos.
type InMemoryWishlistRepo struct {
	Lists     map[uuid.UUID]wishlistDomain.WishList
	Wishes    map[uuid.UUID]wishlistDomain.Wish
	Outbox    []sharedDomain.OutboxEvent
	Owners    map[uuid.UUID]bool // si no es nil, solo estos propietarios existen
	LastQuery *sharedQuery.ListQuery
	mu        sync.Mutex
}

func NewInMemoryWishlistRepo() *InMemoryWishlistRepo {
	return &InMemoryWishlistRepo{
		Lists:  make(map[uuid.UUID]wishlistDomain.WishList),
		Wishes: make(map[uuid.UUID]wishlistDomain.Wish),
	}
}

// WishlistRepo devuelve la vista de listas.
func (r *InMemoryWishlistRepo) WishlistRepo() wishlistDomain.WishlistRepository {
	return inMemoryLists{r}
}

// WishRepo devuelve la vista de deseos.
func (r *InMemoryWishlistRepo) WishRepo() wishlistDomain.WishRepository {
	return inMemoryWishes{r}
}

type inMemoryLists struct{ *InMemoryWishlistRepo }

func (r inMemoryLists) Create(ctx context.Context, w *wishlistDomain.WishList, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Owners != nil && !r.Owners[w.OwnerID] {
		return wishlistDomain.ErrOwnerNotFound
	}
	r.Lists[w.ID] = *w
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r inMemoryLists) GetByID(ctx context.Context, id uuid.UUID) (*wishlistDomain.WishList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.Lists[id]
	if !ok {
		return nil, wishlistDomain.ErrWishlistNotFound
	}
	return &w, nil
}

func (r inMemoryLists) Update(ctx context.Context, w *wishlistDomain.WishList, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Lists[w.ID]; !ok {
		return wishlistDomain.ErrWishlistNotFound
	}
	r.Lists[w.ID] = *w
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r inMemoryLists) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Lists[id]; !ok {
		return wishlistDomain.ErrWishlistNotFound
	}
	delete(r.Lists, id)
	for wid, w := range r.Wishes {
		if w.WishlistID == id {
			delete(r.Wishes, wid)
		}
	}
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r inMemoryLists) List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []wishlistDomain.WishList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastQuery = q

	out := make([]wishlistDomain.WishList, 0, len(r.Lists))
	for _, w := range r.Lists {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() > out[j].ID.String() })
	return int64(len(out)), capAt(out, q.Limit), nil
}

type inMemoryWishes struct{ *InMemoryWishlistRepo }

func (r inMemoryWishes) Create(ctx context.Context, w *wishlistDomain.Wish, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Lists[w.WishlistID]; !ok {
		return wishlistDomain.ErrWishlistNotFound
	}
	r.Wishes[w.ID] = *w
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r inMemoryWishes) GetByID(ctx context.Context, id uuid.UUID) (*wishlistDomain.Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.Wishes[id]
	if !ok {
		return nil, wishlistDomain.ErrWishNotFound
	}
	return &w, nil
}

func (r inMemoryWishes) Update(ctx context.Context, w *wishlistDomain.Wish, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Wishes[w.ID]; !ok {
		return wishlistDomain.ErrWishNotFound
	}
	r.Wishes[w.ID] = *w
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r inMemoryWishes) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Wishes[id]; !ok {
		return wishlistDomain.ErrWishNotFound
	}
	delete(r.Wishes, id)
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r inMemoryWishes) List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []wishlistDomain.Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastQuery = q

	out := make([]wishlistDomain.Wish, 0, len(r.Wishes))
	for _, w := range r.Wishes {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() > out[j].ID.String() })
	return int64(len(out)), capAt(out, q.Limit), nil
}

func capAt[T any](rows []T, limit int) []T {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
