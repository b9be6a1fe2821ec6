package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	userDomain "github.com/davicafu/wishlab/internal/user/domain"
	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// InMemoryUserRepo simula UserRepository con outbox incluido.
// List no evalúa predicados: devuelve todo ordenado por id descendente y recuerda la consulta.
type InMemoryUserRepo struct {
	Users     map[uuid.UUID]userDomain.User
	Outbox    []sharedDomain.OutboxEvent
	LastQuery *sharedQuery.ListQuery
	Err       error // si no es nil, lo devuelven todas las operaciones
	mu        sync.Mutex
}

var _ userDomain.UserRepository = (*InMemoryUserRepo)(nil)

func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{Users: make(map[uuid.UUID]userDomain.User)}
}

func (r *InMemoryUserRepo) emailTaken(u *userDomain.User) bool {
	for id, other := range r.Users {
		if id != u.ID && other.Email == u.Email {
			return true
		}
	}
	return false
}

func (r *InMemoryUserRepo) Create(ctx context.Context, u *userDomain.User, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Users[u.ID]; ok || r.emailTaken(u) {
		return userDomain.ErrUserAlreadyExists
	}
	r.Users[u.ID] = *u
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.Users[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return &u, nil
}

func (r *InMemoryUserRepo) Update(ctx context.Context, u *userDomain.User, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Users[u.ID]; !ok {
		return userDomain.ErrUserNotFound
	}
	if r.emailTaken(u) {
		return userDomain.ErrUserAlreadyExists
	}
	r.Users[u.ID] = *u
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryUserRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Users[id]; !ok {
		return userDomain.ErrUserNotFound
	}
	delete(r.Users, id)
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryUserRepo) List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastQuery = q
	if r.Err != nil {
		return 0, nil, r.Err
	}

	list := make([]userDomain.User, 0, len(r.Users))
	for _, u := range r.Users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID.String() > list[j].ID.String() })
	total := int64(len(list))
	if len(list) > q.Limit {
		list = list[:q.Limit]
	}
	return total, list, nil
}
