package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	todoDomain "github.com/davicafu/wishlab/internal/todo/domain"
	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// InMemoryTodoRepo simula TodoRepository con título único, como la tabla real.
type InMemoryTodoRepo struct {
	Todos     map[uuid.UUID]todoDomain.Todo
	Outbox    []sharedDomain.OutboxEvent
	LastQuery *sharedQuery.ListQuery
	mu        sync.Mutex
}

var _ todoDomain.TodoRepository = (*InMemoryTodoRepo)(nil)

func NewInMemoryTodoRepo() *InMemoryTodoRepo {
	return &InMemoryTodoRepo{Todos: make(map[uuid.UUID]todoDomain.Todo)}
}

func (r *InMemoryTodoRepo) titleTaken(t *todoDomain.Todo) bool {
	for id, other := range r.Todos {
		if id != t.ID && other.Title == t.Title {
			return true
		}
	}
	return false
}

func (r *InMemoryTodoRepo) Create(ctx context.Context, t *todoDomain.Todo, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.titleTaken(t) {
		return todoDomain.ErrTodoAlreadyExists
	}
	r.Todos[t.ID] = *t
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryTodoRepo) Update(ctx context.Context, t *todoDomain.Todo, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Todos[t.ID]; !ok {
		return todoDomain.ErrTodoNotFound
	}
	if r.titleTaken(t) {
		return todoDomain.ErrTodoAlreadyExists
	}
	r.Todos[t.ID] = *t
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (*todoDomain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.Todos[id]
	if !ok {
		return nil, todoDomain.ErrTodoNotFound
	}
	return &t, nil
}

func (r *InMemoryTodoRepo) DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Todos[id]; !ok {
		return todoDomain.ErrTodoNotFound
	}
	delete(r.Todos, id)
	r.Outbox = append(r.Outbox, evt)
	return nil
}

// List no evalúa predicados ni cursor.
func (r *InMemoryTodoRepo) List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []todoDomain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastQuery = q

	out := make([]todoDomain.Todo, 0, len(r.Todos))
	for _, t := range r.Todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() > out[j].ID.String() })
	return int64(len(out)), capAt(out, q.Limit), nil
}

// MockTodoAnalytics simula el almacén analítico.
type MockTodoAnalytics struct {
	mock.Mock
}

var _ todoDomain.TodoAnalyticsRepository = (*MockTodoAnalytics)(nil)

func (m *MockTodoAnalytics) LogBatch(ctx context.Context, entries []todoDomain.TodoLogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockTodoAnalytics) GetAverageCompletionTime(ctx context.Context, start, end time.Time) (time.Duration, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockTodoAnalytics) GetDailyTrend(ctx context.Context, start, end time.Time) ([]todoDomain.DailyTodoTrend, error) {
	args := m.Called(ctx, start, end)
	trend, _ := args.Get(0).([]todoDomain.DailyTodoTrend)
	return trend, args.Error(1)
}
