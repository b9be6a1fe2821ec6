package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

var (
	ErrTodoNotFound       = errors.New("todo not found")
	ErrTodoAlreadyExists  = errors.New("todo already exists")
	ErrInvalidTodo        = errors.New("invalid todo")
	ErrAnalyticsDisabled  = errors.New("todo analytics not configured")
	ErrInvalidTrendWindow = errors.New("invalid trend window")
)

// --- Repositorio de Todos ---
type TodoRepository interface {
	// Debe devolver ErrTodoAlreadyExists si el título ya está en uso.
	Create(ctx context.Context, t *Todo, evt sharedDomain.OutboxEvent) error
	Update(ctx context.Context, t *Todo, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Todo, error)
	DeleteByID(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error
	List(ctx context.Context, q *sharedQuery.ListQuery) (int64, []Todo, error)
}

// TodoLogEntry es una fila del histórico analítico: un evento sobre un todo.
type TodoLogEntry struct {
	ID        uuid.UUID
	Title     string
	Status    TodoStatus
	EventType string
	CreatedAt time.Time
	UpdatedAt time.Time
	EventTime time.Time
}

// DailyTodoTrend agrega altas y finalizaciones por día.
type DailyTodoTrend struct {
	Day            time.Time `json:"day"`
	CreatedCount   int       `json:"created"`
	CompletedCount int       `json:"completed"`
}

type TodoAnalyticsRepository interface {
	LogBatch(ctx context.Context, entries []TodoLogEntry) error
	GetAverageCompletionTime(ctx context.Context, start, end time.Time) (time.Duration, error)
	GetDailyTrend(ctx context.Context, start, end time.Time) ([]DailyTodoTrend, error)
}

// TodoSink recibe los todos exportados, página a página.
type TodoSink interface {
	Write(ctx context.Context, todos []Todo) error
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func TodoCacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("todo:id:%s", id.String())
}
