package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/wishlab/internal/todo/domain"
	sharedCache "github.com/davicafu/wishlab/shared/platform/cache"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// TodoService define los casos de uso de Todo. analytics puede ser nil si
// ClickHouse no está configurado.
type TodoService struct {
	repo      domain.TodoRepository
	analytics domain.TodoAnalyticsRepository
	cache     sharedCache.Cache
	cacheTTL  time.Duration
	list      *sharedQuery.Endpoint
	log       *zap.Logger
}

func NewTodoService(repo domain.TodoRepository, analytics domain.TodoAnalyticsRepository, cache sharedCache.Cache, cacheTTL time.Duration, listDefaultLimit int, log *zap.Logger) *TodoService {
	return &TodoService{
		repo:      repo,
		analytics: analytics,
		cache:     cache,
		cacheTTL:  cacheTTL,
		list:      domain.NewTodoListEndpoint(listDefaultLimit),
		log:       log,
	}
}

// CreateTodo crea el todo, su evento de outbox y actualiza la caché.
func (s *TodoService) CreateTodo(ctx context.Context, title string, description *string) (*domain.Todo, error) {
	todo, err := domain.NewTodo(title, description)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, todo, domain.NewTodoCreatedEvent(todo)); err != nil {
		if !errors.Is(err, domain.ErrTodoAlreadyExists) {
			s.log.Error("Failed to create todo", zap.Error(err))
		}
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, domain.TodoCacheKeyByID(todo.ID), todo, s.cacheTTL, s.log)
	return todo, nil
}

func (s *TodoService) UpdateTodo(ctx context.Context, id uuid.UUID, changes domain.TodoChanges) (*domain.Todo, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := todo.Apply(changes); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, todo, domain.NewTodoUpdatedEvent(todo)); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, domain.TodoCacheKeyByID(todo.ID), todo, s.cacheTTL, s.log)
	return todo, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteByID(ctx, id, domain.NewTodoDeletedEvent(id)); err != nil {
		return err
	}

	sharedCache.AsyncCacheDelete(s.cache, domain.TodoCacheKeyByID(id), s.log)
	return nil
}

// GetTodo usa cache-aside con reintentos.
func (s *TodoService) GetTodo(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	todo, err := sharedCache.GetOrLoad(ctx, s.cache, domain.TodoCacheKeyByID(id), s.cacheTTL, s.log,
		func(err error) bool { return errors.Is(err, domain.ErrTodoNotFound) },
		func(ctx context.Context) (*domain.Todo, error) { return s.repo.GetByID(ctx, id) },
	)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			s.log.Debug("Todo not found", zap.String("todo_id", id.String()))
		} else {
			s.log.Error("Failed to fetch todo", zap.String("todo_id", id.String()), zap.Error(err))
		}
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) ListTodos(ctx context.Context, req sharedQuery.ListRequest) (sharedQuery.Page, error) {
	q, err := s.list.Compile(req, s.log)
	if err != nil {
		return sharedQuery.Page{}, err
	}

	total, todos, err := s.repo.List(ctx, q)
	if err != nil {
		return sharedQuery.Page{}, err
	}
	return sharedQuery.NewPage(q, total, todos)
}

// ---------------- Analítica ----------------

// TodoTrend es la respuesta de GET /todos/stats/trend.
type TodoTrend struct {
	From              time.Time               `json:"from"`
	To                time.Time               `json:"to"`
	Days              []domain.DailyTodoTrend `json:"days"`
	AverageCompletion string                  `json:"averageCompletion"`
}

func (s *TodoService) Trend(ctx context.Context, from, to time.Time) (*TodoTrend, error) {
	if s.analytics == nil {
		return nil, domain.ErrAnalyticsDisabled
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", domain.ErrInvalidTrendWindow)
	}

	days, err := s.analytics.GetDailyTrend(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily trend: %w", err)
	}
	avg, err := s.analytics.GetAverageCompletionTime(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("average completion: %w", err)
	}

	if days == nil {
		days = []domain.DailyTodoTrend{}
	}
	return &TodoTrend{From: from, To: to, Days: days, AverageCompletion: avg.String()}, nil
}

// ---------------- Exportación ----------------

// ExportTodos recorre todas las páginas con el cursor y las entrega al sink.
// status vacío exporta todos los estados. Devuelve cuántos todos se escribieron.
func (s *TodoService) ExportTodos(ctx context.Context, sink domain.TodoSink, status domain.TodoStatus, pageSize int) (int, error) {
	req := sharedQuery.ListRequest{Pagination: &sharedQuery.PaginationSpec{Limit: &pageSize}}
	if status != "" {
		clause, err := json.Marshal(map[string]string{"f": "status", "o": "=", "v": string(status)})
		if err != nil {
			return 0, err
		}
		req.Filtration = []json.RawMessage{clause}
	}

	written := 0
	for {
		q, err := s.list.Compile(req, s.log)
		if err != nil {
			return written, err
		}
		_, todos, err := s.repo.List(ctx, q)
		if err != nil {
			return written, err
		}
		if len(todos) > 0 {
			if err := sink.Write(ctx, todos); err != nil {
				return written, fmt.Errorf("write page: %w", err)
			}
			written += len(todos)
		}

		var last sharedQuery.Row
		if len(todos) > 0 {
			last = todos[len(todos)-1]
		}
		next, err := sharedQuery.EncodeNextToken(last, q.Sort, len(todos), q.Limit)
		if err != nil {
			return written, err
		}
		if next == nil {
			s.log.Info("✅ Todos exported", zap.Int("count", written))
			return written, nil
		}
		req.Pagination.NextToken = next
	}
}
