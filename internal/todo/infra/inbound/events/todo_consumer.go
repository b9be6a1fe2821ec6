package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	todoDomain "github.com/davicafu/wishlab/internal/todo/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
	sharedUtils "github.com/davicafu/wishlab/shared/utils"
)

// TodoAnalyticsConsumer traduce los eventos de todos a filas del histórico
// analítico y las envía por lotes.
type TodoAnalyticsConsumer struct {
	analytics todoDomain.TodoAnalyticsRepository
	batchSize int
	log       *zap.Logger

	mu  sync.Mutex
	buf []todoDomain.TodoLogEntry
}

func NewTodoAnalyticsConsumer(analytics todoDomain.TodoAnalyticsRepository, batchSize int, logger *zap.Logger) *TodoAnalyticsConsumer {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &TodoAnalyticsConsumer{
		analytics: analytics,
		batchSize: batchSize,
		log:       logger,
	}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *TodoAnalyticsConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event for todo", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case todoDomain.TodoCreatedEvent:
		sharedUtils.UnmarshalAndHandle(c.log, base.Type, base.Data, func(evt sharedEvents.TodoCreated) {
			c.add(ctx, todoDomain.TodoLogEntry{
				ID: evt.ID, Title: evt.Title, Status: todoDomain.TodoStatus(evt.Status), EventType: base.Type,
				CreatedAt: evt.CreatedAt, UpdatedAt: evt.CreatedAt, EventTime: base.Timestamp,
			})
		})
	case todoDomain.TodoUpdatedEvent:
		sharedUtils.UnmarshalAndHandle(c.log, base.Type, base.Data, func(evt sharedEvents.TodoUpdated) {
			c.add(ctx, todoDomain.TodoLogEntry{
				ID: evt.ID, Title: evt.Title, Status: todoDomain.TodoStatus(evt.Status), EventType: base.Type,
				CreatedAt: evt.CreatedAt, UpdatedAt: evt.UpdatedAt, EventTime: base.Timestamp,
			})
		})
	case todoDomain.TodoDeletedEvent:
		sharedUtils.UnmarshalAndHandle(c.log, base.Type, base.Data, func(evt sharedEvents.TodoDeleted) {
			c.add(ctx, todoDomain.TodoLogEntry{
				ID: evt.ID, EventType: base.Type, CreatedAt: base.Timestamp, UpdatedAt: base.Timestamp, EventTime: base.Timestamp,
			})
		})
	default:
		c.log.Warn("Unknown todo event type", zap.String("type", base.Type), zap.String("key", key))
	}
}

func (c *TodoAnalyticsConsumer) add(ctx context.Context, entry todoDomain.TodoLogEntry) {
	c.mu.Lock()
	c.buf = append(c.buf, entry)
	full := len(c.buf) >= c.batchSize
	c.mu.Unlock()

	if full {
		c.Flush(ctx)
	}
}

// Flush envía lo acumulado. Si ClickHouse falla el lote se conserva para el
// siguiente intento.
func (c *TodoAnalyticsConsumer) Flush(ctx context.Context) {
	c.mu.Lock()
	batch := c.buf
	c.buf = nil
	c.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.analytics.LogBatch(flushCtx, batch); err != nil {
		c.log.Warn("⚠️ Failed to log todo analytics batch", zap.Int("size", len(batch)), zap.Error(err))
		c.mu.Lock()
		c.buf = append(batch, c.buf...)
		c.mu.Unlock()
		return
	}
	c.log.Debug("Todo analytics batch logged", zap.Int("size", len(batch)))
}

// Start vacía el búfer periódicamente hasta que se cancela el contexto.
func (c *TodoAnalyticsConsumer) Start(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				c.Flush(context.Background())
				c.log.Info("🛑 Todo analytics consumer stopped")
				return
			case <-ticker.C:
				c.Flush(ctx)
			}
		}
	}()
}

// Pending devuelve cuántas filas esperan a ser enviadas.
func (c *TodoAnalyticsConsumer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}
