package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/wishlab/internal/mocks"
	todoDomain "github.com/davicafu/wishlab/internal/todo/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
)

func encode(t *testing.T, eventType string, data interface{}) []byte {
	t.Helper()
	evt, err := sharedEvents.NewIntegrationEvent(eventType, todoDomain.TodoTopic, "", data)
	require.NoError(t, err)
	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	return payload
}

func TestTodoAnalyticsConsumer_BatchesEntries(t *testing.T) {
	// Arrange
	analytics := new(mocks.MockTodoAnalytics)
	consumer := NewTodoAnalyticsConsumer(analytics, 2, zap.NewNop())
	id := uuid.New()
	created := time.Now().UTC().Add(-time.Hour)

	var logged []todoDomain.TodoLogEntry
	analytics.On("LogBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { logged = args.Get(1).([]todoDomain.TodoLogEntry) }).
		Return(nil).Once()

	// Act
	consumer.HandleMessage(context.Background(), "", encode(t, todoDomain.TodoCreatedEvent,
		sharedEvents.TodoCreated{ID: id, Title: "Comprar pan", Status: "CREATED", CreatedAt: created}))
	assert.Equal(t, 1, consumer.Pending())
	consumer.HandleMessage(context.Background(), "", encode(t, todoDomain.TodoUpdatedEvent,
		sharedEvents.TodoUpdated{ID: id, Title: "Comprar pan", Status: "COMPLETED", CreatedAt: created, UpdatedAt: created.Add(time.Minute)}))

	// Assert
	analytics.AssertExpectations(t)
	require.Len(t, logged, 2)
	assert.Equal(t, todoDomain.TodoCreatedEvent, logged[0].EventType)
	assert.Equal(t, todoDomain.TodoCompleted, logged[1].Status)
	assert.False(t, logged[1].EventTime.IsZero())
	assert.Zero(t, consumer.Pending())
}

func TestTodoAnalyticsConsumer_FailedBatchIsKept(t *testing.T) {
	analytics := new(mocks.MockTodoAnalytics)
	consumer := NewTodoAnalyticsConsumer(analytics, 1, zap.NewNop())
	analytics.On("LogBatch", mock.Anything, mock.Anything).Return(errors.New("clickhouse caído")).Once()

	consumer.HandleMessage(context.Background(), "", encode(t, todoDomain.TodoDeletedEvent, sharedEvents.TodoDeleted{ID: uuid.New()}))

	assert.Equal(t, 1, consumer.Pending())

	analytics.On("LogBatch", mock.Anything, mock.Anything).Return(nil).Once()
	consumer.Flush(context.Background())
	assert.Zero(t, consumer.Pending())
	analytics.AssertExpectations(t)
}

func TestTodoAnalyticsConsumer_IgnoresBadMessages(t *testing.T) {
	analytics := new(mocks.MockTodoAnalytics)
	consumer := NewTodoAnalyticsConsumer(analytics, 1, zap.NewNop())

	consumer.HandleMessage(context.Background(), "k", []byte("not-json"))
	consumer.HandleMessage(context.Background(), "k", encode(t, "todo.merged", map[string]string{}))
	consumer.HandleMessage(context.Background(), "k", encode(t, todoDomain.TodoDeletedEvent, map[string]int{"id": 7}))

	assert.Zero(t, consumer.Pending())
	analytics.AssertNotCalled(t, "LogBatch", mock.Anything, mock.Anything)
}

func TestTodoAnalyticsConsumer_StartFlushesOnStop(t *testing.T) {
	analytics := new(mocks.MockTodoAnalytics)
	consumer := NewTodoAnalyticsConsumer(analytics, 100, zap.NewNop())
	done := make(chan struct{})
	analytics.On("LogBatch", mock.Anything, mock.Anything).Run(func(mock.Arguments) { close(done) }).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	consumer.Start(ctx, time.Hour)
	consumer.HandleMessage(ctx, "", encode(t, todoDomain.TodoDeletedEvent, sharedEvents.TodoDeleted{ID: uuid.New()}))
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el búfer no se vació al parar")
	}
}
