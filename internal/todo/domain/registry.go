package domain

import (
	"reflect"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
)

const (
	TodoCreatedEvent = "todo.created"
	TodoUpdatedEvent = "todo.updated"
	TodoDeletedEvent = "todo.deleted"
)

const (
	TodoTopic         = "todo"
	TodoAggregateType = "todo"
)

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		TodoCreatedEvent: {Type: reflect.TypeOf(sharedEvents.TodoCreated{}), Topic: TodoTopic},
		TodoUpdatedEvent: {Type: reflect.TypeOf(sharedEvents.TodoUpdated{}), Topic: TodoTopic},
		TodoDeletedEvent: {Type: reflect.TypeOf(sharedEvents.TodoDeleted{}), Topic: TodoTopic},
	}
}

// ---------------- Eventos de outbox ----------------

func NewTodoCreatedEvent(t *Todo) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(TodoAggregateType, t.ID, TodoCreatedEvent, sharedEvents.TodoCreated{
		ID: t.ID, Title: t.Title, Description: t.Description, Status: string(t.Status), CreatedAt: t.CreatedAt,
	})
}

func NewTodoUpdatedEvent(t *Todo) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(TodoAggregateType, t.ID, TodoUpdatedEvent, sharedEvents.TodoUpdated{
		ID: t.ID, Title: t.Title, Description: t.Description, Status: string(t.Status), CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	})
}

func NewTodoDeletedEvent(id uuid.UUID) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(TodoAggregateType, id, TodoDeletedEvent, sharedEvents.TodoDeleted{ID: id})
}
