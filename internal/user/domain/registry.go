package domain

import (
	"reflect"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
)

const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

const (
	UserTopic         = "user"
	UserAggregateType = "user"
)

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		UserCreated: {Type: reflect.TypeOf(sharedEvents.UserCreated{}), Topic: UserTopic},
		UserUpdated: {Type: reflect.TypeOf(sharedEvents.UserUpdated{}), Topic: UserTopic},
		UserDeleted: {Type: reflect.TypeOf(sharedEvents.UserDeleted{}), Topic: UserTopic},
	}
}

// ---------------- Eventos de outbox ----------------

func NewUserCreatedEvent(u *User) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(UserAggregateType, u.ID, UserCreated, sharedEvents.UserCreated{
		ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Status: string(u.Status),
	})
}

func NewUserUpdatedEvent(u *User) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(UserAggregateType, u.ID, UserUpdated, sharedEvents.UserUpdated{
		ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Status: string(u.Status),
	})
}

func NewUserDeletedEvent(id uuid.UUID) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(UserAggregateType, id, UserDeleted, sharedEvents.UserDeleted{ID: id})
}
