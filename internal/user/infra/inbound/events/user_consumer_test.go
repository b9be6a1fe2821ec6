package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	userDomain "github.com/davicafu/wishlab/internal/user/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
)

type fakeInvalidator struct {
	ids []uuid.UUID
	err error
}

func (f *fakeInvalidator) InvalidateUser(ctx context.Context, id uuid.UUID) error {
	f.ids = append(f.ids, id)
	return f.err
}

func encode(t *testing.T, eventType string, data interface{}) []byte {
	t.Helper()
	evt, err := sharedEvents.NewIntegrationEvent(eventType, userDomain.UserTopic, "", data)
	require.NoError(t, err)
	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	return payload
}

func TestUserConsumer_HandleMessage(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		payload func(t *testing.T) []byte
		want    []uuid.UUID
	}{
		{"actualización invalida", func(t *testing.T) []byte {
			return encode(t, userDomain.UserUpdated, sharedEvents.UserUpdated{ID: id, Email: "a@example.com"})
		}, []uuid.UUID{id}},
		{"borrado invalida", func(t *testing.T) []byte {
			return encode(t, userDomain.UserDeleted, sharedEvents.UserDeleted{ID: id})
		}, []uuid.UUID{id}},
		{"alta no invalida", func(t *testing.T) []byte {
			return encode(t, userDomain.UserCreated, sharedEvents.UserCreated{ID: id})
		}, nil},
		{"tipo desconocido", func(t *testing.T) []byte {
			return encode(t, "user.merged", map[string]string{"id": id.String()})
		}, nil},
		{"payload ilegible", func(t *testing.T) []byte { return []byte("not-json") }, nil},
		{"data incompatible", func(t *testing.T) []byte {
			return encode(t, userDomain.UserDeleted, map[string]int{"id": 7})
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			inv := &fakeInvalidator{}
			consumer := NewUserConsumer(inv, zap.NewNop())

			// Act
			consumer.HandleMessage(context.Background(), id.String(), tt.payload(t))

			// Assert
			assert.Equal(t, tt.want, inv.ids)
		})
	}
}

func TestUserConsumer_InvalidationFailureIsLogged(t *testing.T) {
	inv := &fakeInvalidator{err: errors.New("redis caído")}
	consumer := NewUserConsumer(inv, zap.NewNop())

	assert.NotPanics(t, func() {
		consumer.HandleMessage(context.Background(), "", encode(t, userDomain.UserDeleted, sharedEvents.UserDeleted{ID: uuid.New()}))
	})
	assert.Len(t, inv.ids, 1)
}
