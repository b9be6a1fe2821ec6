package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userDomain "github.com/davicafu/wishlab/internal/user/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
	sharedUtils "github.com/davicafu/wishlab/shared/utils"
)

// UserCacheInvalidator es lo único que el consumidor necesita del servicio.
type UserCacheInvalidator interface {
	InvalidateUser(ctx context.Context, id uuid.UUID) error
}

// UserConsumer mantiene la caché coherente entre instancias: cualquier cambio
// publicado sobre un usuario descarta su copia cacheada.
type UserConsumer struct {
	service UserCacheInvalidator
	log     *zap.Logger
}

func NewUserConsumer(service UserCacheInvalidator, logger *zap.Logger) *UserConsumer {
	return &UserConsumer{
		service: service,
		log:     logger,
	}
}

func (c *UserConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case userDomain.UserCreated:
		// Nada que invalidar: el alta ya cachea la entidad.
	case userDomain.UserUpdated:
		sharedUtils.UnmarshalAndHandle(c.log, base.Type, base.Data, func(evt sharedEvents.UserUpdated) {
			c.invalidate(ctx, evt.ID, base.Type)
		})
	case userDomain.UserDeleted:
		sharedUtils.UnmarshalAndHandle(c.log, base.Type, base.Data, func(evt sharedEvents.UserDeleted) {
			c.invalidate(ctx, evt.ID, base.Type)
		})
	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type), zap.String("key", key))
	}
}

func (c *UserConsumer) invalidate(ctx context.Context, id uuid.UUID, eventType string) {
	ctxUser, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if err := c.service.InvalidateUser(ctxUser, id); err != nil {
		c.log.Warn("Failed to invalidate cached user",
			zap.String("user_id", id.String()),
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}
	c.log.Debug("Cached user invalidated", zap.String("user_id", id.String()), zap.String("type", eventType))
}
