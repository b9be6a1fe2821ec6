package events

import (
	"context"

	"go.uber.org/zap"

	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

// FanOutPublisher publica en un destino principal y replica en secundarios.
// Solo el principal decide el resultado: un fallo secundario se registra y no se reintenta.
type FanOutPublisher struct {
	primary     sharedBus.EventPublisher
	secondaries []sharedBus.EventPublisher
	log         *zap.Logger
}

var _ sharedBus.EventPublisher = (*FanOutPublisher)(nil)

func NewFanOutPublisher(log *zap.Logger, primary sharedBus.EventPublisher, secondaries ...sharedBus.EventPublisher) *FanOutPublisher {
	return &FanOutPublisher{primary: primary, secondaries: secondaries, log: log}
}

func (f *FanOutPublisher) Publish(ctx context.Context, event interface{}) error {
	if err := f.primary.Publish(ctx, event); err != nil {
		return err
	}
	for _, s := range f.secondaries {
		if err := s.Publish(ctx, event); err != nil {
			f.log.Warn("⚠️ Réplica secundaria del evento fallida", zap.Error(err))
		}
	}
	return nil
}
