package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

// Worker reenvía al bus los eventos que las escrituras dejan en la outbox.
type Worker struct {
	repo      sharedDomain.OutboxRepository
	publisher sharedBus.EventPublisher
	registry  map[string]sharedEvents.EventMetadata
	interval  time.Duration
	batchSize int
	log       *zap.Logger
}

// BatchStats resume una pasada del relayer.
type BatchStats struct {
	Fetched   int
	Published int
	Skipped   int // eventos no publicables: tipo desconocido o payload corrupto
	Deferred  int // pendientes tras un fallo previo del mismo agregado
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventPublisher,
	registry map[string]sharedEvents.EventMetadata,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Worker {
	return &Worker{
		repo:      repo,
		publisher: publisher,
		registry:  registry,
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}
}

// Start drena la outbox una vez y luego hace polling cada interval.
// Bloquea hasta que ctx termine.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("🚀 Relayer de outbox iniciado",
		zap.Duration("interval", w.interval),
		zap.Int("batch_size", w.batchSize),
	)
	w.ProcessBatch(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Relayer de outbox detenido")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch publica un lote de pendientes. Los eventos de un mismo agregado
// salen en orden: si uno falla, los siguientes de ese agregado esperan al
// próximo ciclo.
func (w *Worker) ProcessBatch(ctx context.Context) BatchStats {
	var stats BatchStats

	pending, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("⚠️ Error al leer la outbox", zap.Error(err))
		return stats
	}
	stats.Fetched = len(pending)

	blocked := make(map[string]bool)
	for _, evt := range pending {
		key := evt.AggregateType + "/" + evt.AggregateID
		if blocked[key] {
			stats.Deferred++
			continue
		}

		integration, err := w.integrationEvent(evt)
		if err != nil {
			w.log.Error("Evento de outbox no publicable",
				zap.String("event_id", evt.ID.String()),
				zap.String("event_type", evt.EventType),
				zap.Error(err),
			)
			stats.Skipped++
			blocked[key] = true
			continue
		}

		if err := w.publisher.Publish(ctx, integration); err != nil {
			w.log.Warn("⚠️ No se pudo publicar, se reintenta en el siguiente ciclo",
				zap.String("event_id", evt.ID.String()),
				zap.String("topic", integration.Topic),
				zap.Error(err),
			)
			blocked[key] = true
			continue
		}

		if err := w.repo.MarkOutboxProcessed(ctx, evt.ID); err != nil {
			// Publicado pero no marcado: saldrá otra vez (entrega al menos una vez).
			w.log.Warn("⚠️ Evento publicado sin marcar", zap.String("event_id", evt.ID.String()), zap.Error(err))
			blocked[key] = true
			continue
		}
		stats.Published++
	}

	if stats.Fetched > 0 {
		w.log.Debug("📬 Lote de outbox procesado",
			zap.Int("fetched", stats.Fetched),
			zap.Int("published", stats.Published),
			zap.Int("skipped", stats.Skipped),
			zap.Int("deferred", stats.Deferred),
		)
	}
	return stats
}

// integrationEvent reconstruye el contrato registrado a partir del payload
// genérico guardado en la outbox.
func (w *Worker) integrationEvent(evt sharedDomain.OutboxEvent) (*sharedEvents.IntegrationEvent, error) {
	meta, ok := w.registry[evt.EventType]
	if !ok {
		return nil, fmt.Errorf("event type %q not registered", evt.EventType)
	}

	raw, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	payload := reflect.New(meta.Type).Interface()
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("decode payload as %s: %w", meta.Type, err)
	}

	return sharedEvents.NewIntegrationEvent(evt.EventType, meta.Topic, evt.AggregateID, payload)
}
