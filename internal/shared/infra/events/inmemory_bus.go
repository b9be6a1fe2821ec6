package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

// Message es lo que recibe un suscriptor del bus en memoria.
type Message struct {
	Key     string
	Payload []byte
}

// InMemoryEventBus es un bus de un solo topic para ejecutar sin Kafka.
// Un suscriptor lento pierde mensajes en lugar de bloquear al publicador.
type InMemoryEventBus struct {
	topic       string
	subscribers []chan Message
	mu          sync.RWMutex
}

var _ sharedBus.EventPublisher = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{topic: topic}
}

func (b *InMemoryEventBus) Topic() string { return b.topic }

// Publish serializa el evento y lo reparte a todos los suscriptores.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := Message{Payload: payload}
	if keyer, ok := event.(sharedBus.Keyer); ok {
		msg.Key = keyer.PartitionKey()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		select {
		case sub <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registra un oyente con un buffer de bufferSize mensajes.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Message, bufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// BackgroundConsumerChan entrega los mensajes del canal al handler hasta que ctx termine.
func BackgroundConsumerChan(ctx context.Context, ch <-chan Message, handler MessageHandler) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler.HandleMessage(ctx, msg.Key, msg.Payload)
			}
		}
	}()
}

// ---------------- Enrutado por topic ----------------

// TopicRouter elige el publicador según el topic del evento.
type TopicRouter struct {
	routes map[string]sharedBus.EventPublisher
}

var _ sharedBus.EventPublisher = (*TopicRouter)(nil)

func NewTopicRouter() *TopicRouter {
	return &TopicRouter{routes: make(map[string]sharedBus.EventPublisher)}
}

// Route asocia un topic a un publicador. Se llama solo durante el arranque.
func (r *TopicRouter) Route(topic string, publisher sharedBus.EventPublisher) *TopicRouter {
	r.routes[topic] = publisher
	return r
}

func (r *TopicRouter) Publish(ctx context.Context, event interface{}) error {
	topicer, ok := event.(sharedBus.Topicer)
	if !ok {
		return fmt.Errorf("event %T has no topic", event)
	}
	publisher, ok := r.routes[topicer.EventTopic()]
	if !ok {
		return fmt.Errorf("no publisher for topic %q", topicer.EventTopic())
	}
	return publisher.Publish(ctx, event)
}
