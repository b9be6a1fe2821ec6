package events

import (
	"encoding/json"
	"reflect"
	"time"
)

// IntegrationEvent es el sobre de todos los eventos de integración.
// Key y Topic solo sirven al enrutado y no viajan en el cuerpo.
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento

	Key   string `json:"-"`
	Topic string `json:"-"`
}

// NewIntegrationEvent serializa data dentro del sobre.
func NewIntegrationEvent(eventType, topic, key string, data interface{}) (*IntegrationEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &IntegrationEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      raw,
		Key:       key,
		Topic:     topic,
	}, nil
}

// PartitionKey implementa bus.Keyer.
func (e *IntegrationEvent) PartitionKey() string { return e.Key }

// EventTopic implementa bus.Topicer.
func (e *IntegrationEvent) EventTopic() string { return e.Topic }

// EventMetadata asocia un tipo de evento con su payload y su topic.
type EventMetadata struct {
	Type  reflect.Type
	Topic string
}
