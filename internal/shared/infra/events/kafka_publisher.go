package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

// KafkaPublisher escribe cada evento en el topic que declara el propio evento
// (sharedBus.Topicer); si no declara ninguno se usa defaultTopic.
type KafkaPublisher struct {
	writer       *kafka.Writer
	defaultTopic string
	log          *zap.Logger
}

// NewKafkaWriter crea un writer sin topic fijo: el topic va en cada mensaje.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

func NewKafkaPublisher(writer *kafka.Writer, defaultTopic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, defaultTopic: defaultTopic, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	msg, err := p.message(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka", zap.String("topic", msg.Topic), zap.Error(err))
		return err
	}

	p.log.Debug("Event published successfully", zap.String("topic", msg.Topic), zap.ByteString("key", msg.Key))
	return nil
}

// message traduce el evento a un mensaje de Kafka: JSON, clave de partición y topic.
func (p *KafkaPublisher) message(event interface{}) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	msg := kafka.Message{Topic: p.defaultTopic, Value: data}
	if keyer, ok := event.(sharedBus.Keyer); ok {
		msg.Key = []byte(keyer.PartitionKey())
	}
	if topicer, ok := event.(sharedBus.Topicer); ok && topicer.EventTopic() != "" {
		msg.Topic = topicer.EventTopic()
	}
	return msg, nil
}

// Close vacía los mensajes pendientes del writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Verificación estática
var _ sharedBus.EventPublisher = (*KafkaPublisher)(nil)
