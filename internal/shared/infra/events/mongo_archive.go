package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedEvents "github.com/davicafu/wishlab/shared/events"
	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

// MongoEventArchive guarda una copia de cada evento publicado para auditoría.
type MongoEventArchive struct {
	coll *mongo.Collection
}

var _ sharedBus.EventPublisher = (*MongoEventArchive)(nil)

// NewMongoClient conecta y comprueba el servidor.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func NewMongoEventArchive(client *mongo.Client, dbName string) *MongoEventArchive {
	return &MongoEventArchive{coll: client.Database(dbName).Collection("events")}
}

// archivedEvent es el documento BSON de un evento archivado.
type archivedEvent struct {
	ID         string      `bson:"_id"`
	Type       string      `bson:"type"`
	Topic      string      `bson:"topic"`
	Key        string      `bson:"key"`
	Timestamp  time.Time   `bson:"timestamp"`
	Data       interface{} `bson:"data"`
	ArchivedAt time.Time   `bson:"archivedAt"`
}

// toArchivedEvent convierte el evento en documento; Data se decodifica para que sea consultable.
func toArchivedEvent(event interface{}) (archivedEvent, error) {
	doc := archivedEvent{ID: uuid.NewString(), ArchivedAt: time.Now().UTC()}

	ie, ok := event.(*sharedEvents.IntegrationEvent)
	if !ok {
		raw, err := json.Marshal(event)
		if err != nil {
			return doc, err
		}
		ie = &sharedEvents.IntegrationEvent{Type: fmt.Sprintf("%T", event), Timestamp: doc.ArchivedAt, Data: raw}
	}

	var data map[string]interface{}
	if len(ie.Data) > 0 {
		if err := json.Unmarshal(ie.Data, &data); err != nil {
			return doc, fmt.Errorf("archive %s: %w", ie.Type, err)
		}
	}

	doc.Type = ie.Type
	doc.Topic = ie.Topic
	doc.Key = ie.Key
	doc.Timestamp = ie.Timestamp
	doc.Data = data
	return doc, nil
}

func (a *MongoEventArchive) Publish(ctx context.Context, event interface{}) error {
	doc, err := toArchivedEvent(event)
	if err != nil {
		return err
	}
	_, err = a.coll.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes crea los índices de consulta por clave y por tipo.
func (a *MongoEventArchive) EnsureIndexes(ctx context.Context) error {
	_, err := a.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	return err
}
