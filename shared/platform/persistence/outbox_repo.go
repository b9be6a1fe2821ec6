package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	sharedDomain "github.com/davicafu/wishlab/shared/domain"
)

// ------------------ Helper DRY para insertar en outbox ------------------

// InsertOutboxTx escribe el evento dentro de la transacción del cambio de estado.
func InsertOutboxTx(ctx context.Context, tx *sqlx.Tx, d Dialect, evt sharedDomain.OutboxEvent) error {
	payloadBytes, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	sqlStr, args, err := d.Builder().
		Insert("outbox").
		Columns("id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at", "processed").
		Values(evt.ID.String(), evt.AggregateType, evt.AggregateID, evt.EventType, string(payloadBytes), evt.CreatedAt.UTC(), false).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// ------------------ Repositorio ------------------

type outboxRow struct {
	ID            string    `db:"id"`
	AggregateType string    `db:"aggregate_type"`
	AggregateID   string    `db:"aggregate_id"`
	EventType     string    `db:"event_type"`
	Payload       []byte    `db:"payload"`
	CreatedAt     time.Time `db:"created_at"`
}

// OutboxRepoSQL implementa sharedDomain.OutboxRepository para Postgres y SQLite.
type OutboxRepoSQL struct {
	db      *sqlx.DB
	dialect Dialect
}

func NewOutboxRepoSQL(db *sqlx.DB, d Dialect) *OutboxRepoSQL {
	return &OutboxRepoSQL{db: db, dialect: d}
}

// FetchPendingOutbox devuelve los eventos no procesados, del más antiguo al más nuevo.
func (r *OutboxRepoSQL) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	sqlStr, args, err := r.dialect.Builder().
		Select("id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at").
		From("outbox").
		Where(sq.Eq{"processed": false}).
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []outboxRow
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	events := make([]sharedDomain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in outbox row: %w", err)
		}

		var payload map[string]interface{}
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid JSON payload in outbox row %s: %w", id, err)
		}

		events = append(events, sharedDomain.OutboxEvent{
			ID:            id,
			AggregateType: row.AggregateType,
			AggregateID:   row.AggregateID,
			EventType:     row.EventType,
			Payload:       payload,
			CreatedAt:     row.CreatedAt,
		})
	}
	return events, nil
}

// MarkOutboxProcessed marca un evento como publicado.
func (r *OutboxRepoSQL) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	sqlStr, args, err := r.dialect.Builder().
		Update("outbox").
		Set("processed", true).
		Where("id = ?", id.String()).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event %s as processed: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get RowsAffected for outbox event %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("no outbox event found with id %s", id)
	}
	return nil
}

// Verificación en tiempo de compilación.
var _ sharedDomain.OutboxRepository = (*OutboxRepoSQL)(nil)
