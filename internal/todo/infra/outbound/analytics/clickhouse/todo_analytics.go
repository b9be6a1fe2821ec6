package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	todoDomain "github.com/davicafu/wishlab/internal/todo/domain"
)

// TodoAnalyticsRepo guarda el histórico de eventos de todos en ClickHouse.
type TodoAnalyticsRepo struct {
	db *sql.DB
}

var _ todoDomain.TodoAnalyticsRepository = (*TodoAnalyticsRepo)(nil)

func NewTodoAnalyticsRepo(ctx context.Context, addr, dbName string) (*TodoAnalyticsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
	})

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}
	return &TodoAnalyticsRepo{db: conn}, nil
}

// InitSchema crea la tabla si no existe. Particionada por mes y ordenada
// por los campos que filtran las consultas de tendencia.
func (r *TodoAnalyticsRepo) InitSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS todos_log (
			id          UUID,
			title       String,
			status      String,
			event_type  LowCardinality(String),
			created_at  DateTime64(3),
			updated_at  DateTime64(3),
			event_time  DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(event_time)
		ORDER BY (event_type, status, event_time)
	`)
	return err
}

// LogBatch inserta el lote en una única transacción: ClickHouse rinde mejor con lotes.
func (r *TodoAnalyticsRepo) LogBatch(ctx context.Context, entries []todoDomain.TodoLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO todos_log (id, title, status, event_type, created_at, updated_at, event_time)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.ID,
			e.Title,
			string(e.Status),
			e.EventType,
			e.CreatedAt,
			e.UpdatedAt,
			e.EventTime,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for todo %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (r *TodoAnalyticsRepo) GetDailyTrend(ctx context.Context, start, end time.Time) ([]todoDomain.DailyTodoTrend, error) {
	query := `
		SELECT
			toStartOfDay(event_time) AS day,
			countIf(event_type = ?) AS created,
			countIf(status = ? AND event_type = ?) AS completed
		FROM todos_log
		WHERE event_time BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query,
		todoDomain.TodoCreatedEvent, string(todoDomain.TodoCompleted), todoDomain.TodoUpdatedEvent, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []todoDomain.DailyTodoTrend
	for rows.Next() {
		var (
			trend              todoDomain.DailyTodoTrend
			created, completed uint64
		)
		if err := rows.Scan(&trend.Day, &created, &completed); err != nil {
			return nil, err
		}
		trend.CreatedCount = int(created)
		trend.CompletedCount = int(completed)
		trends = append(trends, trend)
	}
	return trends, rows.Err()
}

// GetAverageCompletionTime mide, para los todos completados en la ventana, el
// tiempo medio entre su alta y su primera marca de completado.
func (r *TodoAnalyticsRepo) GetAverageCompletionTime(ctx context.Context, start, end time.Time) (time.Duration, error) {
	query := `
		SELECT avg(dateDiff('second', creation_time, completion_time))
		FROM (
			SELECT
				id,
				min(created_at) AS creation_time,
				minIf(updated_at, status = ?) AS completion_time
			FROM todos_log
			WHERE id IN (
				SELECT DISTINCT id FROM todos_log WHERE status = ? AND event_time BETWEEN ? AND ?
			)
			GROUP BY id
		)
		WHERE completion_time >= creation_time
	`
	completed := string(todoDomain.TodoCompleted)
	var avgSeconds sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, completed, completed, start, end).Scan(&avgSeconds); err != nil {
		return 0, err
	}
	if !avgSeconds.Valid {
		return 0, nil
	}
	return time.Duration(avgSeconds.Float64 * float64(time.Second)), nil
}

func (r *TodoAnalyticsRepo) Close() error {
	return r.db.Close()
}
