package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Logbook/internal/domain"
)

// schema — DDL архива записей, по одному выражению на Exec.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS records (
		id          UUID PRIMARY KEY,
		ts          TIMESTAMPTZ NOT NULL,
		client_id   TEXT NOT NULL,
		message     TEXT NOT NULL,
		archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS records_ts_idx ON records (ts)`,
	`CREATE INDEX IF NOT EXISTS records_message_idx ON records USING hash (message)`,
}

// db — общая часть pgxpool.Pool и pgx.Tx, которой пользуется репозиторий.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RecordRepo — репозиторий архива записей журнала.
type RecordRepo struct {
	db db
}

// NewRecordRepo создаёт новый RecordRepo.
func NewRecordRepo(pool *pgxpool.Pool) *RecordRepo {
	return &RecordRepo{db: pool}
}

// EnsureSchema создаёт таблицу и индексы, если их нет.
func (r *RecordRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Insert сохраняет запись. Повторная вставка с тем же ID игнорируется.
// Возвращает true, если запись была вставлена.
func (r *RecordRepo) Insert(ctx context.Context, rec domain.LogRecord) (bool, error) {
	query := `
		INSERT INTO records (id, ts, client_id, message)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, rec.ID, rec.Timestamp, rec.ClientID, rec.Message)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID возвращает запись по ID.
func (r *RecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LogRecord, error) {
	query := `
		SELECT id, ts, client_id, message
		FROM records
		WHERE id = $1
	`
	var rec domain.LogRecord
	err := r.db.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.Timestamp, &rec.ClientID, &rec.Message)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

// CountByMessage возвращает количество записей с точным содержимым message.
func (r *RecordRepo) CountByMessage(ctx context.Context, message string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM records WHERE message = $1`, message).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// DeleteOlderThan удаляет записи с ts раньше before.
func (r *RecordRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM records WHERE ts < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete old records: %w", err)
	}
	return tag.RowsAffected(), nil
}
