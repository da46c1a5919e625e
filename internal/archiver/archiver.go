// Package archiver сохраняет принятые записи из RabbitMQ в PostgreSQL.
//
// Archiver — обработчик очереди records.accepted:
//   - некорректные сообщения подтверждаются и отбрасываются (в очередь не возвращаются)
//   - ошибки БД возвращаются consumer'у, сообщение уходит на повтор
//   - повторная доставка той же записи не создаёт дубликат (ON CONFLICT по id)
//   - NUL в тексте заменяется на U+FFFD: PostgreSQL TEXT его не хранит
package archiver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shaiso/Logbook/internal/domain"
	"github.com/shaiso/Logbook/internal/mq"
	"github.com/shaiso/Logbook/internal/telemetry"
)

// nulReplacer убирает символы, которые PostgreSQL TEXT не принимает.
var nulReplacer = strings.NewReplacer("\x00", "\uFFFD")

// Store — хранилище архива (repo.RecordRepo).
type Store interface {
	Insert(ctx context.Context, rec domain.LogRecord) (bool, error)
}

// Observer считает заархивированные записи (metrics.Metrics).
type Observer interface {
	RecordArchived()
}

// Archiver обрабатывает события record.accepted.
type Archiver struct {
	store    Store
	observer Observer
	logger   *slog.Logger
}

// Config — конфигурация Archiver.
type Config struct {
	Store    Store
	Observer Observer
	Logger   *slog.Logger
}

// New создаёт Archiver.
func New(cfg Config) *Archiver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Archiver{
		store:    cfg.Store,
		observer: cfg.Observer,
		logger:   logger,
	}
}

// Handle — mq.Handler для очереди records.accepted.
func (a *Archiver) Handle(ctx context.Context, d *mq.Delivery) error {
	msg := &d.Message
	logger := a.logger.With("message_id", msg.ID)

	if msg.Type != mq.MessageTypeRecordAccepted {
		logger.Warn("skipping unexpected message type", "type", msg.Type)
		return nil
	}

	rec, err := mq.ParsePayload[domain.LogRecord](msg)
	if err != nil {
		logger.Warn("dropping malformed record", "error", err)
		return nil
	}

	if err := rec.Validate(); err != nil {
		logger.Warn("dropping invalid record", "error", err)
		return nil
	}
	logger = telemetry.WithRecordID(logger, rec.ID.String())

	if strings.ContainsRune(rec.Message, 0) || strings.ContainsRune(rec.ClientID, 0) {
		logger.Debug("replacing NUL characters")
		rec.Message = nulReplacer.Replace(rec.Message)
		rec.ClientID = nulReplacer.Replace(rec.ClientID)
	}

	inserted, err := a.store.Insert(ctx, rec)
	if err != nil {
		return err
	}

	if !inserted {
		logger.Debug("record already archived")
		return nil
	}

	if a.observer != nil {
		a.observer.RecordArchived()
	}
	logger.Debug("record archived")
	return nil
}
