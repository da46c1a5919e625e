package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shaiso/Logbook/internal/domain"
	"github.com/shaiso/Logbook/internal/telemetry"
)

// LogSink — получатель записей журнала.
type LogSink interface {
	Append(ctx context.Context, rec domain.LogRecord) error
}

// MetricsSink — счётчик сообщений по содержимому.
type MetricsSink interface {
	Increment(label string)
}

// SinkErrorObserver получает уведомления об ошибках записи в sink.
// Опционально; реализуется metrics.Metrics.
type SinkErrorObserver interface {
	SinkError(sink string)
}

// Recorder принимает сообщения.
type Recorder struct {
	sink     LogSink
	counter  MetricsSink
	observer SinkErrorObserver
	strict   bool
	now      func() time.Time
	logger   *slog.Logger
}

// Config — конфигурация Recorder.
type Config struct {
	Sink    LogSink
	Counter MetricsSink

	// ErrorObserver — опционально, счётчик ошибок sink.
	ErrorObserver SinkErrorObserver

	// FailOnSinkError — если true, ошибка sink возвращается вызывающему
	// и счётчик не увеличивается. По умолчанию ошибка только логируется.
	FailOnSinkError bool

	// Now — источник времени (default: time.Now).
	Now func() time.Time

	Logger *slog.Logger
}

// New создаёт Recorder.
func New(cfg Config) *Recorder {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		sink:     cfg.Sink,
		counter:  cfg.Counter,
		observer: cfg.ErrorObserver,
		strict:   cfg.FailOnSinkError,
		now:      now,
		logger:   logger,
	}
}

// Handle принимает сообщение от клиента clientID.
//
// Возвращает *domain.ValidationError, если сообщение пустое после trim.
// В этом случае ничего не пишется и счётчик не меняется.
func (r *Recorder) Handle(ctx context.Context, message, clientID string) (domain.Ack, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Ack{}, &domain.ValidationError{Field: "message", Err: domain.ErrMessageRequired}
	}

	rec := domain.NewLogRecord(r.now(), clientID, message)
	logger := telemetry.WithRecordID(telemetry.FromContextOr(ctx, r.logger), rec.ID.String())

	if r.sink != nil {
		if err := r.sink.Append(ctx, rec); err != nil {
			if r.observer != nil {
				for _, name := range sinkNames(err) {
					r.observer.SinkError(name)
				}
			}
			if r.strict {
				return domain.Ack{}, fmt.Errorf("append record %s: %w", rec.ID, err)
			}
			logger.Warn("failed to append record", "error", err)
		}
	}

	if r.counter != nil {
		r.counter.Increment(message)
	}

	logger.Debug("message recorded", "client", clientID)

	return domain.NewAck(message), nil
}

// sinkNames собирает имена sink'ов из (возможно составной) ошибки.
func sinkNames(err error) []string {
	var names []string

	var walk func(error)
	walk = func(e error) {
		if se, ok := e.(*domain.SinkError); ok {
			names = append(names, se.Sink)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)

	if len(names) == 0 {
		return []string{"unknown"}
	}
	return names
}
