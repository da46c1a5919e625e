package sink

import (
	"context"
	"errors"

	"github.com/shaiso/Logbook/internal/domain"
)

// Appender — минимальный интерфейс sink'а.
type Appender interface {
	Append(ctx context.Context, rec domain.LogRecord) error
}

// Named — sink с именем (для логов и метрик ошибок).
type Named struct {
	Name string
	Sink Appender
}

// Multi отправляет запись во все sink'и по порядку.
//
// Ошибка одного sink'а не мешает остальным. Все ошибки
// объединяются через errors.Join, каждая обёрнута в *domain.SinkError.
type Multi struct {
	sinks []Named
}

// NewMulti создаёт Multi. nil sink'и пропускаются.
func NewMulti(sinks ...Named) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s.Sink != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Add добавляет sink.
func (m *Multi) Add(name string, s Appender) {
	if s == nil {
		return
	}
	m.sinks = append(m.sinks, Named{Name: name, Sink: s})
}

// Len возвращает количество sink'ов.
func (m *Multi) Len() int {
	return len(m.sinks)
}

// Names возвращает имена sink'ов.
func (m *Multi) Names() []string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name
	}
	return names
}

// Append пишет запись во все sink'и.
func (m *Multi) Append(ctx context.Context, rec domain.LogRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Sink.Append(ctx, rec); err != nil {
			errs = append(errs, &domain.SinkError{Sink: s.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}
