package sink

import (
	"context"

	"github.com/shaiso/Logbook/internal/domain"
)

// Func — адаптер функции к Appender.
type Func func(ctx context.Context, rec domain.LogRecord) error

// Append вызывает f.
func (f Func) Append(ctx context.Context, rec domain.LogRecord) error {
	return f(ctx, rec)
}
