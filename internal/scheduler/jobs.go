package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Имена служебных задач.
const (
	JobRotateLog    = "rotate-log"
	JobPruneArchive = "prune-archive"
)

// Rotator — то, что умеет ротировать файл (sink.File).
type Rotator interface {
	Rotate() error
}

// Pruner — то, что умеет удалять старые записи (repo.RecordRepo).
type Pruner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// RotateLog возвращает задачу принудительной ротации журнала.
func RotateLog(r Rotator) JobFunc {
	return func(context.Context) error {
		return r.Rotate()
	}
}

// PruneArchive возвращает задачу удаления записей старше retention.
func PruneArchive(p Pruner, retention time.Duration, now func() time.Time, logger *slog.Logger) JobFunc {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context) error {
		if retention <= 0 {
			return nil
		}

		before := now().Add(-retention)
		deleted, err := p.DeleteOlderThan(ctx, before)
		if err != nil {
			return fmt.Errorf("prune archive: %w", err)
		}

		if deleted > 0 {
			logger.Info("archive pruned", "deleted", deleted, "before", before)
		}
		return nil
	}
}
