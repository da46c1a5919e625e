package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc — служебная задача.
type JobFunc func(ctx context.Context) error

// Observer получает результат каждого запуска (реализуется metrics.Metrics).
type Observer interface {
	JobRun(job string, err error)
}

// Scheduler — планировщик служебных задач.
type Scheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	observer Observer

	mu     sync.Mutex
	jobs   map[string]JobFunc
	ctx    context.Context
	cancel context.CancelFunc
}

// Config — конфигурация Scheduler.
type Config struct {
	Logger   *slog.Logger
	Observer Observer // опционально

	// Location — часовой пояс расписаний (default: UTC).
	Location *time.Location
}

// New создаёт Scheduler.
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger:   logger,
		observer: cfg.Observer,
		jobs:     make(map[string]JobFunc),
		ctx:      context.Background(),
	}
}

// Add регистрирует задачу name с расписанием spec.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	schedule, err := ParseSpec(spec)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	s.jobs[name] = fn

	s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.Run(s.context(), name)
	}))

	s.logger.Info("job scheduled", "job", name, "spec", spec, "next", schedule.Next(time.Now()))
	return nil
}

// Len возвращает количество зарегистрированных задач.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Run выполняет задачу name немедленно.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.Lock()
	fn, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("job %s not found", name)
	}

	start := time.Now()
	err := fn(ctx)

	if s.observer != nil {
		s.observer.JobRun(name, err)
	}

	if err != nil {
		s.logger.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
		return err
	}

	s.logger.Debug("job finished", "job", name, "duration", time.Since(start))
	return nil
}

// Start запускает планировщик. Задачи получают ctx (или его потомка).
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}
