package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Logbook/internal/domain"
	"github.com/shaiso/Logbook/internal/metrics"
)

// DefaultMaxBodyBytes — лимит тела запроса по умолчанию.
const DefaultMaxBodyBytes = 1 << 20

// Recorder принимает сообщение (реализуется recorder.Recorder).
type Recorder interface {
	Handle(ctx context.Context, message, clientID string) (domain.Ack, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	recorder     Recorder
	metrics      *metrics.Metrics
	logger       *slog.Logger
	maxBodyBytes int64
	trustProxy   bool
	startTime    time.Time
}

// Config — конфигурация для создания Handler.
type Config struct {
	Recorder Recorder
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	// MaxBodyBytes — лимит тела POST /log (default: 1 MiB).
	MaxBodyBytes int64

	// TrustProxy — брать IP клиента из X-Forwarded-For.
	TrustProxy bool

	// StartTime — время старта процесса для /healthz.
	StartTime time.Time
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	start := cfg.StartTime
	if start.IsZero() {
		start = time.Now()
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	return &Handler{
		recorder:     cfg.Recorder,
		metrics:      m,
		logger:       logger,
		maxBodyBytes: maxBody,
		trustProxy:   cfg.TrustProxy,
		startTime:    start,
	}
}
