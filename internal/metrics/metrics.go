// Package metrics содержит Prometheus метрики сервисов Logbook.
//
// Каждый процесс создаёт свой *Metrics со своим registry,
// глобальный prometheus.DefaultRegisterer не используется.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MessageCountName — имя счётчика сообщений по содержимому.
const MessageCountName = "message_count_total"

// ContentLabel — метка счётчика сообщений.
const ContentLabel = "content"

const namespace = "logbook"

// Metrics — набор метрик процесса.
type Metrics struct {
	registry *prometheus.Registry

	messages        *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	sinkErrors      *prometheus.CounterVec
	archivedRecords prometheus.Counter
	jobRuns         *prometheus.CounterVec
}

// New создаёт Metrics с новым registry.
// Go и process collectors регистрируются сразу.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Name: MessageCountName,
			Help: "Number of accepted messages by exact content",
		}, []string{ContentLabel}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		sinkErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed appends by sink",
		}, []string{"sink"}),
		archivedRecords: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archived_records_total",
			Help:      "Records stored in the archive",
		}),
		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_job_runs_total",
			Help:      "Housekeeping job runs by job and result",
		}, []string{"job", "result"}),
	}
}

// Registry возвращает registry (для тестов и доп. collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает HTTP handler для /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Increment увеличивает счётчик message_count_total{content=label}.
func (m *Metrics) Increment(label string) {
	m.messages.WithLabelValues(label).Inc()
}

// MessageCounter возвращает счётчик для конкретного содержимого.
func (m *Metrics) MessageCounter(label string) prometheus.Counter {
	return m.messages.WithLabelValues(label)
}

// SinkError увеличивает счётчик ошибок sink.
func (m *Metrics) SinkError(sink string) {
	m.sinkErrors.WithLabelValues(sink).Inc()
}

// ObserveHTTP записывает метрики одного HTTP запроса.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordArchived увеличивает счётчик заархивированных записей.
func (m *Metrics) RecordArchived() {
	m.archivedRecords.Inc()
}

// JobRun записывает результат запуска задачи планировщика.
func (m *Metrics) JobRun(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
}
