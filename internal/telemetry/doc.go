// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//
// Метрики Prometheus живут в пакете metrics, у каждого сервиса
// свой registry, который отдаётся на /metrics.
package telemetry
