package api

import (
	"fmt"
	"net/http"
	"time"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := h.middleware()

	mux.Handle("POST /log", chain(http.HandlerFunc(h.PostLog)))
	mux.Handle("GET /{$}", chain(http.HandlerFunc(h.Index)))

	// Health и metrics
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.Handle("GET /metrics", h.metrics.Handler())
}

// middleware — цепочка для маршрутов API.
// Recovery внутри Logging и Metrics: запрос с паникой учитывается как 500.
func (h *Handler) middleware() Middleware {
	return Chain(
		RequestID(h.logger),
		Logging(h.logger),
		Metrics(h.metrics),
		Recovery(h.logger),
	)
}

// Routes возвращает готовый mux со всеми маршрутами.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

// Healthz отвечает "ok <uptime>".
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ok %s", time.Since(h.startTime).Round(time.Second))
}
