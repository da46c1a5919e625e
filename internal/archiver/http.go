package archiver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shaiso/Logbook/internal/domain"
	"github.com/shaiso/Logbook/internal/repo"
)

// Reader — чтение архива (repo.RecordRepo).
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LogRecord, error)
	CountByMessage(ctx context.Context, message string) (int64, error)
}

// CountResponse — ответ GET /records/count.
type CountResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// RegisterRoutes регистрирует маршруты чтения архива:
//
//	GET /records/{id}             — запись по ID
//	GET /records/count?message=X  — сколько раз архивировано сообщение X
func RegisterRoutes(mux *http.ServeMux, reader Reader, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	q := &queryHandler{reader: reader, logger: logger}

	mux.HandleFunc("GET /records/count", q.count)
	mux.HandleFunc("GET /records/{id}", q.get)
}

type queryHandler struct {
	reader Reader
	logger *slog.Logger
}

func (q *queryHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	rec, err := q.reader.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if err != nil {
		q.logger.Error("failed to get record", "record_id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rec)
}

func (q *queryHandler) count(w http.ResponseWriter, r *http.Request) {
	// в архив попадает уже обрезанный текст
	message := strings.TrimSpace(r.URL.Query().Get("message"))
	if message == "" {
		http.Error(w, domain.ErrMessageRequired.Error(), http.StatusBadRequest)
		return
	}

	n, err := q.reader.CountByMessage(r.Context(), message)
	if err != nil {
		q.logger.Error("failed to count records", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, CountResponse{Message: message, Count: n})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}
