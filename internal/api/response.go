package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Тексты ответов с ошибкой.
const (
	MsgInvalidBody   = "invalid JSON body"
	MsgInternalError = "internal server error"
)

// JSON отправляет JSON ответ.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Text отправляет plain-text ответ без завершающего перевода строки.
func Text(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	w.Write([]byte(message))
}

// Success отправляет успешный ответ с данными.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest отправляет ошибку 400.
func BadRequest(w http.ResponseWriter, message string) {
	Text(w, http.StatusBadRequest, message)
}

// RequestTooLarge отправляет ошибку 413.
func RequestTooLarge(w http.ResponseWriter) {
	Text(w, http.StatusRequestEntityTooLarge, "request body too large")
}

// InternalError отправляет ошибку 500.
func InternalError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("internal error", "error", err)
	Text(w, http.StatusInternalServerError, MsgInternalError)
}
