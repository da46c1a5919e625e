package domain

import "errors"

// ErrMessageRequired — сообщение пустое или состоит из пробелов.
var ErrMessageRequired = errors.New("message is required")

// ValidationError — ошибка валидации входных данных.
//
// Единственный вид ошибки, который Recorder возвращает клиенту.
// HTTP слой отвечает на неё 400 Bad Request.
type ValidationError struct {
	Field string
	Err   error
}

// Error возвращает текст ошибки без имени поля, его отдаём клиенту как есть.
func (e *ValidationError) Error() string {
	return e.Err.Error()
}

// Unwrap позволяет errors.Is(err, ErrMessageRequired).
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation проверяет, является ли err ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// SinkError — ошибка записи в конкретный sink.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return e.Sink + ": " + e.Err.Error()
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
