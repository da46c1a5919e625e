package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LineSeparator — разделитель полей в текстовой строке записи.
const LineSeparator = " | "

// LineTimeFormat — формат timestamp в текстовой строке записи.
const LineTimeFormat = "2006-01-02T15:04:05.000000Z07:00"

// LogRecord — одна принятая запись журнала.
//
// Создаётся на каждый успешный запрос POST /log и сразу уходит в sink.
// В памяти не хранится дольше времени обработки запроса.
type LogRecord struct {
	// ID — уникальный идентификатор записи.
	// Используется как message id в RabbitMQ и как первичный ключ в архиве.
	ID uuid.UUID `json:"id"`

	// Timestamp — момент приёма запроса.
	Timestamp time.Time `json:"timestamp"`

	// ClientID — идентификатор клиента (IP адрес).
	ClientID string `json:"client_id"`

	// Message — сообщение после trim.
	Message string `json:"message"`
}

// NewLogRecord создаёт запись с новым ID.
func NewLogRecord(ts time.Time, clientID, message string) LogRecord {
	return LogRecord{
		ID:        uuid.New(),
		Timestamp: ts,
		ClientID:  clientID,
		Message:   message,
	}
}

// Validate проверяет, что запись пригодна для сохранения.
func (r LogRecord) Validate() error {
	if r.ID == uuid.Nil {
		return fmt.Errorf("record id is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrMessageRequired
	}
	return nil
}

// lineEscaper экранирует символы, которые могут разорвать строку.
var lineEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\r", "\\r",
	"\n", "\\n",
)

// Line форматирует запись в одну строку журнала (без завершающего \n).
//
//	2026-10-19T12:00:00.000000Z | 203.0.113.7 | deneme1
func (r LogRecord) Line() string {
	var b strings.Builder
	b.WriteString(r.Timestamp.UTC().Format(LineTimeFormat))
	b.WriteString(LineSeparator)
	b.WriteString(lineEscaper.Replace(r.ClientID))
	b.WriteString(LineSeparator)
	b.WriteString(lineEscaper.Replace(r.Message))
	return b.String()
}

// Ack — подтверждение приёма сообщения.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AckStatusOK — статус успешного приёма.
const AckStatusOK = "ok"

// NewAck создаёт успешное подтверждение.
func NewAck(message string) Ack {
	return Ack{Status: AckStatusOK, Message: message}
}
