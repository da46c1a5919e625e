package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Logbook/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeRecordAccepted MessageType = "record.accepted"
)

// Message — конверт сообщения.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordAcceptedMessage оборачивает запись в конверт.
// ID сообщения совпадает с ID записи, это даёт идемпотентность в архиве.
func NewRecordAcceptedMessage(rec domain.LogRecord) *Message {
	return &Message{
		ID:        rec.ID.String(),
		Type:      MessageTypeRecordAccepted,
		Payload:   rec,
		Timestamp: rec.Timestamp,
	}
}

// publishFunc отправляет одно сообщение в exchange.
type publishFunc func(ctx context.Context, exchange Exchange, key RoutingKey, msg amqp.Publishing) error

// Publisher публикует принятые записи в RabbitMQ.
//
// Реализует LogSink: Append публикует record.accepted.
type Publisher struct {
	publish publishFunc
	logger  *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		publish: func(ctx context.Context, exchange Exchange, key RoutingKey, msg amqp.Publishing) error {
			return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
				return ch.PublishWithContext(ctx, string(exchange), string(key), false, false, msg)
			})
		},
		logger: logger,
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.publish(ctx, exchange, routingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
		MessageId:    msg.ID,
		Type:         string(msg.Type),
		Timestamp:    msg.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
	}

	p.logger.Debug("published message",
		"exchange", exchange,
		"routing_key", routingKey,
		"message_id", msg.ID,
		"type", msg.Type,
	)
	return nil
}

// Append публикует событие о принятой записи.
// Потребитель: Archiver.
func (p *Publisher) Append(ctx context.Context, rec domain.LogRecord) error {
	return p.Publish(ctx, ExchangeRecords, RoutingKeyAccepted, NewRecordAcceptedMessage(rec))
}
