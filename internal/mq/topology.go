package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeRecords Exchange = "logbook.records"
	ExchangeDLQ     Exchange = "logbook.dlq"
)

// Queues — имена очередей.
const (
	QueueRecordsAccepted Queue = "records.accepted"
	QueueDLQRecords      Queue = "dlq.records"
)

// Routing keys.
const (
	RoutingKeyAccepted   RoutingKey = "accepted"
	RoutingKeyDLQRecords RoutingKey = "records"
)

type exchangeDecl struct {
	name Exchange
	kind string
}

type queueDecl struct {
	name Queue
	args amqp.Table
}

type bindingDecl struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
}

// topology — полное описание объектов RabbitMQ.
type topology struct {
	exchanges []exchangeDecl
	queues    []queueDecl
	bindings  []bindingDecl
}

// recordsTopology описывает обменники и очереди Logbook.
//
//	logbook.records (direct)
//	└── records.accepted [routing: accepted] → DLQ: dlq.records
//	logbook.dlq (direct)
//	└── dlq.records [routing: records]
func recordsTopology() topology {
	return topology{
		exchanges: []exchangeDecl{
			{ExchangeRecords, amqp.ExchangeDirect},
			{ExchangeDLQ, amqp.ExchangeDirect},
		},
		queues: []queueDecl{
			{QueueRecordsAccepted, amqp.Table{
				"x-dead-letter-exchange":    string(ExchangeDLQ),
				"x-dead-letter-routing-key": string(RoutingKeyDLQRecords),
			}},
			{QueueDLQRecords, nil},
		},
		bindings: []bindingDecl{
			{QueueRecordsAccepted, RoutingKeyAccepted, ExchangeRecords},
			{QueueDLQRecords, RoutingKeyDLQRecords, ExchangeDLQ},
		},
	}
}

// SetupTopology объявляет exchanges, queues и bindings (идемпотентно).
func SetupTopology(ctx context.Context, conn *Connection) error {
	t := recordsTopology()

	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, ex := range t.exchanges {
			// durable, не auto-delete, не internal, без no-wait
			if err := ch.ExchangeDeclare(string(ex.name), ex.kind, true, false, false, false, nil); err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex.name, err)
			}
		}

		for _, q := range t.queues {
			if _, err := ch.QueueDeclare(string(q.name), true, false, false, false, q.args); err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}
		}

		for _, b := range t.bindings {
			if err := ch.QueueBind(string(b.queue), string(b.routingKey), string(b.exchange), false, nil); err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}

		return nil
	})
}
