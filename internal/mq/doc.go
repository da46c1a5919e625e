// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация принятых записей (реализует LogSink)
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - record.accepted — API принял запись журнала
//
// Exchanges:
//   - logbook.records — события записей
//   - logbook.dlq     — dead letter queue
package mq
