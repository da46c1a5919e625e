// Package sink содержит получателей записей журнала.
//
// Структура:
//   - file.go  — файловый журнал с ротацией по размеру (lumberjack)
//   - multi.go — fan-out записи в несколько sink'ов
//   - func.go  — адаптер функции к интерфейсу sink
//
// Все sink'и реализуют recorder.LogSink:
//
//	Append(ctx context.Context, rec domain.LogRecord) error
//
// Публикация в RabbitMQ (mq.Publisher) тоже реализует этот интерфейс
// и подключается через Multi.
package sink
