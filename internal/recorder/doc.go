// Package recorder реализует приём сообщений (Request Logger).
//
// Recorder.Handle:
//  1. Обрезает пробелы вокруг сообщения
//  2. Пустое сообщение → ValidationError ("message is required")
//  3. Пишет LogRecord в LogSink
//  4. Увеличивает счётчик MetricsSink с меткой = сообщение
//  5. Возвращает Ack
//
// Recorder не хранит состояния. Потокобезопасность обеспечивают
// сами sink'и (mutex в файловом sink, атомарные счётчики Prometheus).
package recorder
