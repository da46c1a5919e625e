// Package cli реализует инструмент командной строки Logbook.
//
// # Обзор
//
// CLI — клиентская утилита для Logbook API, работает через HTTP
// и не импортирует внутренние пакеты сервера.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент: отправка сообщений (POST /log) и чтение счётчиков
// message_count_total из /metrics (текстовый формат Prometheus, expfmt).
//
//	client := cli.NewClient("http://localhost:8080")
//	resp, err := client.SendLog(ctx, "deneme1")
//
// ## Output
//
// Таблицы (text/tabwriter) по умолчанию, JSON с флагом --json.
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr:
//
//	logbook counts --json | jq .
//
// ## Commands
//
//   - send <message> [--count N] — отправить сообщение N раз, как это делает страница UI
//   - counts [--content X]       — показать счётчики сообщений
//
// Команды создаются фабриками (NewSendCmd, NewCountsCmd), которые
// принимают clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
