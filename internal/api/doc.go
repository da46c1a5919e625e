// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go     — Handler с DI (recorder, metrics, logger)
//   - routes.go      — регистрация маршрутов
//   - middleware.go  — middleware (recovery, request id, logging, metrics)
//   - response.go    — JSON и text ответы
//   - dto.go         — Data Transfer Objects (request/response)
//   - log_handler.go — POST /log
//   - ui.go          — статическая страница на GET /
//
// Ответы POST /log:
//
//	200 {"status":"ok","message":"<trimmed>"}
//	400 message is required
//	400 invalid JSON body
//	500 internal server error
package api
