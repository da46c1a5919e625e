package api

// LogRequest — тело POST /log.
// Отсутствующее поле message равносильно пустой строке.
type LogRequest struct {
	Message string `json:"message"`
}

// LogResponse — ответ POST /log.
type LogResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
