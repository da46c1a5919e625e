package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// messageCountMetric — имя счётчика сообщений на /metrics.
const messageCountMetric = "message_count_total"

// LogResponse — ответ POST /log.
type LogResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MessageCount — значение счётчика для одного содержимого.
type MessageCount struct {
	Content string  `json:"content"`
	Count   float64 `json:"count"`
}

// APIError — ответ API с кодом >= 400.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Client — HTTP-клиент для Logbook API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendLog отправляет одно сообщение.
func (c *Client) SendLog(ctx context.Context, message string) (*LogResponse, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/log", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkError(resp); err != nil {
		return nil, err
	}

	var lr LogResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &lr, nil
}

// MessageCounts читает message_count_total со страницы /metrics.
// Результат отсортирован по убыванию счётчика, затем по содержимому.
func (c *Client) MessageCounts(ctx context.Context) ([]MessageCount, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metrics", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.FmtText))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkError(resp); err != nil {
		return nil, err
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics: %w", err)
	}

	counts := messageCounts(families[messageCountMetric])
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Content < counts[j].Content
	})
	return counts, nil
}

// messageCounts достаёт значения счётчика по метке content.
func messageCounts(mf *dto.MetricFamily) []MessageCount {
	if mf == nil {
		return []MessageCount{}
	}

	counts := make([]MessageCount, 0, len(mf.GetMetric()))
	for _, m := range mf.GetMetric() {
		var content string
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "content" {
				content = lp.GetValue()
			}
		}
		counts = append(counts, MessageCount{Content: content, Count: m.GetCounter().GetValue()})
	}
	return counts
}

// checkError превращает ответ с кодом >= 400 в *APIError.
// Тело ошибки у API — plain text.
func checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
}
