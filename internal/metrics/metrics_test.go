package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncrement(t *testing.T) {
	m := New()

	m.Increment("deneme1")
	m.Increment("deneme1")
	m.Increment("other")

	if got := testutil.ToFloat64(m.MessageCounter("deneme1")); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.MessageCounter("other")); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := testutil.CollectAndCount(m.messages); got != 2 {
		t.Errorf("expected 2 label sets, got %d", got)
	}
}

func TestIncrement_Concurrent(t *testing.T) {
	m := New()

	const goroutines = 16
	const perGoroutine = 250

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			label := "even"
			if i%2 == 1 {
				label = "odd"
			}
			for j := 0; j < perGoroutine; j++ {
				m.Increment(label)
			}
		}(i)
	}
	wg.Wait()

	want := float64(goroutines / 2 * perGoroutine)
	for _, label := range []string{"even", "odd"} {
		if got := testutil.ToFloat64(m.MessageCounter(label)); got != want {
			t.Errorf("%s: expected %v, got %v", label, want, got)
		}
	}
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.Increment(`quote"d`)
	m.ObserveHTTP("POST", "POST /log", 200, 15*time.Millisecond)
	m.SinkError("file")
	m.RecordArchived()
	m.JobRun("rotate-log", nil)
	m.JobRun("rotate-log", errors.New("x"))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	wants := []string{
		`message_count_total{content="quote\"d"} 1`,
		`logbook_http_requests_total{method="POST",path="POST /log",status="200"} 1`,
		`logbook_http_request_duration_seconds_count{method="POST",path="POST /log"} 1`,
		`logbook_sink_errors_total{sink="file"} 1`,
		`logbook_archived_records_total 1`,
		`logbook_scheduled_job_runs_total{job="rotate-log",result="error"} 1`,
		`go_goroutines`,
	}
	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Errorf("exposition should contain %q", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Increment("x")

	if got := testutil.ToFloat64(b.MessageCounter("x")); got != 0 {
		t.Errorf("registries should be independent, got %v", got)
	}
}
