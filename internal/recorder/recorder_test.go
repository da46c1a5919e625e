package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Logbook/internal/domain"
)

// --- Fakes ---

type memorySink struct {
	mu      sync.Mutex
	records []domain.LogRecord
	err     error
}

func (s *memorySink) Append(_ context.Context, rec domain.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{counts: make(map[string]int)}
}

func (c *memoryCounter) Increment(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[label]++
}

func (c *memoryCounter) Get(label string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[label]
}

type memoryObserver struct {
	mu    sync.Mutex
	sinks []string
}

func (o *memoryObserver) SinkError(sink string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sinks = append(o.sinks, sink)
}

// --- Handle Tests ---

func TestHandle_Success(t *testing.T) {
	sink := &memorySink{}
	counter := newMemoryCounter()
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	r := New(Config{
		Sink:    sink,
		Counter: counter,
		Now:     func() time.Time { return fixed },
	})

	ack, err := r.Handle(context.Background(), "deneme1", "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.Status != "ok" || ack.Message != "deneme1" {
		t.Errorf("unexpected ack: %+v", ack)
	}

	if sink.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", sink.Len())
	}
	rec := sink.records[0]
	if rec.Message != "deneme1" || rec.ClientID != "203.0.113.7" || !rec.Timestamp.Equal(fixed) {
		t.Errorf("unexpected record: %+v", rec)
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("record should be valid: %v", err)
	}
	if counter.Get("deneme1") != 1 {
		t.Errorf("expected counter 1, got %d", counter.Get("deneme1"))
	}
}

func TestHandle_TrimsMessage(t *testing.T) {
	sink := &memorySink{}
	counter := newMemoryCounter()
	r := New(Config{Sink: sink, Counter: counter})

	ack, err := r.Handle(context.Background(), "  \thello world\n ", "ip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.Message != "hello world" {
		t.Errorf("expected trimmed echo, got %q", ack.Message)
	}
	if sink.records[0].Message != "hello world" {
		t.Errorf("record should carry trimmed message, got %q", sink.records[0].Message)
	}
	if counter.Get("hello world") != 1 {
		t.Error("counter should be keyed by trimmed message")
	}
}

func TestHandle_EmptyMessage(t *testing.T) {
	inputs := []string{"", " ", "   ", "\t\n", "  "}

	for _, in := range inputs {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			sink := &memorySink{}
			counter := newMemoryCounter()
			r := New(Config{Sink: sink, Counter: counter})

			_, err := r.Handle(context.Background(), in, "ip")
			if !errors.Is(err, domain.ErrMessageRequired) {
				t.Fatalf("expected ErrMessageRequired, got %v", err)
			}
			if !domain.IsValidation(err) {
				t.Error("error should be a ValidationError")
			}
			if sink.Len() != 0 {
				t.Error("no record should be written")
			}
			if len(counter.counts) != 0 {
				t.Error("no counter should be incremented")
			}
		})
	}
}

func TestHandle_SameMessageNTimes(t *testing.T) {
	counter := newMemoryCounter()
	r := New(Config{Sink: &memorySink{}, Counter: counter})

	const n = 25
	for i := 0; i < n; i++ {
		if _, err := r.Handle(context.Background(), "repeat", "ip"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if counter.Get("repeat") != n {
		t.Errorf("expected %d, got %d", n, counter.Get("repeat"))
	}
}

func TestHandle_Concurrent(t *testing.T) {
	sink := &memorySink{}
	counter := newMemoryCounter()
	r := New(Config{Sink: sink, Counter: counter})

	labels := []string{"a", "b", "c", "d"}
	const perLabel = 50

	var wg sync.WaitGroup
	for _, label := range labels {
		for i := 0; i < perLabel; i++ {
			wg.Add(1)
			go func(msg string) {
				defer wg.Done()
				if _, err := r.Handle(context.Background(), msg, "ip"); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}(label)
		}
	}
	wg.Wait()

	for _, label := range labels {
		if counter.Get(label) != perLabel {
			t.Errorf("label %s: expected %d, got %d", label, perLabel, counter.Get(label))
		}
	}
	if sink.Len() != len(labels)*perLabel {
		t.Errorf("expected %d records, got %d", len(labels)*perLabel, sink.Len())
	}
}

// --- Sink failure policy ---

func TestHandle_SinkErrorLenient(t *testing.T) {
	sink := &memorySink{err: &domain.SinkError{Sink: "file", Err: errors.New("disk full")}}
	counter := newMemoryCounter()
	observer := &memoryObserver{}

	r := New(Config{Sink: sink, Counter: counter, ErrorObserver: observer})

	ack, err := r.Handle(context.Background(), "hello", "ip")
	if err != nil {
		t.Fatalf("lenient mode should not fail: %v", err)
	}
	if ack.Message != "hello" {
		t.Errorf("unexpected ack: %+v", ack)
	}
	if counter.Get("hello") != 1 {
		t.Error("counter should still be incremented")
	}
	if len(observer.sinks) != 1 || observer.sinks[0] != "file" {
		t.Errorf("expected sink error for file, got %v", observer.sinks)
	}
}

func TestHandle_SinkErrorStrict(t *testing.T) {
	diskFull := errors.New("disk full")
	sink := &memorySink{err: diskFull}
	counter := newMemoryCounter()
	observer := &memoryObserver{}

	r := New(Config{Sink: sink, Counter: counter, ErrorObserver: observer, FailOnSinkError: true})

	_, err := r.Handle(context.Background(), "hello", "ip")
	if !errors.Is(err, diskFull) {
		t.Fatalf("expected wrapped sink error, got %v", err)
	}
	if domain.IsValidation(err) {
		t.Error("sink error is not a validation error")
	}
	if counter.Get("hello") != 0 {
		t.Error("counter should not be incremented in strict mode")
	}
	if len(observer.sinks) != 1 || observer.sinks[0] != "unknown" {
		t.Errorf("expected unknown sink, got %v", observer.sinks)
	}
}

func TestSinkNames_Joined(t *testing.T) {
	err := errors.Join(
		&domain.SinkError{Sink: "file", Err: errors.New("a")},
		fmt.Errorf("wrapped: %w", &domain.SinkError{Sink: "rabbitmq", Err: errors.New("b")}),
	)

	names := sinkNames(err)
	if len(names) != 2 || names[0] != "file" || names[1] != "rabbitmq" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestHandle_NilSinks(t *testing.T) {
	r := New(Config{})

	if _, err := r.Handle(context.Background(), "hello", "ip"); err != nil {
		t.Errorf("recorder without sinks should still ack: %v", err)
	}
}
