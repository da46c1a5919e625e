package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingObserver struct {
	mu   sync.Mutex
	runs map[string][]error
}

func (o *recordingObserver) JobRun(job string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runs == nil {
		o.runs = make(map[string][]error)
	}
	o.runs[job] = append(o.runs[job], err)
}

func (o *recordingObserver) count(job string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.runs[job])
}

// --- Cron Tests ---

func TestValidateCronExpr(t *testing.T) {
	valid := []string{"0 3 * * *", "*/5 * * * *", "@daily", "@hourly", "@every 90s"}
	for _, spec := range valid {
		if err := ValidateCronExpr(spec); err != nil {
			t.Errorf("%q should be valid: %v", spec, err)
		}
	}

	invalid := []string{"", "not cron", "61 * * * *", "* * * * * *", "@weekly-ish"}
	for _, spec := range invalid {
		if err := ValidateCronExpr(spec); err == nil {
			t.Errorf("%q should be invalid", spec)
		}
	}
}

func TestParseSpec_Next(t *testing.T) {
	from := time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

	schedule, err := ParseSpec("0 3 * * *")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	want := time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC)
	if next := schedule.Next(from); !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}

	schedule, err = ParseSpec("@hourly")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if next := schedule.Next(from); !next.Equal(time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected hourly next: %v", next)
	}
}

// --- Scheduler Tests ---

func TestScheduler_AddAndRun(t *testing.T) {
	obs := &recordingObserver{}
	s := New(Config{Logger: testLogger(), Observer: obs})

	var calls int
	if err := s.Add("job", "@daily", func(context.Context) error { calls++; return nil }); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Add("job", "@daily", func(context.Context) error { return nil }); err == nil {
		t.Error("duplicate job name should fail")
	}
	if err := s.Add("bad", "nope", func(context.Context) error { return nil }); err == nil {
		t.Error("invalid spec should fail")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 job, got %d", s.Len())
	}

	if err := s.Run(context.Background(), "job"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 || obs.count("job") != 1 {
		t.Errorf("expected one run, calls=%d observed=%d", calls, obs.count("job"))
	}

	if err := s.Run(context.Background(), "missing"); err == nil {
		t.Error("unknown job should fail")
	}
}

func TestScheduler_RunError(t *testing.T) {
	obs := &recordingObserver{}
	s := New(Config{Logger: testLogger(), Observer: obs})

	boom := errors.New("boom")
	s.Add("failing", "@daily", func(context.Context) error { return boom })

	if err := s.Run(context.Background(), "failing"); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if obs.runs["failing"][0] != boom {
		t.Error("observer should receive the error")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	obs := &recordingObserver{}
	s := New(Config{Logger: testLogger(), Observer: obs})

	ran := make(chan struct{}, 1)
	s.Add("tick", "@every 1s", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

// --- Jobs Tests ---

type fakeRotator struct {
	err   error
	calls int
}

func (f *fakeRotator) Rotate() error {
	f.calls++
	return f.err
}

type fakePruner struct {
	before  time.Time
	deleted int64
	err     error
}

func (f *fakePruner) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return f.deleted, f.err
}

func TestRotateLog(t *testing.T) {
	r := &fakeRotator{}
	if err := RotateLog(r)(context.Background()); err != nil || r.calls != 1 {
		t.Errorf("unexpected result: err=%v calls=%d", err, r.calls)
	}
}

func TestPruneArchive(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	p := &fakePruner{deleted: 3}

	job := PruneArchive(p, 24*time.Hour, func() time.Time { return now }, testLogger())
	if err := job(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.before.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("unexpected cutoff: %v", p.before)
	}
}

func TestPruneArchive_Disabled(t *testing.T) {
	p := &fakePruner{}
	if err := PruneArchive(p, 0, nil, nil)(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.before.IsZero() {
		t.Error("pruner should not be called when retention is 0")
	}
}

func TestPruneArchive_Error(t *testing.T) {
	p := &fakePruner{err: errors.New("db down")}
	if err := PruneArchive(p, time.Hour, nil, testLogger())(context.Background()); err == nil {
		t.Error("expected error")
	}
}
