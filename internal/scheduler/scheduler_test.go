package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jalshrestha/capitolwatch/internal/orchestrator"
)

func testScheduler() *Scheduler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubRunner struct {
	calls int
}

func (r *stubRunner) Run(ctx context.Context, opts orchestrator.Options) (*orchestrator.Result, error) {
	r.calls++
	return &orchestrator.Result{}, nil
}

func TestScheduleAndStatus(t *testing.T) {
	s := testScheduler()

	if err := s.Schedule("nightly", "0 11 * * *", func() {}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	status := s.Status()
	if len(status) != 1 {
		t.Fatalf("Expected 1 job, got %d", len(status))
	}
	if status[0].Name != "nightly" || !status[0].IsRunning {
		t.Errorf("Unexpected status: %+v", status[0])
	}
}

func TestScheduleInvalidSpec(t *testing.T) {
	s := testScheduler()

	if err := s.Schedule("broken", "not a cron spec", func() {}); err == nil {
		t.Error("Expected an error for an invalid cron spec")
	}
	if len(s.Status()) != 0 {
		t.Error("Invalid job must not be registered")
	}
}

func TestStopJobKeepsRegistration(t *testing.T) {
	s := testScheduler()
	_ = s.Schedule("nightly", "0 11 * * *", func() {})

	if !s.StopJob("nightly") {
		t.Fatal("Expected StopJob to succeed")
	}

	status := s.Status()
	if len(status) != 1 {
		t.Fatalf("Stopped job must stay listed, got %d jobs", len(status))
	}
	if status[0].IsRunning {
		t.Error("Expected job to be marked stopped")
	}

	// Stopping again is a no-op.
	if s.StopJob("nightly") {
		t.Error("Expected second StopJob to report false")
	}
}

func TestStartJobResumesStopped(t *testing.T) {
	s := testScheduler()
	_ = s.Schedule("nightly", "0 11 * * *", func() {})
	s.StopJob("nightly")

	if !s.StartJob("nightly") {
		t.Fatal("Expected StartJob to succeed")
	}
	if !s.Status()[0].IsRunning {
		t.Error("Expected job to be running again")
	}

	// Starting a running job is a no-op.
	if s.StartJob("nightly") {
		t.Error("Expected StartJob on a running job to report false")
	}
}

func TestStartJobUnknown(t *testing.T) {
	s := testScheduler()
	if s.StartJob("missing") {
		t.Error("Expected StartJob on unknown job to report false")
	}
}

func TestStopAll(t *testing.T) {
	s := testScheduler()
	_ = s.Schedule("a", "0 11 * * *", func() {})
	_ = s.Schedule("b", "0 8 * * 0", func() {})

	s.StopAll()

	for _, st := range s.Status() {
		if st.IsRunning {
			t.Errorf("Expected job %s stopped", st.Name)
		}
	}
}

func TestStatusSorted(t *testing.T) {
	s := testScheduler()
	_ = s.Schedule("zebra", "0 11 * * *", func() {})
	_ = s.Schedule("alpha", "0 8 * * 0", func() {})

	status := s.Status()
	if status[0].Name != "alpha" || status[1].Name != "zebra" {
		t.Errorf("Expected sorted status, got %v", status)
	}
}

func TestRegisterDefaults(t *testing.T) {
	s := testScheduler()

	if err := s.RegisterDefaults(&stubRunner{}); err != nil {
		t.Fatalf("RegisterDefaults failed: %v", err)
	}

	status := s.Status()
	if len(status) != 2 {
		t.Fatalf("Expected 2 default jobs, got %d", len(status))
	}

	names := map[string]bool{}
	for _, st := range status {
		names[st.Name] = st.IsRunning
	}
	if !names[JobDaily] || !names[JobWeekly] {
		t.Errorf("Expected daily and weekly jobs running, got %v", names)
	}
}

func TestScheduleReplacesExisting(t *testing.T) {
	s := testScheduler()
	_ = s.Schedule("nightly", "0 11 * * *", func() {})
	if err := s.Schedule("nightly", "0 8 * * 0", func() {}); err != nil {
		t.Fatalf("Replacement schedule failed: %v", err)
	}
	if len(s.Status()) != 1 {
		t.Errorf("Expected replacement to keep a single registration")
	}
}
