// Package scheduler runs named scrape jobs on cron schedules.
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/jalshrestha/capitolwatch/internal/orchestrator"
)

// Runner is the subset of the orchestrator the scheduler invokes.
type Runner interface {
	Run(ctx context.Context, opts orchestrator.Options) (*orchestrator.Result, error)
}

// JobStatus describes one registered job.
type JobStatus struct {
	Name      string `json:"name"`
	IsRunning bool   `json:"isRunning"`
}

type job struct {
	spec    string
	fn      func()
	entryID cron.EntryID
	running bool
}

// Scheduler manages cron-triggered scrape jobs by name. Jobs can be
// stopped and restarted individually; a stopped job stays registered.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	jobs   map[string]*job
	logger *slog.Logger
}

// New creates an empty scheduler.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		jobs:   make(map[string]*job),
		logger: logger.With("component", "scheduler"),
	}
}

// Schedule registers fn under name with the given cron spec. Scheduling an
// existing name replaces its previous entry.
func (s *Scheduler) Schedule(name, spec string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.jobs[name]; ok && old.running {
		s.cron.Remove(old.entryID)
	}

	wrapped := func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("scheduled job panicked", "job", name, "panic", rec)
			}
		}()
		s.logger.Info("scheduled job firing", "job", name)
		fn()
	}

	id, err := s.cron.AddFunc(spec, wrapped)
	if err != nil {
		return err
	}
	s.jobs[name] = &job{spec: spec, fn: wrapped, entryID: id, running: true}
	s.logger.Info("job scheduled", "job", name, "spec", spec)
	return nil
}

// StopJob removes the named job from the cron loop but keeps it registered
// so that StartJob can resume it.
func (s *Scheduler) StopJob(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok || !j.running {
		return false
	}
	s.cron.Remove(j.entryID)
	j.running = false
	s.logger.Info("job stopped", "job", name)
	return true
}

// StartJob resumes a previously stopped job.
func (s *Scheduler) StartJob(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok || j.running {
		return false
	}
	id, err := s.cron.AddFunc(j.spec, j.fn)
	if err != nil {
		s.logger.Error("job restart failed", "job", name, "error", err)
		return false
	}
	j.entryID = id
	j.running = true
	s.logger.Info("job started", "job", name)
	return true
}

// StopAll stops every registered job.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, j := range s.jobs {
		if j.running {
			s.cron.Remove(j.entryID)
			j.running = false
			s.logger.Info("job stopped", "job", name)
		}
	}
}

// Status lists all registered jobs sorted by name.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for name, j := range s.jobs {
		out = append(out, JobStatus{Name: name, IsRunning: j.running})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out
}

// Start launches the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop halts the cron loop without waiting for running jobs.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// Default job names and schedules.
const (
	JobDaily  = "daily-scrape"
	JobWeekly = "weekly-deep-scrape"

	dailySpec  = "0 11 * * *"
	weeklySpec = "0 8 * * 0"

	dailyMaxPages  = 5
	weeklyMaxPages = 10
)

// RegisterDefaults wires the standard daily and weekly scrape jobs against
// the given runner.
func (s *Scheduler) RegisterDefaults(runner Runner) error {
	runJob := func(name string, maxPages int) func() {
		return func() {
			res, err := runner.Run(context.Background(), orchestrator.Options{MaxPages: maxPages})
			if err != nil {
				s.logger.Error("scheduled run failed", "job", name, "error", err)
				return
			}
			s.logger.Info("scheduled run finished",
				"job", name, "status", res.Status, "saved", res.TotalSaved)
		}
	}

	if err := s.Schedule(JobDaily, dailySpec, runJob(JobDaily, dailyMaxPages)); err != nil {
		return err
	}
	return s.Schedule(JobWeekly, weeklySpec, runJob(JobWeekly, weeklyMaxPages))
}
