// Package orchestrator drives a full scrape run across every configured
// source. A failure in one source, filing, or record never aborts the
// rest of the run.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jalshrestha/capitolwatch/internal/gateway"
	"github.com/jalshrestha/capitolwatch/internal/model"
	"github.com/jalshrestha/capitolwatch/internal/source"
	"github.com/jalshrestha/capitolwatch/internal/storage"
)

// Options controls a single run.
type Options struct {
	// MaxPages bounds listing pagination per source.
	MaxPages int

	// TestMode runs only the synthetic connector.
	TestMode bool
}

// Result summarizes a finished run.
type Result struct {
	RunID          string
	Status         model.RunStatus
	TotalFound     int
	TotalSaved     int
	PerSourceFound map[string]int
	PerSourceSaved map[string]int
	Errors         []string
	Duration       time.Duration
}

// Runner executes scrape runs over a fixed set of connectors.
type Runner struct {
	connectors []source.Connector
	synthetic  source.Connector
	gw         *gateway.Gateway
	store      storage.Store
	logger     *slog.Logger
	windowDays int
}

// New builds a runner. connectors are processed in the given order;
// synthetic is substituted for all of them in test mode.
func New(connectors []source.Connector, synthetic source.Connector, gw *gateway.Gateway, store storage.Store, logger *slog.Logger, windowDays int) *Runner {
	return &Runner{
		connectors: connectors,
		synthetic:  synthetic,
		gw:         gw,
		store:      store,
		logger:     logger.With("component", "orchestrator"),
		windowDays: windowDays,
	}
}

// Run executes one scrape run and returns its summary. The returned error
// is non-nil only when the run itself could not be constructed; source
// failures are reported inside the Result.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now().UTC()
	run := &model.ScrapeRun{
		ID:             uuid.NewString(),
		StartTime:      start,
		Status:         model.RunRunning,
		PerSourceFound: map[string]int{},
		PerSourceSaved: map[string]int{},
	}
	if err := r.store.CreateScrapeRun(ctx, run); err != nil {
		// Run bookkeeping is advisory; the scrape still proceeds.
		r.logger.Warn("scrape run not recorded", "error", err)
	}
	r.logger.Info("scrape run started", "run_id", run.ID, "test_mode", opts.TestMode)

	connectors := r.connectors
	if opts.TestMode {
		connectors = []source.Connector{r.synthetic}
	}

	window := source.Window{
		Cutoff:   start.AddDate(0, 0, -r.windowDays),
		MaxPages: opts.MaxPages,
	}

	for _, conn := range connectors {
		found, saved, errs := r.runConnector(ctx, conn, window)
		run.PerSourceFound[conn.Name()] = found
		run.PerSourceSaved[conn.Name()] = saved
		run.TotalFound += found
		run.TotalSaved += saved
		run.Errors = append(run.Errors, errs...)
		r.logger.Info("source finished",
			"source", conn.Name(), "found", found, "saved", saved, "errors", len(errs))
	}

	run.EndTime = time.Now().UTC()
	switch {
	case len(run.Errors) > 0:
		run.Status = model.RunPartialFailure
	case run.TotalSaved > 0:
		run.Status = model.RunSuccess
	default:
		run.Status = model.RunNoData
	}
	if err := r.store.FinishScrapeRun(ctx, run); err != nil {
		r.logger.Warn("scrape run not finalized", "error", err)
	}

	res := &Result{
		RunID:          run.ID,
		Status:         run.Status,
		TotalFound:     run.TotalFound,
		TotalSaved:     run.TotalSaved,
		PerSourceFound: run.PerSourceFound,
		PerSourceSaved: run.PerSourceSaved,
		Errors:         run.Errors,
		Duration:       run.EndTime.Sub(run.StartTime),
	}
	r.logger.Info("scrape run finished",
		"run_id", run.ID, "status", run.Status,
		"found", run.TotalFound, "saved", run.TotalSaved,
		"duration", res.Duration)
	return res, nil
}

// runConnector discovers and processes one source, isolating every failure
// down to the individual filing.
func (r *Runner) runConnector(ctx context.Context, conn source.Connector, window source.Window) (found, saved int, errs []string) {
	defer func() {
		if rec := recover(); rec != nil {
			errs = append(errs, fmt.Sprintf("%s: panic: %v", conn.Name(), rec))
			r.logger.Error("source panicked", "source", conn.Name(), "panic", rec)
		}
	}()

	filings, err := conn.Discover(ctx, window)
	if err != nil {
		// Partial discovery still yields filings worth processing.
		errs = append(errs, fmt.Sprintf("%s: discover: %v", conn.Name(), err))
	}

	for _, filing := range filings {
		recs, err := conn.Extract(ctx, filing)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: extract %s: %v", conn.Name(), filing.URL, err))
			continue
		}
		found += len(recs)
		n, saveErrs := r.gw.SaveAll(ctx, conn.Name(), recs)
		saved += n
		// Every recorded error carries the source name, the save path
		// included.
		for _, msg := range saveErrs {
			errs = append(errs, fmt.Sprintf("%s: %s", conn.Name(), msg))
		}
	}
	return found, saved, errs
}
