package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jalshrestha/capitolwatch/internal/orchestrator"
	"github.com/jalshrestha/capitolwatch/internal/scheduler"
)

const defaultMaxPages = 3

// Runner executes a scrape run on demand.
type Runner interface {
	Run(ctx context.Context, opts orchestrator.Options) (*orchestrator.Result, error)
}

// ScrapeHandler serves the manual trigger and scheduler control endpoints.
type ScrapeHandler struct {
	runner Runner
	sched  *scheduler.Scheduler
	logger *slog.Logger
}

func NewScrapeHandler(runner Runner, sched *scheduler.Scheduler, logger *slog.Logger) *ScrapeHandler {
	return &ScrapeHandler{
		runner: runner,
		sched:  sched,
		logger: logger.With("component", "handler"),
	}
}

type triggerRequest struct {
	MaxPages int  `json:"maxPages"`
	TestMode bool `json:"testMode"`
}

type triggerResponse struct {
	Success        bool           `json:"success"`
	RunID          string         `json:"runId"`
	Status         string         `json:"status"`
	TotalFound     int            `json:"totalFound"`
	TotalSaved     int            `json:"totalSaved"`
	PerSourceFound map[string]int `json:"perSourceFound"`
	PerSourceSaved map[string]int `json:"perSourceSaved"`
	Errors         []string       `json:"errors"`
	DurationMs     int64          `json:"durationMs"`
}

// Trigger runs a scrape synchronously and reports its summary. Source
// failures come back inside the 200 body; only a run that could not start
// at all is a 500.
func (h *ScrapeHandler) Trigger(c *gin.Context) {
	var req triggerRequest
	// Body is optional; defaults apply when absent or malformed.
	_ = c.ShouldBindJSON(&req)
	if req.MaxPages <= 0 {
		req.MaxPages = defaultMaxPages
	}

	res, err := h.runner.Run(c.Request.Context(), orchestrator.Options{
		MaxPages: req.MaxPages,
		TestMode: req.TestMode,
	})
	if err != nil {
		h.logger.Error("scrape run failed to start", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, triggerResponse{
		Success:        len(res.Errors) == 0,
		RunID:          res.RunID,
		Status:         string(res.Status),
		TotalFound:     res.TotalFound,
		TotalSaved:     res.TotalSaved,
		PerSourceFound: res.PerSourceFound,
		PerSourceSaved: res.PerSourceSaved,
		Errors:         res.Errors,
		DurationMs:     res.Duration.Milliseconds(),
	})
}

// SchedulerStatus lists the registered jobs and whether each is active.
func (h *ScrapeHandler) SchedulerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.sched.Status())
}

type controlRequest struct {
	Action string `json:"action" binding:"required"`
}

// SchedulerControl applies a named action to the scheduler.
func (h *ScrapeHandler) SchedulerControl(c *gin.Context) {
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	switch req.Action {
	case "trigger-daily":
		res, err := h.runner.Run(c.Request.Context(), orchestrator.Options{MaxPages: defaultMaxPages})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "manual run finished",
			"status":     res.Status,
			"totalSaved": res.TotalSaved,
			"errors":     res.Errors,
		})
	case "stop-all":
		h.sched.StopAll()
		c.JSON(http.StatusOK, gin.H{"message": "all jobs stopped"})
	case "stop-daily":
		h.sched.StopJob(scheduler.JobDaily)
		c.JSON(http.StatusOK, gin.H{"message": "daily job stopped"})
	case "stop-weekly":
		h.sched.StopJob(scheduler.JobWeekly)
		c.JSON(http.StatusOK, gin.H{"message": "weekly job stopped"})
	case "start-daily":
		h.sched.StartJob(scheduler.JobDaily)
		c.JSON(http.StatusOK, gin.H{"message": "daily job started"})
	case "start-weekly":
		h.sched.StartJob(scheduler.JobWeekly)
		c.JSON(http.StatusOK, gin.H{"message": "weekly job started"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action: " + req.Action})
	}
}
