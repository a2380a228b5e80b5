package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"muckraker/internal/model"
)

// historySize bounds the run-summary ring buffer.
const historySize = 20

type RunSummary struct {
	JobID             string
	StartedAt         time.Time
	FinishedAt        time.Time
	Coalesced         bool
	Success           bool
	ArticlesProcessed int
	Error             string
}

// Scheduler fires a normal-mode ingestion run on a fixed interval and keeps
// the most recent run summaries for observability.
type Scheduler struct {
	orch     *Orchestrator
	interval time.Duration

	mu      sync.Mutex
	history []RunSummary
}

func NewScheduler(orch *Orchestrator, interval time.Duration) *Scheduler {
	return &Scheduler{orch: orch, interval: interval}
}

// Start runs one ingestion immediately, then repeats at the configured
// interval until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	summary := RunSummary{StartedAt: time.Now().UTC()}

	jobID, started, err := s.orch.Trigger(model.IngestNormal)
	summary.JobID = jobID

	switch {
	case err != nil:
		summary.Error = err.Error()
		slog.Error("scheduled ingestion trigger failed", "error", err)
	case !started:
		summary.Coalesced = true
		slog.Info("scheduled ingestion coalesced onto active job", "job_id", jobID)
	default:
		s.orch.Execute(jobID, model.IngestNormal)
		if job, err := s.orch.jobs.GetJob(jobID); err == nil && job != nil {
			summary.Success = job.Status == model.StatusCompleted
			if job.Result != nil {
				summary.ArticlesProcessed = job.Result.ArticlesProcessed
			}
			summary.Error = job.Error
		}
	}

	summary.FinishedAt = time.Now().UTC()
	s.record(summary)

	slog.Info("scheduled ingestion run recorded",
		"job_id", summary.JobID,
		"success", summary.Success,
		"coalesced", summary.Coalesced,
		"articles", summary.ArticlesProcessed,
	)
}

func (s *Scheduler) record(summary RunSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, summary)
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
}

// History returns the retained run summaries, newest first.
func (s *Scheduler) History() []RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RunSummary, len(s.history))
	for i, summary := range s.history {
		out[len(out)-1-i] = summary
	}
	return out
}
