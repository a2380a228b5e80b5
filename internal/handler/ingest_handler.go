package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"muckraker/internal/model"
)

type IngestTrigger interface {
	TriggerAsync(mode model.IngestMode) (string, error)
}

type JobReader interface {
	GetJob(id string) (*model.IngestionJob, error)
}

type IngestHandler struct {
	trigger IngestTrigger
	jobs    JobReader
}

func NewIngestHandler(trigger IngestTrigger, jobs JobReader) *IngestHandler {
	return &IngestHandler{trigger: trigger, jobs: jobs}
}

func (h *IngestHandler) TriggerIngest(c *gin.Context) {
	mode := model.IngestNormal
	if c.Query("mode") == string(model.IngestReset) {
		mode = model.IngestReset
	}

	jobID, err := h.trigger.TriggerAsync(mode)
	if err != nil {
		slog.Error("error triggering ingestion", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start ingestion"})
		return
	}

	c.JSON(http.StatusAccepted, TriggerIngestResponse{JobID: jobID})
}

func (h *IngestHandler) GetJobStatus(c *gin.Context) {
	id := c.Param("id")

	job, err := h.jobs.GetJob(id)
	if err != nil {
		slog.Error("error fetching job", "error", err, "job_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	steps := make([]JobStepResponse, 0, len(job.Steps))
	for _, s := range job.Steps {
		steps = append(steps, JobStepResponse{
			TS:      s.TS.Format(time.RFC3339),
			Message: s.Message,
		})
	}

	c.JSON(http.StatusOK, JobStatusResponse{
		Status:   job.Status,
		Progress: job.Progress,
		Steps:    steps,
		Result:   job.Result,
		Error:    job.Error,
	})
}
