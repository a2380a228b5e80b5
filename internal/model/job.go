package model

import "time"

// IngestMode selects whether an ingestion run replaces the current day's
// edition before fetching.
type IngestMode string

const (
	IngestNormal IngestMode = "normal"
	IngestReset  IngestMode = "reset"
)

type JobStep struct {
	TS      time.Time `json:"ts"`
	Message string    `json:"message"`
}

type JobResult struct {
	Date              string `json:"date"`
	ArticlesProcessed int    `json:"articles_processed"`
	ItemsFetched      int    `json:"items_fetched"`
	Failures          int    `json:"failures"`
}

// IngestionJob tracks one ingestion run. Status transitions are monotonic:
// pending -> running -> completed|failed. Terminal rows are never updated.
type IngestionJob struct {
	ID        string
	Status    string
	Progress  string
	Steps     []JobStep
	Result    *JobResult
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (j *IngestionJob) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
