package repository

import (
	"database/sql"
	"encoding/json"
	"muckraker/internal/model"
	"time"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// CreateJob inserts a pending job. A partial unique index allows only one
// non-terminal job at a time; when another run is already active the insert
// is a no-op and false is returned so the caller can coalesce onto it.
func (r *JobRepository) CreateJob(id string) (bool, error) {
	var created string
	err := r.db.QueryRow(`
		INSERT INTO ingestion_job(id, status)
		VALUES($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING id
	`, id, model.StatusPending).Scan(&created)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// StartJob performs the atomic pending -> running transition. Returns false
// if the job was not pending (already started, or terminal).
func (r *JobRepository) StartJob(id string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE ingestion_job
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, model.StatusRunning, id, model.StatusPending)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AppendStep records a timestamped progress message and updates the
// short progress string. Terminal jobs are never touched.
func (r *JobRepository) AppendStep(id, message string) error {
	step, err := json.Marshal([]model.JobStep{{TS: time.Now().UTC(), Message: message}})
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		UPDATE ingestion_job
		SET steps = steps || $1::jsonb, progress = $2, updated_at = now()
		WHERE id = $3 AND status IN ($4, $5)
	`, step, message, id, model.StatusPending, model.StatusRunning)
	return err
}

func (r *JobRepository) CompleteJob(id string, result model.JobResult) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		UPDATE ingestion_job
		SET status = $1, result = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, model.StatusCompleted, blob, id, model.StatusRunning)
	return err
}

func (r *JobRepository) FailJob(id, errMsg string) error {
	_, err := r.db.Exec(`
		UPDATE ingestion_job
		SET status = $1, error = $2, updated_at = now()
		WHERE id = $3 AND status IN ($4, $5)
	`, model.StatusFailed, errMsg, id, model.StatusPending, model.StatusRunning)
	return err
}

func (r *JobRepository) GetJob(id string) (*model.IngestionJob, error) {
	var job model.IngestionJob
	var steps []byte
	var result sql.NullString

	err := r.db.QueryRow(`
		SELECT id, status, progress, steps, result, error, created_at, updated_at
		FROM ingestion_job
		WHERE id = $1
	`, id).Scan(&job.ID, &job.Status, &job.Progress, &steps, &result, &job.Error, &job.CreatedAt, &job.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(steps, &job.Steps); err != nil {
		job.Steps = nil
	}
	if result.Valid {
		var jr model.JobResult
		if err := json.Unmarshal([]byte(result.String), &jr); err == nil {
			job.Result = &jr
		}
	}

	return &job, nil
}

// GetActiveJob returns the single pending or running job, if any.
func (r *JobRepository) GetActiveJob() (*model.IngestionJob, error) {
	var id string
	err := r.db.QueryRow(`
		SELECT id FROM ingestion_job
		WHERE status IN ($1, $2)
		LIMIT 1
	`, model.StatusPending, model.StatusRunning).Scan(&id)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.GetJob(id)
}
