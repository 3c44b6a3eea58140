package jobx

import (
	"encoding/json"
	"time"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// Done reports whether the job reached a terminal state.
func (s JobStatus) Done() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is a unit of work to be enqueued.
type Job struct {
	Type    string          `json:"type"`
	Queue   string          `json:"queue"`
	Payload json.RawMessage `json:"payload"`

	// MaxRetries is the number of attempts before the job is marked failed.
	// Zero takes the client default.
	MaxRetries int `json:"max_retries"`
}

// NewJob marshals payload into a Job of the given type.
func NewJob(jobType, queue string, payload any) (Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Job{}, ErrRegistry.NewWithCause(CodeInvalidPayload, err).WithDetail("type", jobType)
	}
	return Job{Type: jobType, Queue: queue, Payload: data}, nil
}

// JobInfo is a job as stored in the backend.
type JobInfo struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Queue      string          `json:"queue"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	MaxRetries int             `json:"max_retries"`
	Attempts   int             `json:"attempts"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DecodePayload unmarshals the job payload into T.
func DecodePayload[T any](job *JobInfo) (T, error) {
	var v T
	if err := json.Unmarshal(job.Payload, &v); err != nil {
		return v, ErrRegistry.NewWithCause(CodeInvalidPayload, err).
			WithDetail("job_id", job.ID).
			WithDetail("type", job.Type)
	}
	return v, nil
}
