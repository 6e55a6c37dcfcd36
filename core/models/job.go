package models

import "time"

// Job represents a generation job submitted to the service
type Job struct {
	ID          string
	Prompt      string
	Parameters  Parameters
	Status      JobStatus
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Result      *Bundle // set iff Status == JobStatusCompleted
	Error       string  // set iff Status == JobStatusFailed
}

// Parameters are the numeric generation knobs, immutable once submitted
type Parameters struct {
	Seed          int     `json:"seed"`
	Steps         int     `json:"steps"`
	GuidanceScale float64 `json:"guidance_scale"`
}

// DefaultParameters returns the documented submission defaults
func DefaultParameters() Parameters {
	return Parameters{Seed: 42, Steps: 20, GuidanceScale: 7.5}
}

// JobStatus represents the current status of a job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status can no longer change
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// StatusView is a point-in-time snapshot of a job returned to callers.
// When the job completed, the embedded Bundle flattens the result fields
// into the same JSON object; the view's own job_id and status take
// precedence over the bundle's copies.
type StatusView struct {
	JobID       string     `json:"job_id"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	*Bundle
}

// View builds the snapshot for the job's current state
func (j *Job) View() StatusView {
	v := StatusView{
		JobID:       j.ID,
		Status:      j.Status,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
	switch j.Status {
	case JobStatusCompleted:
		v.Bundle = j.Result
	case JobStatusFailed:
		v.Error = j.Error
	}
	return v
}
