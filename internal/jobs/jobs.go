// Package jobs tracks in-flight and finished collection runs. The registry
// is in-memory only; restarting the daemon forgets old jobs.
package jobs

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the job id is unknown.
var ErrNotFound = errors.New("job not found")

// Status values a job moves through. There is no cancellation; a running
// job always ends completed or failed.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job is a snapshot of one collection run. Logs is append-only while the
// run is live.
type Job struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	Collected      int       `json:"collected"`
	Total          int       `json:"total"`
	Logs           []string  `json:"logs"`
	StartedAt      time.Time `json:"started_at"`
	Error          string    `json:"error,omitempty"`
	Language       string    `json:"language"`
	CustomKeywords []string  `json:"custom_keywords,omitempty"`
}

// Params describe a new collection run.
type Params struct {
	Total          int
	Language       string
	CustomKeywords []string
}

// Registry is a mutex-guarded job table. Reads return copies; only the
// worker that owns a job mutates it, through the registry.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new running job and returns its snapshot.
func (r *Registry) Create(params Params) Job {
	job := &Job{
		ID:             uuid.NewString(),
		Status:         StatusRunning,
		Total:          params.Total,
		StartedAt:      time.Now().UTC(),
		Language:       params.Language,
		CustomKeywords: append([]string(nil), params.CustomKeywords...),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return snapshot(job)
}

// Get returns a copy of the job, so callers can read it without racing the
// worker.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return snapshot(job), true
}

// Log appends a progress line to the job.
func (r *Registry) Log(id, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Logs = append(job.Logs, line)
	}
}

// SetCollected updates the running count of admitted courses.
func (r *Registry) SetCollected(id string, collected int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Collected = collected
	}
}

// Complete marks the job finished. A run that admitted nothing still
// completes.
func (r *Registry) Complete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Status = StatusCompleted
	}
}

// Fail marks the job failed with a reason.
func (r *Registry) Fail(id, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Status = StatusFailed
		job.Error = msg
	}
}

func snapshot(job *Job) Job {
	copied := *job
	copied.Logs = append([]string(nil), job.Logs...)
	copied.CustomKeywords = append([]string(nil), job.CustomKeywords...)
	return copied
}
