// Package scheduler owns job identity and state and drives the single
// background worker that executes pending jobs in submission order.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"asset-forge/core/generator"
	"asset-forge/core/models"
	"asset-forge/core/monitoring"
)

// ErrJobNotFound is returned for status lookups on unknown job ids
var ErrJobNotFound = errors.New("job not found")

// Scheduler maps job ids to jobs and serializes their execution through one
// worker loop. Submissions and status reads are safe from any goroutine;
// the worker is the only writer of job state after submission.
type Scheduler struct {
	gen      *generator.Generator
	exporter *monitoring.Exporter
	logger   *zap.Logger

	mu    sync.RWMutex
	jobs  map[string]*models.Job
	queue *JobQueue

	pollInterval time.Duration
	wake         chan struct{}
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewScheduler creates a new scheduler
func NewScheduler(gen *generator.Generator, exporter *monitoring.Exporter, logger *zap.Logger, pollInterval time.Duration) *Scheduler {
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}
	return &Scheduler{
		gen:          gen,
		exporter:     exporter,
		logger:       logger,
		jobs:         make(map[string]*models.Job),
		queue:        NewJobQueue(),
		pollInterval: pollInterval,
		wake:         make(chan struct{}, 1),
		stopChan:     make(chan struct{}),
	}
}

// Submit registers a new pending job and returns its id without waiting for
// execution. It always succeeds.
func (s *Scheduler) Submit(prompt string, params models.Parameters) string {
	job := &models.Job{
		ID:         uuid.New().String(),
		Prompt:     prompt,
		Parameters: params,
		Status:     models.JobStatusPending,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.queue.Enqueue(job)
	s.mu.Unlock()

	s.exporter.JobSubmitted()
	s.exporter.SetPending(s.queue.Size())
	s.logger.Info("job submitted", zap.String("job_id", job.ID), zap.String("prompt", prompt))

	// wake the worker; a full buffer means a wakeup is already queued
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return job.ID
}

// Status returns a point-in-time snapshot of one job
func (s *Scheduler) Status(jobID string) (models.StatusView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return models.StatusView{}, ErrJobNotFound
	}
	return job.View(), nil
}

// List returns a snapshot of every known job keyed by id
func (s *Scheduler) List() map[string]models.StatusView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make(map[string]models.StatusView, len(s.jobs))
	for id, job := range s.jobs {
		views[id] = job.View()
	}
	return views
}

// Start runs the worker loop until the context is cancelled or Stop is
// called. It blocks and is meant to run in its own goroutine; only one
// worker may run per scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.logger.Info("worker started", zap.Duration("poll_interval", s.pollInterval))
	for {
		s.drain()
		select {
		case <-ctx.Done():
			s.logger.Info("worker stopped", zap.String("reason", "context cancelled"))
			return
		case <-s.stopChan:
			s.logger.Info("worker stopped", zap.String("reason", "stop requested"))
			return
		case <-s.wake:
		case <-ticker.C:
		}
	}
}

// Stop asks the worker loop to exit after its current iteration. An
// in-flight job is never cancelled.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// drain processes queued jobs one at a time until the queue is empty or a
// stop was requested.
func (s *Scheduler) drain() {
	for {
		select {
		case <-s.stopChan:
			return
		default:
		}
		job := s.queue.PopJob()
		if job == nil {
			return
		}
		s.exporter.SetPending(s.queue.Size())
		s.process(job)
	}
}

// process runs one job through the generation pipeline. State, payload and
// timestamps transition under the index lock so readers never observe a
// partially updated job.
func (s *Scheduler) process(job *models.Job) {
	started := time.Now()
	s.mu.Lock()
	if job.Status != models.JobStatusPending {
		s.mu.Unlock()
		return
	}
	job.Status = models.JobStatusRunning
	job.StartedAt = &started
	s.mu.Unlock()

	bundle, err := s.gen.Run(job.ID, job.Prompt, job.Parameters)

	completed := time.Now()
	s.mu.Lock()
	job.CompletedAt = &completed
	if err != nil {
		job.Status = models.JobStatusFailed
		job.Error = err.Error()
	} else {
		job.Status = models.JobStatusCompleted
		job.Result = bundle
	}
	s.mu.Unlock()

	s.exporter.JobFinished(err != nil, completed.Sub(started).Seconds())
	if err != nil {
		s.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	s.logger.Info("job completed",
		zap.String("job_id", job.ID),
		zap.Duration("duration", completed.Sub(started)))
}
