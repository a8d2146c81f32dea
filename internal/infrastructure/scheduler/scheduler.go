// Package scheduler runs the automation background machinery: the
// worker pool that processes queued executions and the time triggers
// that fire the scheduled evaluator and the payment resend job.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job points at one queued execution to be processed by the worker pool
type Job struct {
	ExecutionID uuid.UUID
	TenantID    uuid.UUID
	EnqueuedAt  time.Time
}

// NewJob creates a job for a queued execution
func NewJob(executionID, tenantID uuid.UUID) *Job {
	return &Job{
		ExecutionID: executionID,
		TenantID:    tenantID,
		EnqueuedAt:  time.Now(),
	}
}

// JobExecutor processes one job. The executor owns all error handling:
// a returned error is logged by the worker and never retried, so an
// execution sends at most one notification attempt.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Config holds scheduler configuration
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:    4,
		QueueSize:  256,
		JobTimeout: time.Minute,
	}
}

// Scheduler distributes jobs over a fixed worker pool
type Scheduler struct {
	config   Config
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, executor JobExecutor, logger *zap.Logger) *Scheduler {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, config.QueueSize),
	}
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("automation scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Int("queue_size", s.config.QueueSize),
	)
	return nil
}

// Stop drains the queue and stops the workers
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if s.cancel != nil {
			s.cancel()
		}
		s.logger.Info("automation scheduler stopped")
		return nil
	case <-ctx.Done():
		if s.cancel != nil {
			s.cancel()
		}
		s.logger.Warn("automation scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a job for the worker pool
func (s *Scheduler) Submit(job *Job) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for job := range s.jobs {
		s.processJob(ctx, job, workerID)
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	jobCtx := ctx
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.executor.Execute(jobCtx, job); err != nil {
		s.logger.Error("job execution failed",
			zap.Int("worker_id", workerID),
			zap.String("execution_id", job.ExecutionID.String()),
			zap.String("tenant_id", job.TenantID.String()),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("job executed",
		zap.Int("worker_id", workerID),
		zap.String("execution_id", job.ExecutionID.String()),
		zap.Duration("duration", time.Since(start)),
	)
}
