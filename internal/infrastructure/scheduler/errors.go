package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	// ErrJobQueueFull is returned when the job queue is at capacity
	ErrJobQueueFull = errors.New("job queue is full")
)
