package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a named unit of scheduled work
type Task interface {
	Name() string
	Run(ctx context.Context, now time.Time) error
}

// IntervalTrigger runs a task at a fixed interval. The scheduled
// evaluator runs on it, hourly by default.
type IntervalTrigger struct {
	interval time.Duration
	task     Task
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates an interval trigger
func NewIntervalTrigger(interval time.Duration, task Task, logger *zap.Logger) *IntervalTrigger {
	if interval <= 0 {
		interval = time.Hour
	}
	return &IntervalTrigger{
		interval: interval,
		task:     task,
		logger:   logger,
	}
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("interval trigger started",
		zap.String("task", t.task.Name()),
		zap.Duration("interval", t.interval),
	)
	return nil
}

// Stop stops the trigger loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	return nil
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.runTask(ctx, now)
		}
	}
}

func (t *IntervalTrigger) runTask(ctx context.Context, now time.Time) {
	if err := t.task.Run(ctx, now); err != nil {
		t.logger.Error("scheduled task failed",
			zap.String("task", t.task.Name()),
			zap.Error(err),
		)
	}
}

// DailyTrigger runs a task once per day after a given hour. The
// payment resend job runs on it. A date guard keeps the task from
// firing twice on the same day when the check interval is short.
type DailyTrigger struct {
	hour          int
	checkInterval time.Duration
	task          Task
	logger        *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a daily trigger firing at the given hour
func NewDailyTrigger(hour int, task Task, logger *zap.Logger) *DailyTrigger {
	if hour < 0 || hour > 23 {
		hour = 9
	}
	return &DailyTrigger{
		hour:          hour,
		checkInterval: time.Minute,
		task:          task,
		logger:        logger,
	}
}

// Start starts the trigger loop
func (t *DailyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("daily trigger started",
		zap.String("task", t.task.Name()),
		zap.Int("hour", t.hour),
	)
	return nil
}

// Stop stops the trigger loop
func (t *DailyTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	return nil
}

func (t *DailyTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.maybeRun(ctx, now)
		}
	}
}

func (t *DailyTrigger) maybeRun(ctx context.Context, now time.Time) {
	if now.Hour() < t.hour {
		return
	}
	today := now.Format("2006-01-02")
	if t.lastRunDate == today {
		return
	}
	t.lastRunDate = today

	if err := t.task.Run(ctx, now); err != nil {
		t.logger.Error("scheduled task failed",
			zap.String("task", t.task.Name()),
			zap.Error(err),
		)
	}
}
