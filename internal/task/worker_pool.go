package task

import (
	"context"
	"log/slog"
	"sync"

	"github.com/yoman-app/yoman-api/internal/metrics"
)

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// cancel stops the workers started by Start
	cancel context.CancelFunc

	logger *slog.Logger

	// process is called for every task taken off the queue
	process func(ctx context.Context, task Task, workerID int)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
	}
}

// NewWorkerPool creates a worker pool that hands every task to process. A nil
// process executes the task and logs failures.
func NewWorkerPool(
	taskQueue TaskQueueReader,
	config WorkerPoolConfig,
	process func(ctx context.Context, task Task, workerID int),
	logger *slog.Logger,
) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	p := &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		logger:      logger,
		process:     process,
	}
	if p.process == nil {
		p.process = p.execute
	}
	return p
}

// Start launches the workers. They run until ctx is cancelled, Stop is
// called or the queue is closed.
func (p *WorkerPool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.logger.Info("worker pool started", "worker_count", p.workerCount)
}

// Stop cancels the workers and waits for in-flight tasks to finish.
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)
	tasks := p.taskQueue.GetChannel()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-tasks:
			if !ok {
				p.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			metrics.TaskQueueDepth.Set(float64(len(tasks)))
			// In-flight tasks finish even when shutdown has begun.
			p.process(context.WithoutCancel(ctx), task, id)
		}
	}
}

func (p *WorkerPool) execute(ctx context.Context, task Task, workerID int) {
	if err := task.Execute(ctx); err != nil {
		p.logger.Error("task execution failed",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"worker_id", workerID,
			"error", err)
	}
}
