package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/resilience"
)

// JobExecutor is the interface for executing background jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// retryMultiplier doubles the delay on each retry of a failed job
const retryMultiplier = 2.0

// Scheduler runs background jobs on a bounded worker pool. Each job
// priority has its own queue; workers drain higher-priority queues first.
type Scheduler struct {
	config   config.SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	queues    [priorityCount]chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg config.SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	s := &Scheduler{
		config:   cfg,
		executor: executor,
		logger:   logger,
	}
	for i := range s.queues {
		s.queues[i] = make(chan *Job, queueSize)
	}
	return s
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

	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Scheduler started",
		zap.Int("workers", s.config.WorkerCount),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler. The queues stay open so that
// in-flight submits and pending retries cannot panic; workers exit via
// context cancellation and queued jobs are abandoned.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if depth := s.QueueDepth(); depth > 0 {
			s.logger.Warn("Scheduler stopped with jobs still queued",
				zap.Int("queue_depth", depth),
			)
		} else {
			s.logger.Info("Scheduler stopped gracefully")
		}
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob submits a job for execution on the queue matching its priority
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.queue(job.Priority) <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
			zap.String("priority", job.Priority.String()),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// QueueDepth returns the number of jobs waiting across all queues
func (s *Scheduler) QueueDepth() int {
	depth := 0
	for _, q := range s.queues {
		depth += len(q)
	}
	return depth
}

// queue maps a priority to its channel, clamping unknown values to normal
func (s *Scheduler) queue(priority JobPriority) chan *Job {
	if priority < PriorityHigh || priority >= priorityCount {
		priority = PriorityNormal
	}
	return s.queues[priority]
}

// worker processes jobs from the queues, preferring higher priorities
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Worker started", zap.Int("worker_id", workerID))

	for {
		// Drain the high queue before looking at the rest
		select {
		case <-ctx.Done():
			s.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
			return
		case job := <-s.queues[PriorityHigh]:
			s.processJob(ctx, job, workerID)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			s.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
			return
		case job := <-s.queues[PriorityHigh]:
			s.processJob(ctx, job, workerID)
		case job := <-s.queues[PriorityNormal]:
			s.processJob(ctx, job, workerID)
		case job := <-s.queues[PriorityLow]:
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job with timeout and retry bookkeeping
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	s.logger.Info("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	err := s.executor.Execute(jobCtx, job)
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			delay := resilience.Backoff(s.config.RetryBaseDelay, retryMultiplier, job.RetryCount)
			job.ScheduleRetry(delay)
			s.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
				zap.Duration("delay", delay),
			)
			// Resubmit from a timer so the worker stays free during the
			// backoff. SubmitJob rejects the retry if the scheduler has
			// stopped in the meantime.
			time.AfterFunc(delay, func() {
				if err := s.SubmitJob(job); err != nil {
					s.logger.Warn("Dropping job retry",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
			})
		}
		return
	}

	job.Complete()
	s.logger.Info("Job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
	)
}
