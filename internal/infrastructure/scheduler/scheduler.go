package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a queued job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType identifies what a job does. Executors are registered per type, so
// the queue stays decoupled from the work it carries.
type JobType string

const (
	// JobTypeBacklogDate aggregates one calendar day of completed appointments.
	JobTypeBacklogDate JobType = "BACKLOG_DATE"
	// JobTypeAppointmentReminders sends reminder emails for upcoming appointments.
	JobTypeAppointmentReminders JobType = "APPOINTMENT_REMINDERS"
)

// Job represents one unit of queued work
type Job struct {
	ID          uuid.UUID
	Type        JobType
	Date        time.Time // the calendar day a BACKLOG_DATE job covers
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a new pending job
func NewJob(jobType JobType, date time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Date:       date,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job has retry budget left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for another attempt after the given delay
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor executes jobs of one type
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Config holds scheduler configuration
type Config struct {
	MaxConcurrentJobs int
	QueueSize         int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryInitialDelay time.Duration
	FailureLogSize    int
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 3,
		QueueSize:         100,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryInitialDelay: 5 * time.Second,
		FailureLogSize:    500,
	}
}

// Scheduler is a worker pool consuming jobs from a bounded queue. Failed jobs
// are retried with exponential backoff; jobs that exhaust their retries land
// in a bounded failure log for operator inspection.
type Scheduler struct {
	config     Config
	executors  map[JobType]JobExecutor
	logger     *zap.Logger
	failureLog *FailureLog

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, logger *zap.Logger) *Scheduler {
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 10 * time.Minute
	}
	return &Scheduler{
		config:     config,
		executors:  make(map[JobType]JobExecutor),
		logger:     logger,
		failureLog: NewFailureLog(config.FailureLogSize),
		jobs:       make(chan *Job, config.QueueSize),
	}
}

// Register binds an executor to a job type. Must be called before Start.
func (s *Scheduler) Register(jobType JobType, executor JobExecutor) {
	s.executors[jobType] = executor
}

// FailureLog exposes the permanently failed jobs
func (s *Scheduler) FailureLog() *FailureLog {
	return s.failureLog
}

// RetryAttempts returns the configured retry budget per job
func (s *Scheduler) RetryAttempts() int {
	return s.config.RetryAttempts
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

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Job scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Int("queue_size", s.config.QueueSize),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	// The queue channel stays open: a worker mid-retry may still re-queue a
	// job, and workers exit on context cancellation anyway.
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
		s.logger.Info("Job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob submits a job for execution
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// worker processes jobs from the queue
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job, handling retry scheduling
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	// Not due yet (backoff pending): re-queue and let another worker pick it
	// up later.
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		select {
		case s.jobs <- job:
		default:
			s.logger.Warn("Failed to re-queue job for retry",
				zap.String("job_id", job.ID.String()),
			)
		}
		return
	}

	executor, ok := s.executors[job.Type]
	if !ok {
		job.Fail(ErrNoExecutor.Error())
		s.failureLog.Record(job)
		s.logger.Error("No executor for job type",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		return
	}

	job.Start()
	s.logger.Info("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Time("date", job.Date),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		s.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			delay := s.retryDelay(job.RetryCount)
			job.ScheduleRetry(delay)
			s.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
				zap.Duration("delay", delay),
			)
			select {
			case s.jobs <- job:
			default:
				s.logger.Warn("Failed to re-queue job for retry",
					zap.String("job_id", job.ID.String()),
				)
				s.failureLog.Record(job)
			}
			return
		}

		// Retries exhausted. Record and move on: one day's failure never
		// blocks other days.
		s.failureLog.Record(job)
		return
	}

	job.Complete()
	s.logger.Info("Job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)
}

// retryDelay returns the exponential backoff delay for the given attempt:
// initial, 2x initial, 4x initial, ...
func (s *Scheduler) retryDelay(retryCount int) time.Duration {
	delay := s.config.RetryInitialDelay
	for i := 0; i < retryCount; i++ {
		delay *= 2
	}
	return delay
}

// ScheduleBacklogDate enqueues aggregation of one calendar day
func (s *Scheduler) ScheduleBacklogDate(date time.Time) error {
	return s.SubmitJob(NewJob(JobTypeBacklogDate, date, s.config.RetryAttempts))
}

// ScheduleBacklogRange enqueues one independent job per day in [start, end]
func (s *Scheduler) ScheduleBacklogRange(start, end time.Time) (int, error) {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := s.ScheduleBacklogDate(d); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
