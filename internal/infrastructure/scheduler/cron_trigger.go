package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the recurring triggers
type CronTriggerConfig struct {
	// DailyRunHour and DailyRunMinute give the local time of the daily
	// backlog aggregation run.
	DailyRunHour   int
	DailyRunMinute int

	// CheckInterval is how often to check whether it's time to run
	CheckInterval time.Duration

	// ReminderEnabled controls the recurring appointment-reminder job
	ReminderEnabled bool
	// ReminderInterval is how often the reminder job is enqueued
	ReminderInterval time.Duration
}

// DefaultCronTriggerConfig returns the default trigger configuration:
// aggregate yesterday at 23:59 and enqueue reminders hourly.
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		DailyRunHour:     23,
		DailyRunMinute:   59,
		CheckInterval:    30 * time.Second,
		ReminderEnabled:  true,
		ReminderInterval: time.Hour,
	}
}

// CronTrigger produces recurring jobs for the scheduler: it decides WHEN to
// run, the executors decide what running means.
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // date of the last daily trigger, prevents double fires
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *CronTrigger {
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Test helper.
func (c *CronTrigger) WithClock(now func() time.Time) *CronTrigger {
	c.now = now
	return c
}

// Start starts the trigger loops
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.dailyLoop(ctx)

	if c.config.ReminderEnabled {
		c.wg.Add(1)
		go c.reminderLoop(ctx)
	}

	c.logger.Info("Cron trigger started",
		zap.Int("daily_hour", c.config.DailyRunHour),
		zap.Int("daily_minute", c.config.DailyRunMinute),
		zap.Duration("check_interval", c.config.CheckInterval),
		zap.Bool("reminders", c.config.ReminderEnabled),
	)

	return nil
}

// Stop stops the trigger loops
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dailyLoop checks periodically whether the daily aggregation is due
func (c *CronTrigger) dailyLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// checkAndTrigger enqueues yesterday's aggregation once the configured time
// of day has been reached and today's run has not fired yet. Comparing
// against the due time rather than the exact minute keeps the run from being
// skipped when the check interval is longer than a minute.
func (c *CronTrigger) checkAndTrigger() {
	now := c.now()
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	alreadyRan := c.lastRunDate == currentDate
	c.mu.Unlock()
	if alreadyRan {
		return
	}

	due := time.Date(now.Year(), now.Month(), now.Day(),
		c.config.DailyRunHour, c.config.DailyRunMinute, 0, 0, now.Location())
	if now.Before(due) {
		return
	}

	c.mu.Lock()
	c.lastRunDate = currentDate
	c.mu.Unlock()

	yesterday := now.AddDate(0, 0, -1)
	c.logger.Info("Triggering daily backlog aggregation",
		zap.String("date", yesterday.Format("2006-01-02")),
	)
	if err := c.scheduler.ScheduleBacklogDate(yesterday); err != nil {
		c.logger.Error("Failed to enqueue daily backlog job", zap.Error(err))
	}
}

// reminderLoop enqueues the appointment reminder job on a fixed interval
func (c *CronTrigger) reminderLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job := NewJob(JobTypeAppointmentReminders, time.Now(), c.scheduler.RetryAttempts())
			if err := c.scheduler.SubmitJob(job); err != nil {
				c.logger.Error("Failed to enqueue reminder job", zap.Error(err))
			}
		}
	}
}
