package notification

import (
	"context"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// reminderWindow is how far ahead of the start time a reminder goes out.
// The job runs hourly, so each run covers the hour-wide slice around the
// 24 hour mark and no appointment is reminded twice.
const reminderWindow = 24 * time.Hour

// ReminderService sends reminder emails for appointments starting roughly
// one day out. It runs as the executor behind APPOINTMENT_REMINDERS jobs.
type ReminderService struct {
	appointmentRepo scheduling.AppointmentRepository
	clientRepo      clientele.ClientRepository
	notifier        *EmailNotifier
	interval        time.Duration
	logger          *zap.Logger
}

// NewReminderService creates a new reminder service. interval must match
// the cadence the reminder job is scheduled at.
func NewReminderService(
	appointmentRepo scheduling.AppointmentRepository,
	clientRepo clientele.ClientRepository,
	notifier *EmailNotifier,
	interval time.Duration,
	logger *zap.Logger,
) *ReminderService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderService{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		notifier:        notifier,
		interval:        interval,
		logger:          logger,
	}
}

// Execute implements scheduler.JobExecutor
func (s *ReminderService) Execute(ctx context.Context, job *scheduler.Job) error {
	if job.Type != scheduler.JobTypeAppointmentReminders {
		return scheduler.ErrNoExecutor
	}
	return s.SendReminders(ctx, time.Now())
}

// SendReminders notifies clients whose appointments start inside the
// reminder slice [now+24h, now+24h+interval). A failed lookup for one
// appointment does not stop the rest.
func (s *ReminderService) SendReminders(ctx context.Context, now time.Time) error {
	windowStart := now.Add(reminderWindow)
	windowEnd := windowStart.Add(s.interval)

	upcoming, err := s.appointmentRepo.FindStartingBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return err
	}

	sent := 0
	for i := range upcoming {
		appt := &upcoming[i]
		client, err := s.clientRepo.FindByID(ctx, appt.ClientID)
		if err != nil {
			s.logger.Warn("Skipping reminder, client lookup failed",
				zap.String("appointment_id", appt.ID.String()),
				zap.Error(err))
			continue
		}
		s.notifier.AppointmentReminder(ctx, appt, client)
		sent++
	}

	if len(upcoming) > 0 {
		s.logger.Info("Sent appointment reminders",
			zap.Int("appointments", len(upcoming)),
			zap.Int("reminders_sent", sent))
	}
	return nil
}
