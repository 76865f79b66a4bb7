// Package backlog contains the daily hours aggregation engine and the
// reporting queries built on top of its materialized entries.
package backlog

import (
	"context"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/backlog"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AggregationService turns completed appointments into daily backlog
// entries and keeps the monthly recap in sync. It runs as the executor
// behind BACKLOG_DATE jobs and can also be invoked directly for manual
// reprocessing.
type AggregationService struct {
	appointments scheduling.AppointmentRepository
	entries      backlog.EntryRepository
	recaps       backlog.RecapRepository
	capacity     decimal.Decimal
	logger       *zap.Logger
}

// NewAggregationService creates a new aggregation service. capacityHours is
// the monthly capacity ceiling used for the over-capacity warning.
func NewAggregationService(
	appointments scheduling.AppointmentRepository,
	entries backlog.EntryRepository,
	recaps backlog.RecapRepository,
	capacityHours int,
	logger *zap.Logger,
) *AggregationService {
	return &AggregationService{
		appointments: appointments,
		entries:      entries,
		recaps:       recaps,
		capacity:     decimal.NewFromInt(int64(capacityHours)),
		logger:       logger,
	}
}

// Execute implements scheduler.JobExecutor
func (s *AggregationService) Execute(ctx context.Context, job *scheduler.Job) error {
	if job.Type != scheduler.JobTypeBacklogDate {
		return scheduler.ErrNoExecutor
	}
	_, err := s.ProcessDate(ctx, job.Date)
	return err
}

// DaySummary reports what one aggregation run produced
type DaySummary struct {
	Date               time.Time       `json:"date"`
	CoworkersProcessed int             `json:"coworkers_processed"`
	TotalHours         decimal.Decimal `json:"total_hours"`
	TotalAppointments  int             `json:"total_appointments"`
}

// dailyTotal accumulates one coworker's day while grouping
type dailyTotal struct {
	hours        decimal.Decimal
	appointments int
}

// ProcessDate aggregates all COMPLETED appointments whose start time falls
// on the given calendar day into one entry per coworker. Re-running a date
// overwrites existing entries with freshly computed totals, so the operation
// is idempotent. The affected month's recap is refreshed afterwards.
func (s *AggregationService) ProcessDate(ctx context.Context, date time.Time) (*DaySummary, error) {
	dayStart := backlog.StartOfDay(date)
	dayEnd := backlog.EndOfDay(date)

	completed, err := s.appointments.FindCompletedInWindow(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]*dailyTotal)
	for _, appt := range completed {
		t, ok := totals[appt.CoworkerID]
		if !ok {
			t = &dailyTotal{hours: decimal.Zero}
			totals[appt.CoworkerID] = t
		}
		t.hours = t.hours.Add(appt.DurationHours)
		t.appointments++
	}

	summary := &DaySummary{Date: dayStart, TotalHours: decimal.Zero}
	if len(totals) > 0 {
		entries := make([]*backlog.Entry, 0, len(totals))
		for coworkerID, t := range totals {
			entries = append(entries, backlog.NewEntry(coworkerID, dayStart, t.hours, t.appointments))
			summary.TotalHours = summary.TotalHours.Add(t.hours)
			summary.TotalAppointments += t.appointments
		}
		summary.CoworkersProcessed = len(entries)
		if err := s.entries.SaveBatch(ctx, entries); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Processed backlog date",
		zap.Time("date", dayStart),
		zap.Int("appointments", len(completed)),
		zap.Int("coworkers", len(totals)),
	)

	// The recap is refreshed even for an empty day so that reprocessing a
	// date whose appointments were since cancelled corrects the month total.
	if err := s.RefreshMonth(ctx, dayStart); err != nil {
		return nil, err
	}
	return summary, nil
}

// RefreshMonth recomputes the monthly recap for the month containing t from
// the materialized daily entries and upserts it. Exceeding the capacity
// ceiling logs a warning but never fails the run.
func (s *AggregationService) RefreshMonth(ctx context.Context, t time.Time) error {
	monthStart, nextMonth := backlog.MonthBounds(t)

	entries, err := s.entries.FindInRange(ctx, monthStart, nextMonth.Add(-time.Nanosecond), nil)
	if err != nil {
		return err
	}

	totalHours := decimal.Zero
	totalAppointments := 0
	for _, entry := range entries {
		totalHours = totalHours.Add(entry.HoursWorked)
		totalAppointments += entry.AppointmentsCompleted
	}

	recap := backlog.NewMonthlyRecap(monthStart.Year(), monthStart.Month(), totalHours, totalAppointments)
	if err := s.recaps.Save(ctx, recap); err != nil {
		return err
	}

	if totalHours.GreaterThan(s.capacity) {
		s.logger.Warn("Monthly hours exceed capacity",
			zap.Int("year", recap.Year),
			zap.Int("month", recap.Month),
			zap.String("total_hours", totalHours.String()),
			zap.String("capacity_hours", s.capacity.String()),
		)
	}

	return nil
}
