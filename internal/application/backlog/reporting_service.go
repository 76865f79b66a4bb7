package backlog

import (
	"context"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/backlog"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Statistics summarizes daily entries over an arbitrary date range.
// RemainingCapacity always tracks the current month, not the queried range.
type Statistics struct {
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	TotalHours         decimal.Decimal `json:"total_hours"`
	TotalAppointments  int             `json:"total_appointments"`
	EntryCount         int             `json:"entry_count"`
	AverageHoursPerDay decimal.Decimal `json:"average_hours_per_day"`
	RemainingCapacity  decimal.Decimal `json:"remaining_capacity"`
}

// RecapReport is a monthly recap enriched with derived figures.
type RecapReport struct {
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	MonthName           string          `json:"month_name"`
	TotalHours          decimal.Decimal `json:"total_hours"`
	TotalAppointments   int             `json:"total_appointments"`
	DailyAverage        decimal.Decimal `json:"daily_average"`
	CapacityUsedPercent decimal.Decimal `json:"capacity_used_percent"`
}

// CapacityReport describes how much of the current month's capacity is left.
type CapacityReport struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	MonthlyCapacity   decimal.Decimal `json:"monthly_capacity"`
	CurrentMonthHours decimal.Decimal `json:"current_month_hours"`
	RemainingCapacity decimal.Decimal `json:"remaining_capacity"`
	IsOverCapacity    bool            `json:"is_over_capacity"`
}

// ReportingService answers read-only queries over the materialized backlog
// data. All figures derive from entries and recaps, never from raw
// appointments, so reads stay cheap.
type ReportingService struct {
	entries  backlog.EntryRepository
	recaps   backlog.RecapRepository
	capacity decimal.Decimal
	now      func() time.Time
	logger   *zap.Logger
}

// NewReportingService creates a new reporting service
func NewReportingService(
	entries backlog.EntryRepository,
	recaps backlog.RecapRepository,
	capacityHours int,
	logger *zap.Logger,
) *ReportingService {
	return &ReportingService{
		entries:  entries,
		recaps:   recaps,
		capacity: decimal.NewFromInt(int64(capacityHours)),
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock overrides the time source. Test helper.
func (s *ReportingService) WithClock(now func() time.Time) *ReportingService {
	s.now = now
	return s
}

// Entries returns the daily entries in [start, end], optionally filtered to
// one coworker.
func (s *ReportingService) Entries(ctx context.Context, start, end time.Time, coworkerID *uuid.UUID) ([]backlog.Entry, error) {
	if end.Before(start) {
		return nil, shared.ErrInvalidInput.WithDetails("end date is before start date")
	}
	return s.entries.FindInRange(ctx, backlog.StartOfDay(start), backlog.EndOfDay(end), coworkerID)
}

// GetStatistics computes range totals over daily entries. The per-day
// average divides by the number of entries, so days without any completed
// appointment do not dilute it. Remaining capacity is measured against the
// current month whatever range was queried, clamped at zero.
func (s *ReportingService) GetStatistics(ctx context.Context, start, end time.Time, coworkerID *uuid.UUID) (*Statistics, error) {
	entries, err := s.Entries(ctx, start, end, coworkerID)
	if err != nil {
		return nil, err
	}

	totalHours := decimal.Zero
	totalAppointments := 0
	for _, entry := range entries {
		totalHours = totalHours.Add(entry.HoursWorked)
		totalAppointments += entry.AppointmentsCompleted
	}

	divisor := int64(len(entries))
	if divisor == 0 {
		divisor = 1
	}

	remaining, err := s.remainingCapacity(ctx, coworkerID)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		StartDate:          backlog.StartOfDay(start),
		EndDate:            backlog.StartOfDay(end),
		TotalHours:         totalHours,
		TotalAppointments:  totalAppointments,
		EntryCount:         len(entries),
		AverageHoursPerDay: totalHours.DivRound(decimal.NewFromInt(divisor), 2),
		RemainingCapacity:  remaining,
	}, nil
}

// remainingCapacity subtracts the current month's hours from the monthly
// ceiling, honoring the same coworker filter as the queried range.
func (s *ReportingService) remainingCapacity(ctx context.Context, coworkerID *uuid.UUID) (decimal.Decimal, error) {
	monthStart, nextMonth := backlog.MonthBounds(s.now())

	monthEntries, err := s.entries.FindInRange(ctx, monthStart, nextMonth.Add(-time.Nanosecond), coworkerID)
	if err != nil {
		return decimal.Zero, err
	}

	monthHours := decimal.Zero
	for _, entry := range monthEntries {
		monthHours = monthHours.Add(entry.HoursWorked)
	}

	remaining := s.capacity.Sub(monthHours)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return remaining, nil
}

// GetMonthlyRecap returns the recap for one month with derived figures
func (s *ReportingService) GetMonthlyRecap(ctx context.Context, year int, month time.Month) (*RecapReport, error) {
	if month < time.January || month > time.December {
		return nil, shared.ErrInvalidInput.WithDetails("month must be between 1 and 12")
	}

	recap, err := s.recaps.FindByMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	return s.toRecapReport(recap), nil
}

// GetAllMonthlyRecaps returns every recap, most recent month first
func (s *ReportingService) GetAllMonthlyRecaps(ctx context.Context) ([]RecapReport, error) {
	recaps, err := s.recaps.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]RecapReport, 0, len(recaps))
	for i := range recaps {
		reports = append(reports, *s.toRecapReport(&recaps[i]))
	}
	return reports, nil
}

// GetCapacity reports remaining capacity for the current month. Remaining
// capacity is clamped at zero; the over-capacity flag carries the overrun.
func (s *ReportingService) GetCapacity(ctx context.Context) (*CapacityReport, error) {
	now := s.now()
	monthStart, nextMonth := backlog.MonthBounds(now)

	entries, err := s.entries.FindInRange(ctx, monthStart, nextMonth.Add(-time.Nanosecond), nil)
	if err != nil {
		return nil, err
	}

	currentHours := decimal.Zero
	for _, entry := range entries {
		currentHours = currentHours.Add(entry.HoursWorked)
	}

	remaining := s.capacity.Sub(currentHours)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return &CapacityReport{
		Year:              monthStart.Year(),
		Month:             int(monthStart.Month()),
		MonthlyCapacity:   s.capacity,
		CurrentMonthHours: currentHours,
		RemainingCapacity: remaining,
		IsOverCapacity:    currentHours.GreaterThan(s.capacity),
	}, nil
}

// toRecapReport derives presentation figures. Capacity usage is not capped
// at 100 percent; an over-committed month reads above it.
func (s *ReportingService) toRecapReport(recap *backlog.MonthlyRecap) *RecapReport {
	days := decimal.NewFromInt(int64(recap.DaysInMonth()))
	hundred := decimal.NewFromInt(100)

	capacityUsed := decimal.Zero
	if s.capacity.IsPositive() {
		capacityUsed = recap.TotalHours.Mul(hundred).DivRound(s.capacity, 2)
	}

	return &RecapReport{
		Year:                recap.Year,
		Month:               recap.Month,
		MonthName:           recap.MonthName(),
		TotalHours:          recap.TotalHours,
		TotalAppointments:   recap.TotalAppointments,
		DailyAverage:        recap.TotalHours.DivRound(days, 2),
		CapacityUsedPercent: capacityUsed,
	}
}
