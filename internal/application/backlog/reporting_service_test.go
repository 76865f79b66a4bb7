package backlog

import (
	"context"
	"testing"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/backlog"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReportingService_Entries_RejectsInvertedRange(t *testing.T) {
	svc := NewReportingService(new(MockEntryRepository), new(MockRecapRepository), 1500, zap.NewNop())

	start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Entries(context.Background(), start, start.AddDate(0, 0, -1), nil)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrInvalidInput.Code, domainErr.Code)
}

func TestReportingService_GetStatistics_AveragesOverEntryCount(t *testing.T) {
	entries := new(MockEntryRepository)
	svc := NewReportingService(entries, new(MockRecapRepository), 1500, zap.NewNop())

	coworker := uuid.New()
	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{
		*backlog.NewEntry(coworker, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(4), 3),
		*backlog.NewEntry(coworker, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(7), 5),
	}, nil)

	stats, err := svc.GetStatistics(context.Background(),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		&coworker)
	require.NoError(t, err)

	assert.True(t, stats.TotalHours.Equal(decimal.NewFromInt(11)))
	assert.Equal(t, 8, stats.TotalAppointments)
	assert.Equal(t, 2, stats.EntryCount)
	// Days without entries do not dilute the average: 11 / 2, not 11 / 30.
	assert.True(t, stats.AverageHoursPerDay.Equal(decimal.NewFromFloat(5.5)),
		"got %s", stats.AverageHoursPerDay)
}

func TestReportingService_GetStatistics_EmptyRange(t *testing.T) {
	entries := new(MockEntryRepository)
	svc := NewReportingService(entries, new(MockRecapRepository), 1500, zap.NewNop())

	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{}, nil)

	stats, err := svc.GetStatistics(context.Background(),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		nil)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.EntryCount)
	assert.True(t, stats.TotalHours.IsZero())
	assert.True(t, stats.AverageHoursPerDay.IsZero())
}

func TestReportingService_GetStatistics_RemainingCapacityTracksCurrentMonth(t *testing.T) {
	entries := new(MockEntryRepository)
	svc := NewReportingService(entries, new(MockRecapRepository), 1500, zap.NewNop()).
		WithClock(func() time.Time { return time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC) })

	coworker := uuid.New()
	rangeStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	entries.On("FindInRange", mock.Anything, backlog.StartOfDay(rangeStart), backlog.EndOfDay(rangeEnd), &coworker).
		Return([]backlog.Entry{
			*backlog.NewEntry(coworker, rangeStart, decimal.NewFromInt(4), 3),
		}, nil)

	juneStart := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	juneEnd := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	entries.On("FindInRange", mock.Anything, juneStart, juneEnd, &coworker).
		Return([]backlog.Entry{
			*backlog.NewEntry(coworker, juneStart, decimal.NewFromInt(400), 220),
		}, nil)

	stats, err := svc.GetStatistics(context.Background(), rangeStart, rangeEnd, &coworker)
	require.NoError(t, err)

	assert.True(t, stats.TotalHours.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, 3, stats.TotalAppointments)
	// Remaining capacity reflects June, the current month, not the queried
	// April range, and the coworker filter carries over to the monthly query.
	assert.True(t, stats.RemainingCapacity.Equal(decimal.NewFromInt(1100)), "got %s", stats.RemainingCapacity)
	entries.AssertNumberOfCalls(t, "FindInRange", 2)
	entries.AssertExpectations(t)
}

func TestReportingService_GetStatistics_RemainingCapacityClampedAtZero(t *testing.T) {
	entries := new(MockEntryRepository)
	svc := NewReportingService(entries, new(MockRecapRepository), 100, zap.NewNop()).
		WithClock(func() time.Time { return time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC) })

	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{
		*backlog.NewEntry(uuid.New(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(130), 70),
	}, nil)

	stats, err := svc.GetStatistics(context.Background(),
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		nil)
	require.NoError(t, err)
	assert.True(t, stats.RemainingCapacity.IsZero(), "got %s", stats.RemainingCapacity)
}

func TestReportingService_GetMonthlyRecap_ValidatesMonth(t *testing.T) {
	svc := NewReportingService(new(MockEntryRepository), new(MockRecapRepository), 1500, zap.NewNop())

	_, err := svc.GetMonthlyRecap(context.Background(), 2026, time.Month(13))
	require.Error(t, err)

	_, err = svc.GetMonthlyRecap(context.Background(), 2026, time.Month(0))
	require.Error(t, err)
}

func TestReportingService_GetMonthlyRecap_DerivedFigures(t *testing.T) {
	recaps := new(MockRecapRepository)
	svc := NewReportingService(new(MockEntryRepository), recaps, 1500, zap.NewNop())

	recaps.On("FindByMonth", mock.Anything, 2026, time.April).
		Return(backlog.NewMonthlyRecap(2026, time.April, decimal.NewFromInt(300), 180), nil)

	report, err := svc.GetMonthlyRecap(context.Background(), 2026, time.April)
	require.NoError(t, err)

	assert.Equal(t, 2026, report.Year)
	assert.Equal(t, 4, report.Month)
	assert.Equal(t, "April", report.MonthName)
	assert.Equal(t, 180, report.TotalAppointments)
	// 300 hours over 30 days, 20% of the 1500h ceiling.
	assert.True(t, report.DailyAverage.Equal(decimal.NewFromInt(10)), "got %s", report.DailyAverage)
	assert.True(t, report.CapacityUsedPercent.Equal(decimal.NewFromInt(20)), "got %s", report.CapacityUsedPercent)
}

func TestReportingService_GetMonthlyRecap_UsageCanExceedHundredPercent(t *testing.T) {
	recaps := new(MockRecapRepository)
	svc := NewReportingService(new(MockEntryRepository), recaps, 1000, zap.NewNop())

	recaps.On("FindByMonth", mock.Anything, 2026, time.January).
		Return(backlog.NewMonthlyRecap(2026, time.January, decimal.NewFromInt(1250), 700), nil)

	report, err := svc.GetMonthlyRecap(context.Background(), 2026, time.January)
	require.NoError(t, err)
	assert.True(t, report.CapacityUsedPercent.Equal(decimal.NewFromInt(125)), "got %s", report.CapacityUsedPercent)
}

func TestReportingService_GetCapacity_RemainingClampedAtZero(t *testing.T) {
	entries := new(MockEntryRepository)
	svc := NewReportingService(entries, new(MockRecapRepository), 100, zap.NewNop()).
		WithClock(func() time.Time { return time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC) })

	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{
		*backlog.NewEntry(uuid.New(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(130), 70),
	}, nil)

	report, err := svc.GetCapacity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2026, report.Year)
	assert.Equal(t, 6, report.Month)
	assert.True(t, report.CurrentMonthHours.Equal(decimal.NewFromInt(130)))
	assert.True(t, report.RemainingCapacity.IsZero(), "got %s", report.RemainingCapacity)
	assert.True(t, report.IsOverCapacity)
}

func TestReportingService_GetCapacity_UnderCapacity(t *testing.T) {
	entries := new(MockEntryRepository)
	svc := NewReportingService(entries, new(MockRecapRepository), 1500, zap.NewNop()).
		WithClock(func() time.Time { return time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC) })

	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{
		*backlog.NewEntry(uuid.New(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(400), 220),
	}, nil)

	report, err := svc.GetCapacity(context.Background())
	require.NoError(t, err)

	assert.True(t, report.RemainingCapacity.Equal(decimal.NewFromInt(1100)), "got %s", report.RemainingCapacity)
	assert.False(t, report.IsOverCapacity)
}
