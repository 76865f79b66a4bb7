package backlog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_NormalizesDate(t *testing.T) {
	afternoon := time.Date(2026, 3, 10, 15, 42, 7, 123, time.UTC)

	entry := NewEntry(uuid.New(), afternoon, decimal.NewFromFloat(6.5), 4)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), entry.Date)
	assert.True(t, entry.HoursWorked.Equal(decimal.NewFromFloat(6.5)))
	assert.Equal(t, 4, entry.AppointmentsCompleted)
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestNewEntry_KeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	local := time.Date(2026, 3, 10, 23, 30, 0, 0, loc)

	entry := NewEntry(uuid.New(), local, decimal.Zero, 0)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), entry.Date)
}

func TestEntry_Overwrite(t *testing.T) {
	entry := NewEntry(uuid.New(), time.Now(), decimal.NewFromInt(3), 2)

	entry.Overwrite(decimal.NewFromFloat(7.25), 5)

	assert.True(t, entry.HoursWorked.Equal(decimal.NewFromFloat(7.25)))
	assert.Equal(t, 5, entry.AppointmentsCompleted)
}

func TestStartOfDayEndOfDay(t *testing.T) {
	moment := time.Date(2026, 3, 10, 15, 42, 7, 123, time.UTC)

	start := StartOfDay(moment)
	end := EndOfDay(moment)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 999999999, time.UTC), end)
	assert.True(t, end.Before(start.AddDate(0, 0, 1)))
}

func TestMonthBounds(t *testing.T) {
	start, next := MonthBounds(time.Date(2026, 3, 17, 9, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), next)

	// December rolls over into the next year.
	start, next = MonthBounds(time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), next)
}

func TestMonthlyRecap_DaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2026, time.January, 31},
		{2026, time.April, 30},
		{2026, time.February, 28},
		{2028, time.February, 29}, // leap year
	}

	for _, tt := range tests {
		recap := NewMonthlyRecap(tt.year, tt.month, decimal.Zero, 0)
		assert.Equal(t, tt.days, recap.DaysInMonth(), "%d-%s", tt.year, tt.month)
	}
}

func TestMonthlyRecap_MonthName(t *testing.T) {
	recap := NewMonthlyRecap(2026, time.September, decimal.NewFromInt(100), 50)

	assert.Equal(t, "September", recap.MonthName())
	assert.Equal(t, 9, recap.Month)
	assert.Equal(t, 2026, recap.Year)
}
