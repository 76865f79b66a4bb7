package backlog

import (
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MonthlyRecap is the materialized month-level aggregate across all
// coworkers. Keyed by (year, month index) so listings sort in true calendar
// order rather than alphabetically by month name.
type MonthlyRecap struct {
	shared.BaseEntity
	Year              int             `gorm:"not null;uniqueIndex:idx_recap_year_month,priority:1"`
	Month             int             `gorm:"not null;uniqueIndex:idx_recap_year_month,priority:2"`
	TotalHours        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalAppointments int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MonthlyRecap) TableName() string {
	return "monthly_recaps"
}

// NewMonthlyRecap creates a recap row for the given month
func NewMonthlyRecap(year int, month time.Month, totalHours decimal.Decimal, totalAppointments int) *MonthlyRecap {
	return &MonthlyRecap{
		BaseEntity:        shared.NewBaseEntity(),
		Year:              year,
		Month:             int(month),
		TotalHours:        totalHours,
		TotalAppointments: totalAppointments,
	}
}

// MonthName returns the English month name for presentation
func (r *MonthlyRecap) MonthName() string {
	return time.Month(r.Month).String()
}

// DaysInMonth returns the number of calendar days in the recap's month
func (r *MonthlyRecap) DaysInMonth() int {
	return time.Date(r.Year, time.Month(r.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns [start, next) for the month containing t
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
