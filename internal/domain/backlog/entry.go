package backlog

import (
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is the materialized daily hours-worked record for one coworker.
// At most one entry exists per (coworker, date); reprocessing a date
// overwrites the totals instead of accumulating them, which is what makes
// aggregation idempotent.
type Entry struct {
	shared.BaseEntity
	CoworkerID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_backlog_coworker_date,priority:1"`
	Date                  time.Time       `gorm:"not null;uniqueIndex:idx_backlog_coworker_date,priority:2;index"`
	HoursWorked           decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	AppointmentsCompleted int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "backlog_entries"
}

// NewEntry creates a daily entry. The date is normalized to the start of day
// in its own location so the unique key is stable across reprocessing runs.
func NewEntry(coworkerID uuid.UUID, date time.Time, hours decimal.Decimal, appointments int) *Entry {
	return &Entry{
		BaseEntity:            shared.NewBaseEntity(),
		CoworkerID:            coworkerID,
		Date:                  StartOfDay(date),
		HoursWorked:           hours,
		AppointmentsCompleted: appointments,
	}
}

// Overwrite replaces the totals with freshly computed values
func (e *Entry) Overwrite(hours decimal.Decimal, appointments int) {
	e.HoursWorked = hours
	e.AppointmentsCompleted = appointments
}

// StartOfDay returns midnight of the given instant in its location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the given instant's day
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
