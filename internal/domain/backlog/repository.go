package backlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryRepository defines the persistence interface for daily entries.
// Upsert is keyed by (coworker, date).
type EntryRepository interface {
	FindByCoworkerAndDate(ctx context.Context, coworkerID uuid.UUID, date time.Time) (*Entry, error)
	FindInRange(ctx context.Context, start, end time.Time, coworkerID *uuid.UUID) ([]Entry, error)
	Save(ctx context.Context, entry *Entry) error

	// SaveBatch persists a day's entries inside one transaction so a failure
	// mid-batch leaves no partially written day.
	SaveBatch(ctx context.Context, entries []*Entry) error
}

// RecapRepository defines the persistence interface for monthly recaps.
// Upsert is keyed by (year, month).
type RecapRepository interface {
	FindByMonth(ctx context.Context, year int, month time.Month) (*MonthlyRecap, error)
	FindAll(ctx context.Context) ([]MonthlyRecap, error)
	Save(ctx context.Context, recap *MonthlyRecap) error
}
