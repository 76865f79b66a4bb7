package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/backlog"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBacklogEntryRepository implements backlog.EntryRepository using GORM
type GormBacklogEntryRepository struct {
	db *gorm.DB
}

// NewGormBacklogEntryRepository creates a new entry repository
func NewGormBacklogEntryRepository(db *gorm.DB) *GormBacklogEntryRepository {
	return &GormBacklogEntryRepository{db: db}
}

// FindByCoworkerAndDate finds the daily entry for one coworker
func (r *GormBacklogEntryRepository) FindByCoworkerAndDate(ctx context.Context, coworkerID uuid.UUID, date time.Time) (*backlog.Entry, error) {
	var entry backlog.Entry
	err := r.db.WithContext(ctx).
		Where("coworker_id = ? AND date = ?", coworkerID, backlog.StartOfDay(date)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindInRange returns entries with date in [start, end], optionally filtered
// by coworker
func (r *GormBacklogEntryRepository) FindInRange(ctx context.Context, start, end time.Time, coworkerID *uuid.UUID) ([]backlog.Entry, error) {
	query := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end)
	if coworkerID != nil {
		query = query.Where("coworker_id = ?", *coworkerID)
	}

	var entries []backlog.Entry
	err := query.Order("date ASC").Find(&entries).Error
	return entries, err
}

// Save upserts one entry keyed by (coworker, date)
func (r *GormBacklogEntryRepository) Save(ctx context.Context, entry *backlog.Entry) error {
	return upsertEntry(r.db.WithContext(ctx), entry)
}

// SaveBatch upserts a day's entries inside one transaction. Either all of the
// day's coworker rows land or none do.
func (r *GormBacklogEntryRepository) SaveBatch(ctx context.Context, entries []*backlog.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := upsertEntry(tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertEntry(db *gorm.DB, entry *backlog.Entry) error {
	var existing backlog.Entry
	err := db.Where("coworker_id = ? AND date = ?", entry.CoworkerID, entry.Date).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Overwrite(entry.HoursWorked, entry.AppointmentsCompleted)
		*entry = existing
		return db.Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(entry).Error
	default:
		return err
	}
}

// GormRecapRepository implements backlog.RecapRepository using GORM
type GormRecapRepository struct {
	db *gorm.DB
}

// NewGormRecapRepository creates a new recap repository
func NewGormRecapRepository(db *gorm.DB) *GormRecapRepository {
	return &GormRecapRepository{db: db}
}

// FindByMonth finds the recap for one month
func (r *GormRecapRepository) FindByMonth(ctx context.Context, year int, month time.Month) (*backlog.MonthlyRecap, error) {
	var recap backlog.MonthlyRecap
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, int(month)).
		First(&recap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &recap, nil
}

// FindAll returns all recaps in reverse calendar order
func (r *GormRecapRepository) FindAll(ctx context.Context) ([]backlog.MonthlyRecap, error) {
	var recaps []backlog.MonthlyRecap
	err := r.db.WithContext(ctx).
		Order("year DESC, month DESC").
		Find(&recaps).Error
	return recaps, err
}

// Save upserts a recap keyed by (year, month)
func (r *GormRecapRepository) Save(ctx context.Context, recap *backlog.MonthlyRecap) error {
	var existing backlog.MonthlyRecap
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", recap.Year, recap.Month).
		First(&existing).Error
	switch {
	case err == nil:
		existing.TotalHours = recap.TotalHours
		existing.TotalAppointments = recap.TotalAppointments
		*recap = existing
		return r.db.WithContext(ctx).Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.WithContext(ctx).Create(recap).Error
	default:
		return err
	}
}
