package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAppointmentRepository implements scheduling.AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new appointment repository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByID finds an appointment by ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	var appointment scheduling.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// FindAll returns a page of appointments matching the filter
func (r *GormAppointmentRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[scheduling.Appointment], error) {
	query := r.db.WithContext(ctx).Model(&scheduling.Appointment{})

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if coworkerID, ok := filter.Filters["coworker_id"]; ok {
		query = query.Where("coworker_id = ?", coworkerID)
	}
	if clientID, ok := filter.Filters["client_id"]; ok {
		query = query.Where("client_id = ?", clientID)
	}
	if from, ok := filter.Filters["from"]; ok {
		query = query.Where("start_time >= ?", from)
	}
	if to, ok := filter.Filters["to"]; ok {
		query = query.Where("start_time <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[scheduling.Appointment]{}, err
	}

	var appointments []scheduling.Appointment
	err := query.
		Order(orderClause(filter, "start_time DESC")).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&appointments).Error
	if err != nil {
		return shared.Paginated[scheduling.Appointment]{}, err
	}

	return shared.NewPaginated(appointments, total, filter.Page, filter.PageSize), nil
}

// FindCompletedInWindow returns COMPLETED appointments starting within [start, end]
func (r *GormAppointmentRepository) FindCompletedInWindow(ctx context.Context, start, end time.Time) ([]scheduling.Appointment, error) {
	var appointments []scheduling.Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time >= ? AND start_time <= ?", scheduling.StatusCompleted, start, end).
		Order("start_time ASC").
		Find(&appointments).Error
	return appointments, err
}

// FindConflicts returns non-terminal appointments overlapping [start, end)
// that share either the coworker or the room type
func (r *GormAppointmentRepository) FindConflicts(ctx context.Context, coworkerID uuid.UUID, roomType scheduling.RoomType, start, end time.Time, excludeID *uuid.UUID) ([]scheduling.Appointment, error) {
	query := r.db.WithContext(ctx).
		Where("status IN ?", []scheduling.AppointmentStatus{scheduling.StatusScheduled, scheduling.StatusModified}).
		Where("(coworker_id = ? OR room_type = ?)", coworkerID, roomType).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var appointments []scheduling.Appointment
	err := query.Find(&appointments).Error
	return appointments, err
}

// FindStartingBetween returns upcoming appointments starting within [start, end]
func (r *GormAppointmentRepository) FindStartingBetween(ctx context.Context, start, end time.Time) ([]scheduling.Appointment, error) {
	var appointments []scheduling.Appointment
	err := r.db.WithContext(ctx).
		Where("status IN ?", []scheduling.AppointmentStatus{scheduling.StatusScheduled, scheduling.StatusModified}).
		Where("start_time >= ? AND start_time <= ?", start, end).
		Order("start_time ASC").
		Find(&appointments).Error
	return appointments, err
}

// FindByClient returns all appointments of a client
func (r *GormAppointmentRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]scheduling.Appointment, error) {
	var appointments []scheduling.Appointment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_time DESC").
		Find(&appointments).Error
	return appointments, err
}

// Save creates or updates an appointment
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

// CountByStatus returns the number of appointments with the given status
func (r *GormAppointmentRepository) CountByStatus(ctx context.Context, status scheduling.AppointmentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&scheduling.Appointment{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
