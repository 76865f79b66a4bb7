package scheduling

import (
	"context"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentRepository defines the persistence interface for appointments
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Appointment], error)

	// FindCompletedInWindow returns COMPLETED appointments whose start time
	// falls within [start, end]. This is the backlog aggregator's read path.
	FindCompletedInWindow(ctx context.Context, start, end time.Time) ([]Appointment, error)

	// FindConflicts returns non-terminal appointments overlapping [start, end)
	// for the given coworker or room type, excluding excludeID when non-nil.
	FindConflicts(ctx context.Context, coworkerID uuid.UUID, roomType RoomType, start, end time.Time, excludeID *uuid.UUID) ([]Appointment, error)

	// FindStartingBetween returns SCHEDULED or MODIFIED appointments with a
	// start time inside [start, end]. Used by the reminder job.
	FindStartingBetween(ctx context.Context, start, end time.Time) ([]Appointment, error)

	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Appointment, error)
	Save(ctx context.Context, appointment *Appointment) error
	CountByStatus(ctx context.Context, status AppointmentStatus) (int64, error)
}
