package scheduling

import (
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusModified  AppointmentStatus = "MODIFIED"
)

// RoomType identifies the kind of room an appointment occupies
type RoomType string

const (
	RoomMassage      RoomType = "MASSAGE"
	RoomTreatment    RoomType = "TREATMENT"
	RoomConsultation RoomType = "CONSULTATION"
	RoomGroup        RoomType = "GROUP"
)

// Booking rules
const (
	// MaxAdvanceBooking is how far in the future an appointment may be booked.
	MaxAdvanceBooking = 30 * 24 * time.Hour
	// MinCancellationLead is the minimum notice required to cancel.
	MinCancellationLead = 12 * time.Hour
)

// Appointment represents a booked service session. COMPLETED and CANCELLED
// are terminal states; completed appointments are the immutable source of
// truth for backlog aggregation.
type Appointment struct {
	shared.BaseEntity
	CoworkerID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ClientID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	StartTime     time.Time         `gorm:"not null;index"`
	EndTime       time.Time         `gorm:"not null"`
	DurationHours decimal.Decimal   `gorm:"type:decimal(6,2);not null"`
	Status        AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index"`
	RoomType      RoomType          `gorm:"type:varchar(20);not null"`
	Notes         string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Appointment) TableName() string {
	return "appointments"
}

// NewAppointment books an appointment, enforcing the time-window rules.
// Conflict checking against other appointments is the service's concern.
func NewAppointment(coworkerID, clientID uuid.UUID, start, end time.Time, roomType RoomType, notes string) (*Appointment, error) {
	now := time.Now()
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_TIME_WINDOW", "End time must be after start time")
	}
	if start.Before(now) {
		return nil, shared.NewDomainError("INVALID_TIME_WINDOW", "Appointments cannot be booked in the past")
	}
	if start.After(now.Add(MaxAdvanceBooking)) {
		return nil, shared.NewDomainError("TOO_FAR_AHEAD", "Appointments can be booked at most 30 days in advance")
	}
	if err := validateRoomType(roomType); err != nil {
		return nil, err
	}

	return &Appointment{
		BaseEntity:    shared.NewBaseEntity(),
		CoworkerID:    coworkerID,
		ClientID:      clientID,
		StartTime:     start,
		EndTime:       end,
		DurationHours: durationHours(start, end),
		Status:        StatusScheduled,
		RoomType:      roomType,
		Notes:         notes,
	}, nil
}

// IsTerminal reports whether the appointment can no longer change
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

// Overlaps reports whether two time windows intersect
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && start.Before(a.EndTime)
}

// Complete marks the appointment as done. Terminal.
func (a *Appointment) Complete() error {
	if a.IsTerminal() {
		return shared.ErrInvalidState
	}
	a.Status = StatusCompleted
	return nil
}

// Cancel marks the appointment as cancelled. Requires at least 12 hours of
// notice before the start time. Terminal.
func (a *Appointment) Cancel(now time.Time) error {
	if a.IsTerminal() {
		return shared.ErrInvalidState
	}
	if a.StartTime.Sub(now) < MinCancellationLead {
		return shared.NewDomainError("CANCELLATION_TOO_LATE", "Appointments must be cancelled at least 12 hours in advance")
	}
	a.Status = StatusCancelled
	return nil
}

// Reschedule moves the appointment to a new window and marks it MODIFIED.
// The same advance-booking rule applies to the new window.
func (a *Appointment) Reschedule(start, end time.Time) error {
	if a.IsTerminal() {
		return shared.ErrInvalidState
	}
	now := time.Now()
	if !end.After(start) {
		return shared.NewDomainError("INVALID_TIME_WINDOW", "End time must be after start time")
	}
	if start.After(now.Add(MaxAdvanceBooking)) {
		return shared.NewDomainError("TOO_FAR_AHEAD", "Appointments can be booked at most 30 days in advance")
	}
	a.StartTime = start
	a.EndTime = end
	a.DurationHours = durationHours(start, end)
	a.Status = StatusModified
	return nil
}

func durationHours(start, end time.Time) decimal.Decimal {
	minutes := end.Sub(start).Minutes()
	return decimal.NewFromFloat(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

func validateRoomType(rt RoomType) error {
	switch rt {
	case RoomMassage, RoomTreatment, RoomConsultation, RoomGroup:
		return nil
	default:
		return shared.NewDomainError("INVALID_ROOM_TYPE", "Unknown room type")
	}
}
