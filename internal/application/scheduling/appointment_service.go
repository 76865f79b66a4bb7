// Package scheduling contains appointment booking use cases.
package scheduling

import (
	"context"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier delivers appointment lifecycle emails. Delivery failures must
// never fail the booking flow; implementations log and move on.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt *scheduling.Appointment, client *clientele.Client, coworker *identity.User)
	AppointmentCancelled(ctx context.Context, appt *scheduling.Appointment, client *clientele.Client)
	AppointmentRescheduled(ctx context.Context, appt *scheduling.Appointment, client *clientele.Client)
}

// AppointmentService handles the appointment lifecycle
type AppointmentService struct {
	appointmentRepo scheduling.AppointmentRepository
	clientRepo      clientele.ClientRepository
	userRepo        identity.UserRepository
	notifier        Notifier
	logger          *zap.Logger
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	appointmentRepo scheduling.AppointmentRepository,
	clientRepo clientele.ClientRepository,
	userRepo identity.UserRepository,
	notifier Notifier,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// BookInput contains input for booking an appointment
type BookInput struct {
	CoworkerID uuid.UUID
	ClientID   uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	RoomType   scheduling.RoomType
	Notes      string
}

// RescheduleInput contains input for moving an appointment
type RescheduleInput struct {
	ID        uuid.UUID
	StartTime time.Time
	EndTime   time.Time
}

// AppointmentDTO represents appointment data returned to callers
type AppointmentDTO struct {
	ID            uuid.UUID       `json:"id"`
	CoworkerID    uuid.UUID       `json:"coworker_id"`
	ClientID      uuid.UUID       `json:"client_id"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	DurationHours decimal.Decimal `json:"duration_hours"`
	Status        string          `json:"status"`
	RoomType      string          `json:"room_type"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Book creates an appointment after checking that the client and coworker
// can be booked and that neither the coworker nor the room is taken.
func (s *AppointmentService) Book(ctx context.Context, input BookInput) (*AppointmentDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, shared.NewDomainError("CLIENT_INACTIVE", "Cannot book appointments for an inactive client")
	}

	coworker, err := s.userRepo.FindByID(ctx, input.CoworkerID)
	if err != nil {
		return nil, err
	}
	if coworker.Role != identity.RoleCoworker {
		return nil, shared.NewDomainError("NOT_A_COWORKER", "Appointments can only be booked with coworkers")
	}
	if !coworker.Active {
		return nil, shared.NewDomainError("COWORKER_INACTIVE", "Coworker is not active")
	}

	appt, err := scheduling.NewAppointment(input.CoworkerID, input.ClientID, input.StartTime, input.EndTime, input.RoomType, input.Notes)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.appointmentRepo.FindConflicts(ctx, input.CoworkerID, input.RoomType, input.StartTime, input.EndTime, nil)
	if err != nil {
		s.logger.Error("Failed to check conflicts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check availability")
	}
	if len(conflicts) > 0 {
		return nil, shared.ErrScheduleConflict
	}

	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		s.logger.Error("Failed to save appointment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to book appointment")
	}

	s.logger.Info("Booked appointment",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("coworker_id", input.CoworkerID.String()),
		zap.Time("start_time", input.StartTime))

	if s.notifier != nil {
		s.notifier.AppointmentBooked(ctx, appt, client, coworker)
	}

	return toAppointmentDTO(appt), nil
}

// GetByID returns a single appointment
func (s *AppointmentService) GetByID(ctx context.Context, id uuid.UUID) (*AppointmentDTO, error) {
	appt, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAppointmentDTO(appt), nil
}

// List returns a paginated appointment listing
func (s *AppointmentService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[AppointmentDTO], error) {
	result, err := s.appointmentRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[AppointmentDTO]{}, err
	}

	dtos := make([]AppointmentDTO, 0, len(result.Items))
	for i := range result.Items {
		dtos = append(dtos, *toAppointmentDTO(&result.Items[i]))
	}
	return shared.Paginated[AppointmentDTO]{
		Items:      dtos,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Complete marks an appointment as completed, making it visible to the
// backlog aggregator on its next run.
func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID) (*AppointmentDTO, error) {
	appt, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := appt.Complete(); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to complete appointment")
	}

	s.logger.Info("Completed appointment", zap.String("appointment_id", id.String()))
	return toAppointmentDTO(appt), nil
}

// Cancel cancels an appointment, enforcing the minimum notice period
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID) (*AppointmentDTO, error) {
	appt, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := appt.Cancel(time.Now()); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel appointment")
	}

	s.logger.Info("Cancelled appointment", zap.String("appointment_id", id.String()))

	if s.notifier != nil {
		if client, cerr := s.clientRepo.FindByID(ctx, appt.ClientID); cerr == nil {
			s.notifier.AppointmentCancelled(ctx, appt, client)
		}
	}

	return toAppointmentDTO(appt), nil
}

// Reschedule moves an appointment to a new slot, re-checking conflicts
// against the coworker and room while excluding the appointment itself.
func (s *AppointmentService) Reschedule(ctx context.Context, input RescheduleInput) (*AppointmentDTO, error) {
	appt, err := s.appointmentRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.appointmentRepo.FindConflicts(ctx, appt.CoworkerID, appt.RoomType, input.StartTime, input.EndTime, &appt.ID)
	if err != nil {
		s.logger.Error("Failed to check conflicts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check availability")
	}
	if len(conflicts) > 0 {
		return nil, shared.ErrScheduleConflict
	}

	if err := appt.Reschedule(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reschedule appointment")
	}

	s.logger.Info("Rescheduled appointment",
		zap.String("appointment_id", input.ID.String()),
		zap.Time("start_time", input.StartTime))

	if s.notifier != nil {
		if client, cerr := s.clientRepo.FindByID(ctx, appt.ClientID); cerr == nil {
			s.notifier.AppointmentRescheduled(ctx, appt, client)
		}
	}

	return toAppointmentDTO(appt), nil
}

func toAppointmentDTO(appt *scheduling.Appointment) *AppointmentDTO {
	return &AppointmentDTO{
		ID:            appt.ID,
		CoworkerID:    appt.CoworkerID,
		ClientID:      appt.ClientID,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		DurationHours: appt.DurationHours,
		Status:        string(appt.Status),
		RoomType:      string(appt.RoomType),
		Notes:         appt.Notes,
		CreatedAt:     appt.CreatedAt,
		UpdatedAt:     appt.UpdatedAt,
	}
}
