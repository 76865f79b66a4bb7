// Package clientele contains client record and document management use cases.
package clientele

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

// ClientService handles client record management
type ClientService struct {
	clientRepo      clientele.ClientRepository
	userRepo        identity.UserRepository
	appointmentRepo scheduling.AppointmentRepository
	logger          *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo clientele.ClientRepository,
	userRepo identity.UserRepository,
	appointmentRepo scheduling.AppointmentRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:      clientRepo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// CreateClientInput contains input for creating a client
type CreateClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Notes     string
}

// UpdateClientInput contains input for updating a client
type UpdateClientInput struct {
	ID        uuid.UUID
	FirstName *string
	LastName  *string
	Phone     *string
	Notes     *string
}

// ClientDTO represents client data returned to callers
type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CoworkerLinkDTO represents an assignment between a client and a coworker
type CoworkerLinkDTO struct {
	ClientID     uuid.UUID `json:"client_id"`
	CoworkerID   uuid.UUID `json:"coworker_id"`
	CoworkerName string    `json:"coworker_name"`
	IsPrimary    bool      `json:"is_primary"`
}

// ClientStatisticsDTO summarizes a client's appointment history
type ClientStatisticsDTO struct {
	ClientID              uuid.UUID       `json:"client_id"`
	TotalAppointments     int             `json:"total_appointments"`
	CompletedAppointments int             `json:"completed_appointments"`
	CancelledAppointments int             `json:"cancelled_appointments"`
	UpcomingAppointments  int             `json:"upcoming_appointments"`
	TotalHours            decimal.Decimal `json:"total_hours"`
	LastVisit             *time.Time      `json:"last_visit,omitempty"`
}

// Create registers a new client. Email and phone must be unique among all
// clients, active or not.
func (s *ClientService) Create(ctx context.Context, input CreateClientInput) (*ClientDTO, error) {
	exists, err := s.clientRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check client email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "A client with this email already exists")
	}

	if input.Phone != "" {
		exists, err := s.clientRepo.ExistsByPhone(ctx, input.Phone)
		if err != nil {
			s.logger.Error("Failed to check client phone", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check phone availability")
		}
		if exists {
			return nil, shared.NewDomainError("PHONE_EXISTS", "A client with this phone number already exists")
		}
	}

	client, err := clientele.NewClient(input.FirstName, input.LastName, input.Email, input.Phone, input.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		s.logger.Error("Failed to save client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create client")
	}

	s.logger.Info("Created client", zap.String("client_id", client.ID.String()))
	return toClientDTO(client), nil
}

// GetByID returns a single client
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClientDTO(client), nil
}

// List returns a paginated client listing
func (s *ClientService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ClientDTO], error) {
	result, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ClientDTO]{}, err
	}

	dtos := make([]ClientDTO, 0, len(result.Items))
	for i := range result.Items {
		dtos = append(dtos, *toClientDTO(&result.Items[i]))
	}
	return shared.Paginated[ClientDTO]{
		Items:      dtos,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Update updates a client's mutable fields. Email is immutable.
func (s *ClientService) Update(ctx context.Context, input UpdateClientInput) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	firstName := client.FirstName
	if input.FirstName != nil {
		firstName = *input.FirstName
	}
	lastName := client.LastName
	if input.LastName != nil {
		lastName = *input.LastName
	}
	phone := client.Phone
	if input.Phone != nil {
		phone = *input.Phone
	}
	notes := client.Notes
	if input.Notes != nil {
		notes = *input.Notes
	}

	if phone != client.Phone && phone != "" {
		exists, err := s.clientRepo.ExistsByPhone(ctx, phone)
		if err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check phone availability")
		}
		if exists {
			return nil, shared.NewDomainError("PHONE_EXISTS", "A client with this phone number already exists")
		}
	}

	if err := client.Update(firstName, lastName, phone, notes); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update client")
	}

	return toClientDTO(client), nil
}

// Deactivate soft deletes a client. The record and its history remain; the
// client no longer appears in active listings and cannot be booked.
func (s *ClientService) Deactivate(ctx context.Context, id uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := client.Deactivate(); err != nil {
		return err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate client")
	}

	s.logger.Info("Deactivated client", zap.String("client_id", id.String()))
	return nil
}

// Reactivate restores a soft deleted client
func (s *ClientService) Reactivate(ctx context.Context, id uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	client.Reactivate()
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reactivate client")
	}

	s.logger.Info("Reactivated client", zap.String("client_id", id.String()))
	return nil
}

// AssignCoworker links a coworker to a client. A new primary assignment
// demotes the existing one.
func (s *ClientService) AssignCoworker(ctx context.Context, clientID, coworkerID uuid.UUID, isPrimary bool) error {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return err
	}

	coworker, err := s.userRepo.FindByID(ctx, coworkerID)
	if err != nil {
		return err
	}
	if coworker.Role != identity.RoleCoworker {
		return shared.NewDomainError("NOT_A_COWORKER", "Assigned user is not a coworker")
	}

	if existing, err := s.clientRepo.FindLink(ctx, clientID, coworkerID); err == nil && existing != nil {
		return shared.NewDomainError("ALREADY_ASSIGNED", "Coworker is already assigned to this client")
	}

	if isPrimary {
		links, err := s.clientRepo.FindLinks(ctx, clientID)
		if err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to load assignments")
		}
		for i := range links {
			if links[i].IsPrimary {
				links[i].IsPrimary = false
				if err := s.clientRepo.SaveLink(ctx, &links[i]); err != nil {
					return shared.NewDomainError("INTERNAL_ERROR", "Failed to demote primary coworker")
				}
			}
		}
	}

	link := clientele.NewCoworkerLink(clientID, coworkerID, isPrimary)
	if err := s.clientRepo.SaveLink(ctx, link); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to assign coworker")
	}

	s.logger.Info("Assigned coworker to client",
		zap.String("client_id", clientID.String()),
		zap.String("coworker_id", coworkerID.String()),
		zap.Bool("primary", isPrimary))
	return nil
}

// UnassignCoworker removes a coworker assignment. The primary coworker of an
// active client cannot be removed; assign a new primary first.
func (s *ClientService) UnassignCoworker(ctx context.Context, clientID, coworkerID uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return err
	}

	link, err := s.clientRepo.FindLink(ctx, clientID, coworkerID)
	if err != nil {
		return err
	}
	if link.IsPrimary && client.IsActive() {
		return shared.NewDomainError("PRIMARY_COWORKER", "Cannot remove the primary coworker of an active client")
	}

	return s.clientRepo.DeleteLink(ctx, clientID, coworkerID)
}

// Coworkers lists the coworkers assigned to a client
func (s *ClientService) Coworkers(ctx context.Context, clientID uuid.UUID) ([]CoworkerLinkDTO, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	links, err := s.clientRepo.FindLinks(ctx, clientID)
	if err != nil {
		return nil, err
	}

	dtos := make([]CoworkerLinkDTO, 0, len(links))
	for _, link := range links {
		name := ""
		if coworker, err := s.userRepo.FindByID(ctx, link.CoworkerID); err == nil {
			name = coworker.FullName()
		}
		dtos = append(dtos, CoworkerLinkDTO{
			ClientID:     link.ClientID,
			CoworkerID:   link.CoworkerID,
			CoworkerName: name,
			IsPrimary:    link.IsPrimary,
		})
	}
	return dtos, nil
}

// Statistics summarizes a client's appointment history
func (s *ClientService) Statistics(ctx context.Context, clientID uuid.UUID) (*ClientStatisticsDTO, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	stats := &ClientStatisticsDTO{
		ClientID:   clientID,
		TotalHours: decimal.Zero,
	}
	now := time.Now()
	for i := range appointments {
		appt := &appointments[i]
		stats.TotalAppointments++
		switch appt.Status {
		case scheduling.StatusCompleted:
			stats.CompletedAppointments++
			stats.TotalHours = stats.TotalHours.Add(appt.DurationHours)
			if stats.LastVisit == nil || appt.StartTime.After(*stats.LastVisit) {
				visit := appt.StartTime
				stats.LastVisit = &visit
			}
		case scheduling.StatusCancelled:
			stats.CancelledAppointments++
		default:
			if appt.StartTime.After(now) {
				stats.UpcomingAppointments++
			}
		}
	}

	return stats, nil
}

func toClientDTO(client *clientele.Client) *ClientDTO {
	return &ClientDTO{
		ID:        client.ID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		FullName:  client.FullName(),
		Email:     client.Email,
		Phone:     client.Phone,
		Status:    string(client.Status),
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}
