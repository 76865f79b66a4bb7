package identity

import (
	"context"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"go.uber.org/zap"
)

// SystemStatisticsDTO carries the admin dashboard counts
type SystemStatisticsDTO struct {
	TotalAdmins           int64 `json:"total_admins"`
	TotalCoworkers        int64 `json:"total_coworkers"`
	ActiveClients         int64 `json:"active_clients"`
	InactiveClients       int64 `json:"inactive_clients"`
	ScheduledAppointments int64 `json:"scheduled_appointments"`
	CompletedAppointments int64 `json:"completed_appointments"`
	CancelledAppointments int64 `json:"cancelled_appointments"`
}

// StatisticsService aggregates system-wide counts for the admin dashboard
type StatisticsService struct {
	userRepo        identity.UserRepository
	clientRepo      clientele.ClientRepository
	appointmentRepo scheduling.AppointmentRepository
	logger          *zap.Logger
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	userRepo identity.UserRepository,
	clientRepo clientele.ClientRepository,
	appointmentRepo scheduling.AppointmentRepository,
	logger *zap.Logger,
) *StatisticsService {
	return &StatisticsService{
		userRepo:        userRepo,
		clientRepo:      clientRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Get returns the current system counts
func (s *StatisticsService) Get(ctx context.Context) (*SystemStatisticsDTO, error) {
	stats := &SystemStatisticsDTO{}
	var err error

	if stats.TotalAdmins, err = s.userRepo.Count(ctx, identity.RoleAdmin); err != nil {
		return nil, err
	}
	if stats.TotalCoworkers, err = s.userRepo.Count(ctx, identity.RoleCoworker); err != nil {
		return nil, err
	}
	if stats.ActiveClients, err = s.clientRepo.Count(ctx, clientele.ClientStatusActive); err != nil {
		return nil, err
	}
	if stats.InactiveClients, err = s.clientRepo.Count(ctx, clientele.ClientStatusInactive); err != nil {
		return nil, err
	}
	if stats.ScheduledAppointments, err = s.appointmentRepo.CountByStatus(ctx, scheduling.StatusScheduled); err != nil {
		return nil, err
	}
	if stats.CompletedAppointments, err = s.appointmentRepo.CountByStatus(ctx, scheduling.StatusCompleted); err != nil {
		return nil, err
	}
	if stats.CancelledAppointments, err = s.appointmentRepo.CountByStatus(ctx, scheduling.StatusCancelled); err != nil {
		return nil, err
	}

	return stats, nil
}
