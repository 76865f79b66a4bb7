// Package identity contains user management and authentication use cases.
package identity

import (
	"context"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UserService handles admin-side user management
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Role           identity.Role
	Specialization string
	HourlyRate     *decimal.Decimal
}

// UpdateUserInput contains input for updating a user's profile
type UpdateUserInput struct {
	ID             uuid.UUID
	FirstName      *string
	LastName       *string
	Specialization *string
	HourlyRate     *decimal.Decimal
}

// UserDTO represents user data returned to callers
type UserDTO struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	FullName       string          `json:"full_name"`
	Role           string          `json:"role"`
	Active         bool            `json:"active"`
	Specialization string          `json:"specialization,omitempty"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Create creates a new user account
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	s.logger.Info("Creating new user",
		zap.String("email", input.Email),
		zap.String("role", string(input.Role)))

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
	}

	var user *identity.User
	if input.Role == identity.RoleCoworker {
		rate := identity.DefaultHourlyRate
		if input.HourlyRate != nil {
			rate = *input.HourlyRate
		}
		user, err = identity.NewCoworker(input.Email, input.Password, input.FirstName, input.LastName, input.Specialization, rate)
	} else {
		user, err = identity.NewUser(input.Email, input.Password, input.FirstName, input.LastName, input.Role)
	}
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	return toUserDTO(user), nil
}

// GetByID returns a single user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// List returns a paginated user listing
func (s *UserService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[UserDTO], error) {
	result, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[UserDTO]{}, err
	}

	dtos := make([]UserDTO, 0, len(result.Items))
	for i := range result.Items {
		dtos = append(dtos, *toUserDTO(&result.Items[i]))
	}
	return shared.Paginated[UserDTO]{
		Items:      dtos,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ListCoworkers returns all coworkers, optionally only active ones
func (s *UserService) ListCoworkers(ctx context.Context, activeOnly bool) ([]UserDTO, error) {
	coworkers, err := s.userRepo.FindCoworkers(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, 0, len(coworkers))
	for i := range coworkers {
		dtos = append(dtos, *toUserDTO(&coworkers[i]))
	}
	return dtos, nil
}

// Update updates profile fields on a user
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	firstName := user.FirstName
	if input.FirstName != nil {
		firstName = *input.FirstName
	}
	lastName := user.LastName
	if input.LastName != nil {
		lastName = *input.LastName
	}
	specialization := user.Specialization
	if input.Specialization != nil {
		specialization = *input.Specialization
	}
	hourlyRate := user.HourlyRate
	if input.HourlyRate != nil {
		hourlyRate = *input.HourlyRate
	}

	if err := user.UpdateProfile(firstName, lastName, specialization, hourlyRate); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	return toUserDTO(user), nil
}

// ChangeRole changes a user's role. The last admin cannot be demoted.
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, role identity.Role) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() && role != identity.RoleAdmin {
		admins, err := s.userRepo.Count(ctx, identity.RoleAdmin)
		if err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count administrators")
		}
		if admins <= 1 {
			return nil, shared.NewDomainError("LAST_ADMIN", "Cannot demote the last administrator")
		}
	}

	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change role")
	}

	s.logger.Info("Changed user role",
		zap.String("user_id", id.String()),
		zap.String("role", string(role)))

	return toUserDTO(user), nil
}

// Deactivate disables a user account. The last admin cannot be deactivated.
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		admins, err := s.userRepo.Count(ctx, identity.RoleAdmin)
		if err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to count administrators")
		}
		if admins <= 1 {
			return shared.NewDomainError("LAST_ADMIN", "Cannot deactivate the last administrator")
		}
	}

	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate user")
	}

	s.logger.Info("Deactivated user", zap.String("user_id", id.String()))
	return nil
}

// Activate re-enables a user account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Activate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to activate user")
	}

	s.logger.Info("Activated user", zap.String("user_id", id.String()))
	return nil
}

// ResetPassword sets a new password without requiring the old one.
// Admin-only operation.
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("Reset user password", zap.String("user_id", id.String()))
	return nil
}

func toUserDTO(user *identity.User) *UserDTO {
	return &UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FullName:       user.FullName(),
		Role:           string(user.Role),
		Active:         user.Active,
		Specialization: user.Specialization,
		HourlyRate:     user.HourlyRate,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
