package identity

import (
	"regexp"
	"strings"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the access level of a user
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCoworker Role = "COWORKER"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	numberPattern = regexp.MustCompile(`[0-9]`)
)

// DefaultHourlyRate is applied to coworker profiles created without an explicit rate.
var DefaultHourlyRate = decimal.NewFromInt(25)

// User represents a staff account. Users with the COWORKER role carry a
// service profile (specialization, hourly rate) and have their worked hours
// tracked by the backlog engine.
type User struct {
	shared.BaseEntity
	Email          string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string          `gorm:"type:varchar(200);not null"`
	FirstName      string          `gorm:"type:varchar(100);not null"`
	LastName       string          `gorm:"type:varchar(100);not null"`
	Role           Role            `gorm:"type:varchar(20);not null;default:'COWORKER'"`
	Active         bool            `gorm:"not null;default:true"`
	Specialization string          `gorm:"type:varchar(200)"`
	HourlyRate     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:25"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password.
func NewUser(email, password, firstName, lastName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Role:         role,
		Active:       true,
		HourlyRate:   DefaultHourlyRate,
	}, nil
}

// NewCoworker creates a coworker account with a service profile.
func NewCoworker(email, password, firstName, lastName, specialization string, hourlyRate decimal.Decimal) (*User, error) {
	user, err := NewUser(email, password, firstName, lastName, RoleCoworker)
	if err != nil {
		return nil, err
	}
	user.Specialization = strings.TrimSpace(specialization)
	if hourlyRate.IsPositive() {
		user.HourlyRate = hourlyRate
	}
	return user, nil
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user has administrative privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Activate enables a deactivated account
func (u *User) Activate() {
	u.Active = true
}

// Deactivate disables the account. Deactivated users cannot log in but their
// historical backlog entries are kept.
func (u *User) Deactivate() {
	u.Active = false
}

// ChangeRole switches the user's role
func (u *User) ChangeRole(role Role) error {
	if err := validateRole(role); err != nil {
		return err
	}
	u.Role = role
	return nil
}

// UpdateProfile updates the mutable profile fields
func (u *User) UpdateProfile(firstName, lastName, specialization string, hourlyRate decimal.Decimal) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if hourlyRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Specialization = strings.TrimSpace(specialization)
	if hourlyRate.IsPositive() {
		u.HourlyRate = hourlyRate
	}
	return nil
}

// ChangePassword changes the password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one (admin reset)
func (u *User) SetPassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ValidatePassword checks password strength requirements
func ValidatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password is required")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at most 128 characters")
	}
	if !letterPattern.MatchString(password) || !numberPattern.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain both letters and numbers")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

func validateRole(role Role) error {
	switch role {
	case RoleAdmin, RoleCoworker:
		return nil
	default:
		return shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN or COWORKER")
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
