package clientele

import (
	"regexp"
	"strings"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientStatus represents the lifecycle state of a client record
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

var (
	clientEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern       = regexp.MustCompile(`^\+?[0-9 .\-()]{6,20}$`)
)

// Client represents a person receiving services.
// Deletion is always soft: the record flips to INACTIVE so appointment and
// backlog history stays intact.
type Client struct {
	shared.BaseEntity
	FirstName string       `gorm:"type:varchar(100);not null"`
	LastName  string       `gorm:"type:varchar(100);not null"`
	Email     string       `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone     string       `gorm:"type:varchar(50);index"`
	Notes     string       `gorm:"type:text"`
	Status    ClientStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// CoworkerLink associates a client with a coworker who serves them.
// At most one link per (client, coworker); IsPrimary marks the main coworker.
type CoworkerLink struct {
	shared.BaseEntity
	ClientID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_client_coworker,priority:1"`
	CoworkerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_client_coworker,priority:2"`
	IsPrimary  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CoworkerLink) TableName() string {
	return "client_coworkers"
}

// NewClient creates an active client record
func NewClient(firstName, lastName, email, phone, notes string) (*Client, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if email == "" || !clientEmailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone format is invalid")
	}

	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Phone:      phone,
		Notes:      notes,
		Status:     ClientStatusActive,
	}, nil
}

// FullName returns the display name of the client
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// IsActive reports whether the client can be booked
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// Update applies new contact details
func (c *Client) Update(firstName, lastName, phone, notes string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	phone = strings.TrimSpace(phone)

	if firstName == "" || lastName == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone format is invalid")
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.Phone = phone
	c.Notes = notes
	return nil
}

// Deactivate soft-deletes the client
func (c *Client) Deactivate() error {
	if c.Status == ClientStatusInactive {
		return shared.ErrInvalidState
	}
	c.Status = ClientStatusInactive
	return nil
}

// Reactivate restores a soft-deleted client
func (c *Client) Reactivate() {
	c.Status = ClientStatusActive
}

// NewCoworkerLink creates a client-coworker association
func NewCoworkerLink(clientID, coworkerID uuid.UUID, isPrimary bool) *CoworkerLink {
	return &CoworkerLink{
		BaseEntity: shared.NewBaseEntity(),
		ClientID:   clientID,
		CoworkerID: coworkerID,
		IsPrimary:  isPrimary,
	}
}
