package clientele

import (
	"context"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the persistence interface for clients and their
// coworker links
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Client], error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Save(ctx context.Context, client *Client) error
	Count(ctx context.Context, status ClientStatus) (int64, error)

	FindLinks(ctx context.Context, clientID uuid.UUID) ([]CoworkerLink, error)
	FindLink(ctx context.Context, clientID, coworkerID uuid.UUID) (*CoworkerLink, error)
	SaveLink(ctx context.Context, link *CoworkerLink) error
	DeleteLink(ctx context.Context, clientID, coworkerID uuid.UUID) error
}

// DocumentRepository defines the persistence interface for document metadata
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Document, error)
	Save(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}
