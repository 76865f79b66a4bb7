package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements clientele.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new client repository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*clientele.Client, error) {
	var client clientele.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindAll returns a page of clients matching the filter
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[clientele.Client], error) {
	query := r.db.WithContext(ctx).Model(&clientele.Client{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[clientele.Client]{}, err
	}

	var clients []clientele.Client
	err := query.
		Order(orderClause(filter, "last_name ASC, first_name ASC")).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&clients).Error
	if err != nil {
		return shared.Paginated[clientele.Client]{}, err
	}

	return shared.NewPaginated(clients, total, filter.Page, filter.PageSize), nil
}

// ExistsByEmail checks whether a client with the email already exists
func (r *GormClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&clientele.Client{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks whether a client with the phone number already exists
func (r *GormClientRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	if phone == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&clientele.Client{}).
		Where("phone = ?", phone).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *clientele.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Count returns the number of clients with the given status
func (r *GormClientRepository) Count(ctx context.Context, status clientele.ClientStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&clientele.Client{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// FindLinks returns all coworker links for a client
func (r *GormClientRepository) FindLinks(ctx context.Context, clientID uuid.UUID) ([]clientele.CoworkerLink, error) {
	var links []clientele.CoworkerLink
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("is_primary DESC, created_at ASC").
		Find(&links).Error
	return links, err
}

// FindLink returns a single client-coworker link
func (r *GormClientRepository) FindLink(ctx context.Context, clientID, coworkerID uuid.UUID) (*clientele.CoworkerLink, error) {
	var link clientele.CoworkerLink
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND coworker_id = ?", clientID, coworkerID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// SaveLink creates or updates a client-coworker link
func (r *GormClientRepository) SaveLink(ctx context.Context, link *clientele.CoworkerLink) error {
	return r.db.WithContext(ctx).Save(link).Error
}

// DeleteLink removes a client-coworker link
func (r *GormClientRepository) DeleteLink(ctx context.Context, clientID, coworkerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("client_id = ? AND coworker_id = ?", clientID, coworkerID).
		Delete(&clientele.CoworkerLink{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormDocumentRepository implements clientele.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new document repository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*clientele.Document, error) {
	var doc clientele.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByClient returns all documents belonging to a client
func (r *GormDocumentRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]clientele.Document, error) {
	var docs []clientele.Document
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// Save creates or updates a document record
func (r *GormDocumentRepository) Save(ctx context.Context, doc *clientele.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// Delete removes a document record
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&clientele.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
