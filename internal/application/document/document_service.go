// Package document contains client document upload and retrieval use cases.
package document

import (
	"context"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage abstracts the object store documents live in. Implemented
// by the S3 client in infrastructure and an in-memory stub for tests.
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// DocumentService handles client document management
type DocumentService struct {
	documentRepo clientele.DocumentRepository
	clientRepo   clientele.ClientRepository
	storage      ObjectStorage
	urlExpiry    time.Duration
	logger       *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documentRepo clientele.DocumentRepository,
	clientRepo clientele.ClientRepository,
	storage ObjectStorage,
	urlExpiry time.Duration,
	logger *zap.Logger,
) *DocumentService {
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &DocumentService{
		documentRepo: documentRepo,
		clientRepo:   clientRepo,
		storage:      storage,
		urlExpiry:    urlExpiry,
		logger:       logger,
	}
}

// UploadInput contains input for uploading a document
type UploadInput struct {
	ClientID    uuid.UUID
	UploadedBy  uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
}

// DocumentDTO represents document metadata returned to callers
type DocumentDTO struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// DownloadLinkDTO carries a short-lived presigned URL
type DownloadLinkDTO struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Upload validates, stores and records a document for a client. The object
// is written first; a metadata failure rolls the object back.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*DocumentDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, shared.NewDomainError("CLIENT_INACTIVE", "Cannot upload documents for an inactive client")
	}

	doc, err := clientele.NewDocument(input.ClientID, input.UploadedBy, input.FileName, input.ContentType, int64(len(input.Data)))
	if err != nil {
		return nil, err
	}

	if err := s.storage.Upload(ctx, doc.ObjectKey, input.Data, input.ContentType); err != nil {
		s.logger.Error("Failed to upload document object", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to store document")
	}

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		s.logger.Error("Failed to save document metadata", zap.Error(err))
		if delErr := s.storage.DeleteObject(ctx, doc.ObjectKey); delErr != nil {
			s.logger.Warn("Failed to roll back orphaned object", zap.String("object_key", doc.ObjectKey), zap.Error(delErr))
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record document")
	}

	s.logger.Info("Uploaded document",
		zap.String("document_id", doc.ID.String()),
		zap.String("client_id", input.ClientID.String()),
		zap.Int64("size_bytes", doc.SizeBytes))

	return toDocumentDTO(doc), nil
}

// ListByClient returns the documents attached to a client
func (s *DocumentService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]DocumentDTO, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	dtos := make([]DocumentDTO, 0, len(docs))
	for i := range docs {
		dtos = append(dtos, *toDocumentDTO(&docs[i]))
	}
	return dtos, nil
}

// DownloadLink returns a presigned URL for a document
func (s *DocumentService) DownloadLink(ctx context.Context, documentID uuid.UUID) (*DownloadLinkDTO, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, doc.ObjectKey, s.urlExpiry)
	if err != nil {
		s.logger.Error("Failed to presign download", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to generate download link")
	}

	return &DownloadLinkDTO{URL: url, ExpiresAt: expiresAt}, nil
}

// Delete removes a document's metadata and its stored object. A missing
// object is not an error; the metadata row is authoritative.
func (s *DocumentService) Delete(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete document")
	}

	if err := s.storage.DeleteObject(ctx, doc.ObjectKey); err != nil {
		s.logger.Warn("Failed to delete stored object",
			zap.String("object_key", doc.ObjectKey),
			zap.Error(err))
	}

	s.logger.Info("Deleted document", zap.String("document_id", documentID.String()))
	return nil
}

func toDocumentDTO(doc *clientele.Document) *DocumentDTO {
	return &DocumentDTO{
		ID:          doc.ID,
		ClientID:    doc.ClientID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		UploadedBy:  doc.UploadedBy,
		CreatedAt:   doc.CreatedAt,
	}
}
