package clientele

import (
	"strings"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxDocumentSize is the upload ceiling for client documents (10 MiB).
const MaxDocumentSize = 10 * 1024 * 1024

// allowedContentTypes is the upload allowlist for client documents.
var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"text/plain":      {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Document is the metadata record for a file stored in object storage.
// The object itself lives under ObjectKey in the documents bucket.
type Document struct {
	shared.BaseEntity
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ObjectKey   string    `gorm:"type:varchar(500);not null;uniqueIndex"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	SizeBytes   int64     `gorm:"not null"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "client_documents"
}

// NewDocument validates and creates a document record. The object key is
// derived from a fresh UUID so uploads never collide.
func NewDocument(clientID, uploadedBy uuid.UUID, fileName, contentType string, sizeBytes int64) (*Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name is required")
	}
	if sizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "File is empty")
	}
	if sizeBytes > MaxDocumentSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the 10MB upload limit")
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "File type is not allowed")
	}

	base := shared.NewBaseEntity()
	ext := ""
	if idx := strings.LastIndex(fileName, "."); idx >= 0 {
		ext = fileName[idx:]
	}

	return &Document{
		BaseEntity:  base,
		ClientID:    clientID,
		FileName:    fileName,
		ObjectKey:   "documents/" + clientID.String() + "/" + base.ID.String() + ext,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		UploadedBy:  uploadedBy,
	}, nil
}
