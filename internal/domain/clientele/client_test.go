package clientele

import (
	"strings"
	"testing"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Valid(t *testing.T) {
	client, err := NewClient("  Marta ", " Koch ", " Marta.Koch@Example.com ", "+49 170 1234567", "prefers mornings")
	require.NoError(t, err)

	assert.Equal(t, "Marta Koch", client.FullName())
	assert.Equal(t, "marta.koch@example.com", client.Email)
	assert.Equal(t, "+49 170 1234567", client.Phone)
	assert.Equal(t, ClientStatusActive, client.Status)
	assert.True(t, client.IsActive())
}

func TestNewClient_EmptyPhoneIsAllowed(t *testing.T) {
	client, err := NewClient("Marta", "Koch", "marta@example.com", "", "")
	require.NoError(t, err)
	assert.Empty(t, client.Phone)
}

func TestNewClient_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		email     string
		phone     string
		code      string
	}{
		{"missing name", " ", "marta@example.com", "", "INVALID_NAME"},
		{"bad email", "Marta", "not-an-email", "", "INVALID_EMAIL"},
		{"bad phone", "Marta", "marta@example.com", "abc", "INVALID_PHONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.firstName, "Koch", tt.email, tt.phone, "")
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestClient_Update(t *testing.T) {
	client, err := NewClient("Marta", "Koch", "marta@example.com", "", "")
	require.NoError(t, err)

	require.NoError(t, client.Update("Martha", "Kochova", "030-555-0101", "moved"))
	assert.Equal(t, "Martha Kochova", client.FullName())
	assert.Equal(t, "030-555-0101", client.Phone)
	assert.Equal(t, "moved", client.Notes)

	err = client.Update("", "Kochova", "", "")
	require.Error(t, err)
}

func TestClient_DeactivateReactivate(t *testing.T) {
	client, err := NewClient("Marta", "Koch", "marta@example.com", "", "")
	require.NoError(t, err)

	require.NoError(t, client.Deactivate())
	assert.False(t, client.IsActive())

	// Deactivating twice is an invalid transition.
	assert.ErrorIs(t, client.Deactivate(), shared.ErrInvalidState)

	client.Reactivate()
	assert.True(t, client.IsActive())
}

func TestNewCoworkerLink(t *testing.T) {
	clientID, coworkerID := uuid.New(), uuid.New()

	link := NewCoworkerLink(clientID, coworkerID, true)

	assert.Equal(t, clientID, link.ClientID)
	assert.Equal(t, coworkerID, link.CoworkerID)
	assert.True(t, link.IsPrimary)
}

func TestNewDocument_Valid(t *testing.T) {
	clientID, uploader := uuid.New(), uuid.New()

	doc, err := NewDocument(clientID, uploader, "intake-form.pdf", "application/pdf", 2048)
	require.NoError(t, err)

	assert.Equal(t, "intake-form.pdf", doc.FileName)
	assert.Equal(t, int64(2048), doc.SizeBytes)
	assert.Equal(t, uploader, doc.UploadedBy)
	assert.True(t, strings.HasPrefix(doc.ObjectKey, "documents/"+clientID.String()+"/"))
	assert.True(t, strings.HasSuffix(doc.ObjectKey, ".pdf"))
}

func TestNewDocument_ObjectKeyWithoutExtension(t *testing.T) {
	doc, err := NewDocument(uuid.New(), uuid.New(), "notes", "text/plain", 10)
	require.NoError(t, err)
	assert.False(t, strings.Contains(doc.ObjectKey[strings.LastIndex(doc.ObjectKey, "/"):], "."))
}

func TestNewDocument_Invalid(t *testing.T) {
	clientID, uploader := uuid.New(), uuid.New()

	tests := []struct {
		name        string
		fileName    string
		contentType string
		size        int64
		code        string
	}{
		{"empty name", "  ", "application/pdf", 100, "INVALID_FILE_NAME"},
		{"empty file", "a.pdf", "application/pdf", 0, "INVALID_FILE"},
		{"too large", "a.pdf", "application/pdf", MaxDocumentSize + 1, "FILE_TOO_LARGE"},
		{"disallowed type", "a.exe", "application/x-msdownload", 100, "UNSUPPORTED_FILE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocument(clientID, uploader, tt.fileName, tt.contentType, tt.size)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestNewDocument_SizeAtLimitIsAccepted(t *testing.T) {
	_, err := NewDocument(uuid.New(), uuid.New(), "scan.png", "image/png", MaxDocumentSize)
	assert.NoError(t, err)
}
