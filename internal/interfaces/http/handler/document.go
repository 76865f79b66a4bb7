package handler

import (
	"io"

	appdocument "github.com/MAsTer0103-byte/eqb-platform/internal/application/document"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles client document requests
type DocumentHandler struct {
	BaseHandler
	documentService *appdocument.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *appdocument.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload godoc
// @Summary      Upload document
// @Description  Attach a document to a client record. Accepts multipart form data.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Param        file formData file true "Document file"
// @Success      201 {object} dto.Response{data=document.DocumentDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients/{id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	clientID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	uploadedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file field")
		return
	}
	if fileHeader.Size > clientele.MaxDocumentSize {
		h.BadRequest(c, "File exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, clientele.MaxDocumentSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	if int64(len(data)) > clientele.MaxDocumentSize {
		h.BadRequest(c, "File exceeds the maximum allowed size")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	doc, err := h.documentService.Upload(c.Request.Context(), appdocument.UploadInput{
		ClientID:    clientID,
		UploadedBy:  uploadedBy,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// List godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response{data=[]document.DocumentDTO}
// @Router       /clients/{id}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	clientID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	docs, err := h.documentService.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// DownloadLink godoc
// @Summary      Get download link
// @Description  Generate a short-lived presigned URL for a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Document ID"
// @Success      200 {object} dto.Response{data=document.DownloadLinkDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id}/download [get]
func (h *DocumentHandler) DownloadLink(c *gin.Context) {
	documentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	link, err := h.documentService.DownloadLink(c.Request.Context(), documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// Delete godoc
// @Summary      Delete document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Document ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	documentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), documentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
