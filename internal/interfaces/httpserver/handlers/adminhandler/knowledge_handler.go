package adminhandler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/knowledge"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/requests"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

const resourceKnowledge = "knowledge_document"

// KnowledgeHandler manages knowledge documents from the admin panel.
type KnowledgeHandler struct {
	knowledgeService knowledge.Service
	audit            AuditRecorder
	maxFileBytes     int64
}

func NewKnowledgeHandler(knowledgeService knowledge.Service, audit AuditRecorder, maxFileBytes int64) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService, audit: audit, maxFileBytes: maxFileBytes}
}

// List godoc
// @Summary List knowledge documents
// @Description Newest upload first.
// @Tags Admin API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.ListResponse[knowledge.Document]
// @Router /v1/admin/knowledge [get]
func (h *KnowledgeHandler) List(c *gin.Context) {
	docs, err := h.knowledgeService.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "Failed to load documents")
		return
	}
	c.JSON(http.StatusOK, responses.BuildListResponse(docs))
}

// UploadFile godoc
// @Summary Upload a knowledge file
// @Description Accepts a multipart file. Text files are stored as content; other types get a descriptive placeholder.
// @Tags Admin API
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document"
// @Success 201 {object} responses.DocumentResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/admin/knowledge/files [post]
func (h *KnowledgeHandler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "A file is required", "knowledge-file-bind-001")
		return
	}

	file, err := header.Open()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Unable to read uploaded file", "knowledge-file-open-001")
		return
	}
	defer file.Close()

	reader := io.Reader(file)
	if h.maxFileBytes > 0 {
		// One extra byte lets the service detect the oversize file.
		reader = io.LimitReader(file, h.maxFileBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Unable to read uploaded file", "knowledge-file-read-001")
		return
	}

	auditPayload := map[string]any{"filename": header.Filename, "size": header.Size}
	doc, err := h.knowledgeService.UploadFile(c.Request.Context(), knowledge.FileParams{
		Filename:     header.Filename,
		DeclaredType: header.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		responses.HandleError(c, err, "Failed to upload document")
		logAudit(c, h.audit, "upload_knowledge_file", resourceKnowledge, "", auditPayload, statusOf(c), err)
		return
	}

	logAudit(c, h.audit, "upload_knowledge_file", resourceKnowledge, doc.ID, auditPayload, http.StatusCreated, nil)
	c.JSON(http.StatusCreated, responses.DocumentResponse{Success: true, Document: doc})
}

// SetStatus godoc
// @Summary Activate or deactivate a document
// @Tags Admin API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param request body requests.KnowledgeStatusRequest true "active or inactive"
// @Success 200 {object} knowledge.Document
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/admin/knowledge/{id} [patch]
func (h *KnowledgeHandler) SetStatus(c *gin.Context) {
	id := c.Param("id")

	var req requests.KnowledgeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Status is required", "knowledge-status-bind-001")
		return
	}
	status := knowledge.Status(req.Status)
	if !status.Valid() {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Status must be active or inactive", "knowledge-status-invalid-001")
		return
	}

	doc, err := h.knowledgeService.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		responses.HandleError(c, err, "Failed to update document")
		logAudit(c, h.audit, "set_knowledge_status", resourceKnowledge, id, req, statusOf(c), err)
		return
	}

	logAudit(c, h.audit, "set_knowledge_status", resourceKnowledge, id, req, http.StatusOK, nil)
	c.JSON(http.StatusOK, doc)
}

// Delete godoc
// @Summary Delete a knowledge document
// @Tags Admin API
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/admin/knowledge/{id} [delete]
func (h *KnowledgeHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.knowledgeService.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "Failed to delete document")
		logAudit(c, h.audit, "delete_knowledge_document", resourceKnowledge, id, nil, statusOf(c), err)
		return
	}

	logAudit(c, h.audit, "delete_knowledge_document", resourceKnowledge, id, nil, http.StatusNoContent, nil)
	c.Status(http.StatusNoContent)
}
