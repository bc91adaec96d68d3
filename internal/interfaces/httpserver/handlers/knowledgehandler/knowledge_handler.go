package knowledgehandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/knowledge"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/requests"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// KnowledgeHandler accepts knowledge documents posted as JSON.
type KnowledgeHandler struct {
	knowledgeService knowledge.Service
}

func NewKnowledgeHandler(knowledgeService knowledge.Service) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

// Upload godoc
// @Summary Upload a knowledge document
// @Description Stores a text document that is injected into the completion prompt while active.
// @Tags Knowledge API
// @Accept json
// @Produce json
// @Param request body requests.KnowledgeUploadRequest true "Document"
// @Success 200 {object} responses.DocumentResponse
// @Failure 400 {object} responses.ErrorResponse "Filename, content, and fileType are required"
// @Router /v1/knowledge/upload [post]
func (h *KnowledgeHandler) Upload(c *gin.Context) {
	var req requests.KnowledgeUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "knowledge-handler-bind-001")
		return
	}

	doc, err := h.knowledgeService.Upload(c.Request.Context(), knowledge.UploadParams{
		Filename: req.Filename,
		Content:  req.Content,
		FileType: req.FileType,
		FileSize: req.FileSize,
	})
	if err != nil {
		responses.HandleError(c, err, "Failed to upload document")
		return
	}
	c.JSON(http.StatusOK, responses.DocumentResponse{Success: true, Document: doc})
}
