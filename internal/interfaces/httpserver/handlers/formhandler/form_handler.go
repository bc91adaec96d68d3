package formhandler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/lead"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// FormHandler relays site forms to the lead webhook.
type FormHandler struct {
	leadService lead.Service
}

func NewFormHandler(leadService lead.Service) *FormHandler {
	return &FormHandler{leadService: leadService}
}

// Submit godoc
// @Summary Submit a site form
// @Description Forwards the JSON body verbatim to the lead webhook and returns its JSON reply.
// @Tags Forms API
// @Accept json
// @Produce json
// @Param request body object true "Form fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse "Failed to submit form data"
// @Router /v1/forms/submit [post]
func (h *FormHandler) Submit(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil || !lead.IsJSONObject(payload) {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "form-handler-bind-001")
		return
	}

	body, err := h.leadService.Forward(c.Request.Context(), json.RawMessage(payload))
	if err != nil {
		responses.HandleError(c, err, "Failed to submit form data")
		return
	}
	if !json.Valid(body) {
		c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
