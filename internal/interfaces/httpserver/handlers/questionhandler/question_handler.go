package questionhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/question"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/requests"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

type QuestionHandler struct {
	questionService question.Service
}

func NewQuestionHandler(questionService question.Service) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// Increment godoc
// @Summary Track an asked question
// @Description Increments the frequency of the exact question text, creating it on first use.
// @Tags Questions API
// @Accept json
// @Produce json
// @Param request body requests.IncrementQuestionRequest true "Question"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse "Question is required"
// @Router /v1/questions/increment [post]
func (h *QuestionHandler) Increment(c *gin.Context) {
	var req requests.IncrementQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "question-handler-bind-001")
		return
	}

	if err := h.questionService.Increment(c.Request.Context(), req.Question); err != nil {
		responses.HandleError(c, err, "Failed to track question")
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}
