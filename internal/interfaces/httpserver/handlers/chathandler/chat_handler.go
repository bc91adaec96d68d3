package chathandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chat"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/observability"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/requests"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// ChatHandler serves the completion endpoint used by the chat widget.
type ChatHandler struct {
	chatService chat.Service
	serviceName string
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService chat.Service, serviceName string) *ChatHandler {
	return &ChatHandler{chatService: chatService, serviceName: serviceName}
}

// Complete godoc
// @Summary Answer a visitor message
// @Description Builds the system prompt from active instructions and knowledge documents and returns the assistant reply.
// @Tags Chat API
// @Accept json
// @Produce json
// @Param request body requests.ChatRequest true "Visitor message"
// @Success 200 {object} chat.Reply
// @Failure 400 {object} responses.ErrorResponse "Message and sessionId are required"
// @Failure 500 {object} responses.ErrorResponse "Server configuration error"
// @Failure 502 {object} responses.ErrorResponse "Completion provider failure"
// @Router /v1/chat [post]
func (h *ChatHandler) Complete(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "chat-handler-bind-001")
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), h.serviceName, "ChatHandler.Complete",
		observability.AttrSessionID.String(req.SessionID),
		observability.AttrMessageLength.Int(len(req.Message)),
	)
	defer span.End()

	reply, err := h.chatService.Complete(ctx, chat.Request{
		Message:   req.Message,
		SessionID: req.SessionID,
		UserEmail: req.UserEmail,
	})
	if err != nil {
		observability.FailSpan(ctx, err)
		responses.HandleError(c, err, "Failed to generate a response")
		return
	}

	observability.Annotate(ctx, observability.AttrResponseTimeMs.Int64(reply.ResponseTimeMs))
	c.JSON(http.StatusOK, reply)
}
