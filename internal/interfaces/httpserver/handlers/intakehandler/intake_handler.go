package intakehandler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/intake"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/metrics"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/observability"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/requests"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// Intake event labels.
const (
	EventSessionStarted      = "session_started"
	EventCollectionStarted   = "collection_started"
	EventCollectionCompleted = "collection_completed"
	EventNotified            = "notified"
	EventCompletionFailed    = "completion_failed"
)

// IntakeHandler serves the server-side widget conversation.
type IntakeHandler struct {
	intakeService intake.Service
	serviceName   string
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intakeService intake.Service, serviceName string) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService, serviceName: serviceName}
}

// GetContent godoc
// @Summary Widget content
// @Description Returns the greeting, starter questions and call to action shown by the chat widget.
// @Tags Chat API
// @Produce json
// @Success 200 {object} intake.Content
// @Router /v1/chat/content [get]
func (h *IntakeHandler) GetContent(c *gin.Context) {
	c.JSON(http.StatusOK, h.intakeService.Content())
}

// StartSession godoc
// @Summary Start or resume a chat session
// @Description Opens a new intake session with the greeting, or resumes the session named by session_id.
// @Tags Chat API
// @Accept json
// @Produce json
// @Param request body requests.StartSessionRequest false "Session options"
// @Success 200 {object} responses.SessionResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/chat/sessions [post]
func (h *IntakeHandler) StartSession(c *gin.Context) {
	var req requests.StartSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "intake-handler-bind-001")
			return
		}
	}
	if req.Source == "" {
		req.Source = c.Query("source")
	}

	session, err := h.intakeService.StartSession(c.Request.Context(), intake.StartInput{
		SessionID: req.SessionID,
		Source:    req.Source,
		UserEmail: req.UserEmail,
	})
	if err != nil {
		responses.HandleError(c, err, "Failed to start chat session")
		return
	}
	if req.SessionID != session.ID {
		metrics.RecordIntakeEvent(EventSessionStarted)
	}

	c.JSON(http.StatusOK, responses.BuildSessionResponse(session))
}

// GetSession godoc
// @Summary Get a chat session
// @Tags Chat API
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} responses.SessionResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/chat/sessions/{session_id} [get]
func (h *IntakeHandler) GetSession(c *gin.Context) {
	session, err := h.intakeService.GetSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		responses.HandleError(c, err, "Failed to load chat session")
		return
	}
	c.JSON(http.StatusOK, responses.BuildSessionResponse(session))
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Runs one turn: answers the question or records the pending contact answer, and returns the new messages.
// @Tags Chat API
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param request body requests.SendMessageRequest true "Message"
// @Success 200 {object} responses.TurnResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/chat/sessions/{session_id}/messages [post]
func (h *IntakeHandler) SendMessage(c *gin.Context) {
	var req requests.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "intake-handler-bind-002")
		return
	}

	sessionID := c.Param("session_id")
	ctx, span := observability.StartSpan(c.Request.Context(), h.serviceName, "IntakeHandler.SendMessage",
		observability.AttrSessionID.String(sessionID),
		observability.AttrStarter.Bool(req.Starter),
	)
	defer span.End()

	result, err := h.intakeService.SendMessage(ctx, sessionID, intake.SendInput{
		Content: req.Content,
		Starter: req.Starter,
	})
	if err != nil {
		observability.FailSpan(ctx, err)
		responses.HandleError(c, err, "Failed to process message")
		return
	}

	recordTurnEvents(ctx, result)
	if result.Session != nil {
		observability.Annotate(ctx,
			observability.AttrIntakeState.String(string(result.Session.State)),
			observability.AttrUserTurns.Int(result.Session.UserTurns),
		)
	}

	c.JSON(http.StatusOK, responses.BuildTurnResponse(result))
}

func recordTurnEvents(ctx context.Context, result *intake.TurnResult) {
	for event, happened := range map[string]bool{
		EventCollectionStarted:   result.CollectionStarted,
		EventCollectionCompleted: result.CollectionCompleted,
		EventNotified:            result.Notified,
		EventCompletionFailed:    result.CompletionFailed,
	} {
		if happened {
			metrics.RecordIntakeEvent(event)
			observability.MarkEvent(ctx, event)
		}
	}
}
