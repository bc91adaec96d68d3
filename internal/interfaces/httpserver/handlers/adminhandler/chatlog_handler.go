package adminhandler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chatlog"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/requests"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

const groupByEmail = "email"

// ChatLogHandler serves the chat-log browser, export and analytics dashboard.
type ChatLogHandler struct {
	chatlogService chatlog.Service
	now            func() time.Time
}

func NewChatLogHandler(chatlogService chatlog.Service) *ChatLogHandler {
	return &ChatLogHandler{chatlogService: chatlogService, now: time.Now}
}

// List godoc
// @Summary Browse chat logs
// @Description Case-insensitive search over message, reply and email; newest first. group=email groups the result per user.
// @Tags Admin API
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Param group query string false "Set to email to group by user"
// @Success 200 {object} responses.ChatLogsResponse
// @Router /v1/admin/chat-logs [get]
func (h *ChatLogHandler) List(c *gin.Context) {
	var query requests.ChatLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid query parameters", "chatlog-handler-bind-001")
		return
	}

	entries, err := h.chatlogService.Search(c.Request.Context(), query.Query)
	if err != nil {
		responses.HandleError(c, err, "Failed to load chat logs")
		return
	}

	resp := responses.ChatLogsResponse{Total: len(entries)}
	if query.Group == groupByEmail {
		resp.Groups = h.chatlogService.GroupByUser(entries)
	} else {
		resp.Entries = entries
	}
	c.JSON(http.StatusOK, resp)
}

// Export godoc
// @Summary Export chat logs as CSV
// @Tags Admin API
// @Produce text/csv
// @Security BearerAuth
// @Param q query string false "Search text"
// @Success 200 {file} file
// @Router /v1/admin/chat-logs/export [get]
func (h *ChatLogHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.chatlogService.ExportCSV(c.Request.Context(), c.Query("q"), &buf); err != nil {
		responses.HandleError(c, err, "Failed to export chat logs")
		return
	}

	filename := fmt.Sprintf("chat-logs-%s.csv", h.now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Analytics godoc
// @Summary Analytics dashboard
// @Description Unique chat users, average response time, unique sessions, today's chats and the most asked questions.
// @Tags Admin API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} chatlog.Dashboard
// @Router /v1/admin/analytics [get]
func (h *ChatLogHandler) Analytics(c *gin.Context) {
	dash, err := h.chatlogService.Dashboard(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "Failed to load analytics")
		return
	}
	c.JSON(http.StatusOK, dash)
}
