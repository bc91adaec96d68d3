package adminhandler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/audit"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/middlewares"
)

// AuditRecorder stores admin actions. Implementations must not fail the request.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

func logAudit(c *gin.Context, recorder AuditRecorder, action, resourceType, resourceID string, payload any, status int, err error) {
	if recorder == nil {
		return
	}
	subject := ""
	if principal, ok := middlewares.PrincipalFromContext(c); ok {
		subject = principal.Subject
	}
	entry := audit.Entry{
		AdminSubject: subject,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Payload:      payload,
		StatusCode:   status,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	recorder.Record(c.Request.Context(), entry)
}

// statusOf returns the status already written by HandleError.
func statusOf(c *gin.Context) int {
	return c.Writer.Status()
}
