package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// LoggingMiddleware writes one access line per request. Query strings are left out since
// chat-log searches and access links carry visitor emails.
func LoggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
			event = event.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
		}
		if requestID := RequestIDFromContext(c); requestID != "" {
			event = event.Str("request_id", requestID)
		}
		if sessionID := c.Param("session_id"); sessionID != "" {
			event = event.Str("session_id", sessionID)
		}
		if principal, ok := PrincipalFromContext(c); ok {
			event = event.Str("admin", principal.Subject)
		}
		if last := c.Errors.Last(); last != nil {
			if pe := platformerrors.GetPlatformError(last.Err); pe != nil {
				event = event.Object("error", pe)
			} else {
				event = event.AnErr("error", last.Err)
			}
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}
