// Package httpclient builds the resty clients used for outbound calls.
package httpclient

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

type startsAtKey struct{}

// New returns a resty client that logs every response at debug level.
func New(clientName string, timeout time.Duration, log zerolog.Logger) *resty.Client {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), startsAtKey{}, time.Now()))
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		startTime, _ := r.Request.Context().Value(startsAtKey{}).(time.Time)
		event := log.Debug().
			Str("request_id", platformerrors.RequestIDFromContext(r.Request.Context())).
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Dur("latency", time.Since(startTime))
		if r.Request.RawRequest != nil {
			event = event.
				Str("method", r.Request.RawRequest.Method).
				Str("host", r.Request.RawRequest.URL.Host).
				Str("path", r.Request.RawRequest.URL.Path)
		}
		event.Msg("HTTP client request")
		return nil
	})
	return client
}
