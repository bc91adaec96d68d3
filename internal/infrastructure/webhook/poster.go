// Package webhook delivers JSON payloads to the CRM webhook endpoints.
package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/aifirstlegal/masterclass-server/internal/domain/lead"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/httpclient"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/metrics"
)

// Config controls timeouts and retries. MaxAttempts counts the first try, so 1 never retries.
type Config struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// Poster implements lead.Poster.
type Poster struct {
	client *resty.Client
	log    zerolog.Logger
}

// NewPoster builds a poster. Retries cover transport errors and 5xx answers.
func NewPoster(cfg Config, log zerolog.Logger) *Poster {
	log = log.With().Str("component", "webhook-poster").Logger()
	client := httpclient.New("webhook", cfg.Timeout, log)
	if cfg.MaxAttempts > 1 {
		client.SetRetryCount(cfg.MaxAttempts - 1).
			SetRetryWaitTime(cfg.RetryDelay).
			SetAllowNonIdempotentRetry(true)
	}
	return &Poster{client: client, log: log}
}

// PostJSON posts payload to url. A []byte payload is sent as is; anything else is marshalled.
// Non-2xx answers return the delivery alongside an error.
func (p *Poster) PostJSON(ctx context.Context, url string, payload any) (*lead.Delivery, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetResponseBodyUnlimitedReads(true).
		SetBody(payload).
		Post(url)
	if err != nil {
		metrics.RecordWebhook("error")
		return nil, fmt.Errorf("webhook post: %w", err)
	}

	delivery := &lead.Delivery{StatusCode: resp.StatusCode(), Body: resp.Bytes()}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		metrics.RecordWebhook("rejected")
		p.log.Warn().Int("status", resp.StatusCode()).Msg("webhook rejected payload")
		return delivery, fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	metrics.RecordWebhook("ok")
	return delivery, nil
}
