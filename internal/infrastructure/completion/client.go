// Package completion calls the OpenAI-compatible chat completion gateway.
package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chat"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/httpclient"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/metrics"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// Config describes the gateway connection.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Referer     string
	Title       string
}

// Client implements chat.Completer over HTTP.
type Client struct {
	client *resty.Client
	cfg    Config
	log    zerolog.Logger
}

// NewClient builds the completion client. A missing API key is reported by Configured.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	log = log.With().Str("component", "completion-client").Logger()
	return &Client{
		client: httpclient.New("completion", cfg.Timeout, log),
		cfg:    cfg,
		log:    log,
	}
}

func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// Complete sends the system and user messages and returns the first choice.
func (c *Client) Complete(ctx context.Context, req chat.CompletionRequest) (*chat.CompletionResult, error) {
	if !c.Configured() {
		return nil, platformerrors.NewConfigurationError(ctx, platformerrors.LayerInfrastructure,
			chat.ReasonCompletionKeyMissing, "OpenRouter API key not configured", "completion-config-001")
	}

	body := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserMessage},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	start := time.Now()
	var result openai.ChatCompletionResponse
	resp, err := c.prepareRequest(ctx).
		SetBody(body).
		SetResult(&result).
		Post(c.cfg.BaseURL + "/chat/completions")
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordCompletion(c.cfg.Model, "error", elapsed, 0)
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"completion request failed", err, "completion-request-001")
	}
	if resp.IsError() {
		metrics.RecordCompletion(c.cfg.Model, "error", elapsed, 0)
		c.log.Warn().Int("status", resp.StatusCode()).Msg("completion gateway returned error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("completion gateway returned status %d", resp.StatusCode()), nil, "completion-status-001")
	}
	if len(result.Choices) == 0 {
		metrics.RecordCompletion(c.cfg.Model, "empty", elapsed, 0)
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"completion gateway returned no choices", nil, "completion-empty-001")
	}

	metrics.RecordCompletion(c.cfg.Model, "ok", elapsed, result.Usage.TotalTokens)
	return &chat.CompletionResult{
		Content:    result.Choices[0].Message.Content,
		TokensUsed: result.Usage.TotalTokens,
	}, nil
}

func (c *Client) prepareRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	req.SetHeader("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.Referer != "" {
		req.SetHeader("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.SetHeader("X-Title", c.cfg.Title)
	}
	return req
}
