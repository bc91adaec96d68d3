package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chat"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

func newTestClient(url, key string) *Client {
	return NewClient(Config{
		APIKey:      key,
		BaseURL:     url + "/",
		Model:       "openai/gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   500,
		Referer:     "https://masterclass.example.com",
		Title:       "Masterclass Chat",
	}, zerolog.Nop())
}

func TestCompleteSendsPromptAndHeaders(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "https://masterclass.example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Masterclass Chat", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Hello counsel"}}],"usage":{"prompt_tokens":30,"completion_tokens":12,"total_tokens":42}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "sk-test")
	require.True(t, client.Configured())

	res, err := client.Complete(context.Background(), chat.CompletionRequest{SystemPrompt: "be brief", UserMessage: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Hello counsel", res.Content)
	assert.Equal(t, 42, res.TokensUsed)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "hi", got.Messages[1].Content)
	assert.Equal(t, "openai/gpt-4o-mini", got.Model)
	assert.Equal(t, 500, got.MaxTokens)
}

func TestCompleteUpstreamErrorIsExternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "sk-test").Complete(context.Background(), chat.CompletionRequest{UserMessage: "hi"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestCompleteEmptyChoicesIsExternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "sk-test").Complete(context.Background(), chat.CompletionRequest{UserMessage: "hi"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestCompleteWithoutKey(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", " ")
	assert.False(t, client.Configured())

	_, err := client.Complete(context.Background(), chat.CompletionRequest{UserMessage: "hi"})
	perr := platformerrors.GetPlatformError(err)
	require.NotNil(t, perr)
	assert.Equal(t, chat.ReasonCompletionKeyMissing, perr.Reason)
}
