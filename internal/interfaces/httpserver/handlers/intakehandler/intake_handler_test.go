package intakehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chat"
	"github.com/aifirstlegal/masterclass-server/internal/domain/intake"
	"github.com/aifirstlegal/masterclass-server/internal/domain/lead"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/metrics"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/sessionstore"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

type completerFunc func(ctx context.Context, req chat.Request) (*chat.Reply, error)

func (f completerFunc) Complete(ctx context.Context, req chat.Request) (*chat.Reply, error) {
	return f(ctx, req)
}

type nopTracker struct{}

func (nopTracker) Increment(context.Context, string) error { return nil }

type recordingLeads struct {
	mu       sync.Mutex
	contacts []lead.ContactPayload
}

func (r *recordingLeads) NotifyContact(_ context.Context, payload lead.ContactPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, payload)
	return nil
}

func (r *recordingLeads) UpsertProfile(_ context.Context, profile lead.Profile) (*lead.Profile, error) {
	return &profile, nil
}

type syncDispatcher struct{}

func (syncDispatcher) Dispatch(_ string, job func(ctx context.Context) error) bool {
	_ = job(context.Background())
	return true
}

func newEngine(t *testing.T, completer completerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sessionstore.NewMemoryStore(100, time.Hour, zerolog.Nop())
	require.NoError(t, err)
	content, err := intake.DefaultContent()
	require.NoError(t, err)

	svc := intake.NewService(store, completer, nopTracker{}, &recordingLeads{}, syncDispatcher{}, content,
		intake.Config{SourceMarkers: []string{"fb"}, TriggerTurns: 3, NotifyTurn: 5}, nil, zerolog.Nop())
	h := NewIntakeHandler(svc, "test")

	engine := gin.New()
	engine.GET("/v1/chat/content", h.GetContent)
	engine.POST("/v1/chat/sessions", h.StartSession)
	engine.GET("/v1/chat/sessions/:session_id", h.GetSession)
	engine.POST("/v1/chat/sessions/:session_id/messages", h.SendMessage)
	return engine
}

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func answer(ctx context.Context, req chat.Request) (*chat.Reply, error) {
	return &chat.Reply{Response: "Answer to " + req.Message}, nil
}

func TestStartSessionReturnsGreeting(t *testing.T) {
	engine := newEngine(t, answer)

	rec := do(engine, http.MethodPost, "/v1/chat/sessions?source=fb", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var session responses.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, intake.StateIdle, session.State)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, intake.KindGreeting, session.Messages[0].Kind)

	rec = do(engine, http.MethodGet, "/v1/chat/sessions/"+session.SessionID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUnknownSession(t *testing.T) {
	engine := newEngine(t, answer)

	rec := do(engine, http.MethodGet, "/v1/chat/sessions/sess_unknown", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageStartsCollectionOnThirdTurn(t *testing.T) {
	engine := newEngine(t, answer)
	before := testutil.ToFloat64(metrics.IntakeEventsTotal.WithLabelValues(EventCollectionStarted))

	rec := do(engine, http.MethodPost, "/v1/chat/sessions", `{"source":"fb"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var session responses.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	path := "/v1/chat/sessions/" + session.SessionID + "/messages"

	var turn responses.TurnResponse
	for _, q := range []string{"What is it?", "Who teaches it?", "How long is it?"} {
		rec = do(engine, http.MethodPost, path, `{"content":"`+q+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		turn = responses.TurnResponse{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	}

	assert.Equal(t, intake.StateAwaitingAnswer, turn.State)
	assert.Equal(t, intake.StepFullName, turn.CurrentStep)
	assert.Equal(t, 3, turn.UserTurns)
	require.Len(t, turn.Messages, 3)
	assert.Equal(t, intake.KindQuestion, turn.Messages[0].Kind)
	assert.Equal(t, "Answer to How long is it?", turn.Messages[1].Content)
	assert.Equal(t, intake.KindCollectionPrompt, turn.Messages[2].Kind)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.IntakeEventsTotal.WithLabelValues(EventCollectionStarted)))
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	engine := newEngine(t, answer)
	rec := do(engine, http.MethodPost, "/v1/chat/sessions", "")
	var session responses.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	rec = do(engine, http.MethodPost, "/v1/chat/sessions/"+session.SessionID+"/messages", `{"content":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageCompletionFailureReturnsFallback(t *testing.T) {
	engine := newEngine(t, func(ctx context.Context, req chat.Request) (*chat.Reply, error) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "upstream", nil, "x")
	})
	rec := do(engine, http.MethodPost, "/v1/chat/sessions", "")
	var session responses.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	rec = do(engine, http.MethodPost, "/v1/chat/sessions/"+session.SessionID+"/messages", `{"content":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var turn responses.TurnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	require.Len(t, turn.Messages, 2)
	assert.Equal(t, intake.KindFallback, turn.Messages[1].Kind)
	assert.Equal(t, "Sorry, I encountered an error. Please try again.", turn.Messages[1].Content)
}

func TestGetContentHidesStarterAnswers(t *testing.T) {
	engine := newEngine(t, answer)

	rec := do(engine, http.MethodGet, "/v1/chat/content", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["greeting"])
	starters, ok := body["starters"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, starters)
	assert.NotContains(t, starters[0], "answer")
}
