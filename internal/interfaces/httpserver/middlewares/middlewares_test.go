package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/domain/admin"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	var fromCtx, fromGin string
	engine.GET("/", func(c *gin.Context) {
		fromCtx = platformerrors.RequestIDFromContext(c.Request.Context())
		fromGin = RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})

	rec := perform(engine, http.MethodGet, "/", nil)
	id := rec.Header().Get("X-Request-Id")
	require.NotEmpty(t, id)
	assert.Equal(t, id, fromCtx)
	assert.Equal(t, id, fromGin)

	rec = perform(engine, http.MethodGet, "/", map[string]string{"X-Request-Id": "given"})
	assert.Equal(t, "given", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "given", fromCtx)
}

func TestRequestIDReplacesUnusableHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, given := range []string{"has space", strings.Repeat("a", 129)} {
		rec := perform(engine, http.MethodGet, "/", map[string]string{"X-Request-Id": given})
		got := rec.Header().Get("X-Request-Id")
		assert.NotEqual(t, given, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	engine := gin.New()
	engine.Use(CORSMiddleware([]string{"https://aifirstlegal.com/"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := perform(engine, http.MethodGet, "/", map[string]string{"Origin": "https://aifirstlegal.com"})
	assert.Equal(t, "https://aifirstlegal.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = perform(engine, http.MethodGet, "/", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	engine := gin.New()
	engine.Use(CORSMiddleware([]string{"*"}))
	called := false
	engine.OPTIONS("/v1/chat", func(c *gin.Context) { called = true })

	rec := perform(engine, http.MethodOptions, "/v1/chat", map[string]string{"Origin": "https://any.example"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	limiter := NewRateLimiter(2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	engine := gin.New()
	engine.Use(limiter.Middleware())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/", nil).Code)
	rec := perform(engine, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/", nil).Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	engine := gin.New()
	engine.Use(RateLimitMiddleware(0))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/", nil).Code)
	}
}

type verifierFunc func(ctx context.Context, raw string) (*admin.Principal, error)

func (f verifierFunc) Verify(ctx context.Context, raw string) (*admin.Principal, error) {
	return f(ctx, raw)
}

func TestRequireAdmin(t *testing.T) {
	verifier := verifierFunc(func(ctx context.Context, raw string) (*admin.Principal, error) {
		switch raw {
		case "good":
			return &admin.Principal{Subject: "operator", Role: admin.Role}, nil
		case "viewer":
			return &admin.Principal{Subject: "viewer", Role: "viewer"}, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnauthorized,
			"Invalid or expired admin token", nil, "auth-001")
	})

	engine := gin.New()
	engine.Use(RequireAdmin(verifier))
	var subject string
	engine.GET("/", func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if ok {
			subject = principal.Subject
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"non admin", "Bearer viewer", http.StatusForbidden},
		{"valid", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rec := perform(engine, http.MethodGet, "/", headers)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, "operator", subject)
}
