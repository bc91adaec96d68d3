package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

func newContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request = req.WithContext(platformerrors.WithRequestID(req.Context(), "req-1"))
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleErrorValidationCarriesDetails(t *testing.T) {
	c, rec := newContext(t)
	err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		"Filename, content, and fileType are required", nil, "kb-001").
		WithDetails(map[string]bool{"filename": true, "content": false})

	HandleError(c, err, "fallback")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "kb-001", body["code"])
	assert.Equal(t, "Filename, content, and fileType are required", body["error"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, map[string]any{"filename": true, "content": false}, body["details"])
	assert.True(t, c.IsAborted())
}

func TestHandleErrorConfigurationKeepsReason(t *testing.T) {
	c, rec := newContext(t)
	err := platformerrors.NewConfigurationError(c.Request.Context(), platformerrors.LayerDomain,
		"database_not_configured", "Server configuration error", "cfg-001")

	HandleError(c, err, "Failed")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "database_not_configured", body["reason"])
	assert.Equal(t, "Server configuration error", body["error"])
}

func TestHandleErrorHidesInternalMessages(t *testing.T) {
	c, rec := newContext(t)
	err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"failed to query chat_analytics", errors.New("pq: relation missing"), "repo-001")

	HandleError(c, err, "Failed to load chat logs")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Failed to load chat logs", body["error"])
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestHandleErrorPlainError(t *testing.T) {
	c, rec := newContext(t)

	HandleError(c, errors.New("boom"), "Something failed")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Something failed", body["error"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandleNewError(t *testing.T) {
	c, rec := newContext(t)

	HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "Authentication required", "auth-001")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "auth-001", body["code"])
	assert.Equal(t, "Authentication required", body["message"])
	assert.NotContains(t, body, "details")
}
