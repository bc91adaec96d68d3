package knowledgehandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/domain/knowledge"
)

type memoryRepo struct {
	knowledge.Repository
	created []*knowledge.Document
}

func (r *memoryRepo) Create(_ context.Context, doc *knowledge.Document) error {
	r.created = append(r.created, doc)
	return nil
}

func setup() (*gin.Engine, *memoryRepo) {
	gin.SetMode(gin.TestMode)
	repo := &memoryRepo{}
	h := NewKnowledgeHandler(knowledge.NewService(repo, nil, knowledge.Config{}, zerolog.Nop()))
	engine := gin.New()
	engine.POST("/v1/knowledge/upload", h.Upload)
	return engine, repo
}

func post(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/knowledge/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestUploadStoresDocument(t *testing.T) {
	engine, repo := setup()

	rec := post(engine, `{"filename":"faq.md","content":"# FAQ","fileType":"text/markdown","fileSize":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success  bool                `json:"success"`
		Document *knowledge.Document `json:"document"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "faq.md", body.Document.Filename)
	assert.Equal(t, knowledge.StatusActive, body.Document.Status)
	require.Len(t, repo.created, 1)
}

func TestUploadMissingFileTypeCreatesNothing(t *testing.T) {
	engine, repo := setup()

	rec := post(engine, `{"filename":"faq.md","content":"# FAQ"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Filename, content, and fileType are required", body["error"])
	assert.Equal(t, false, body["details"].(map[string]any)["fileType"])
	assert.Empty(t, repo.created)
}

func TestUploadMalformedBody(t *testing.T) {
	engine, _ := setup()

	rec := post(engine, `{"filename":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
