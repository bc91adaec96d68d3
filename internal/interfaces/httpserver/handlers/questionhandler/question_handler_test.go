package questionhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aifirstlegal/masterclass-server/internal/domain/question"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

type fakeQuestionService struct {
	question.Service
	asked []string
}

func (f *fakeQuestionService) Increment(ctx context.Context, text string) error {
	if text == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Question is required", nil, "question-test-001")
	}
	f.asked = append(f.asked, text)
	return nil
}

func perform(body string) (*httptest.ResponseRecorder, *fakeQuestionService) {
	gin.SetMode(gin.TestMode)
	svc := &fakeQuestionService{}
	engine := gin.New()
	engine.POST("/v1/questions/increment", NewQuestionHandler(svc).Increment)

	req := httptest.NewRequest(http.MethodPost, "/v1/questions/increment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec, svc
}

func TestIncrementPassesExactText(t *testing.T) {
	rec, svc := perform(`{"question":"  What is covered?  "}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, []string{"  What is covered?  "}, svc.asked)
}

func TestIncrementMissingQuestion(t *testing.T) {
	rec, svc := perform(`{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Question is required")
	assert.Empty(t, svc.asked)
}
