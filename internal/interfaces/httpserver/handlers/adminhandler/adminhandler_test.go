package adminhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/domain/admin"
	"github.com/aifirstlegal/masterclass-server/internal/domain/chatlog"
	"github.com/aifirstlegal/masterclass-server/internal/domain/instruction"
	"github.com/aifirstlegal/masterclass-server/internal/domain/knowledge"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/audit"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/middlewares"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

type recordedAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordedAudit) Record(_ context.Context, entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordedAudit) last(t *testing.T) audit.Entry {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.entries)
	return r.entries[len(r.entries)-1]
}

type staticVerifier struct{}

func (staticVerifier) Verify(context.Context, string) (*admin.Principal, error) {
	return &admin.Principal{Subject: "owner", Role: admin.Role, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// Unimplemented methods panic through the nil embedded interface.
type fakeInstructionService struct {
	instruction.Service
	create func(ctx context.Context, params instruction.CreateParams) (*instruction.Instruction, error)
	toggle func(ctx context.Context, id string) (*instruction.Instruction, error)
}

func (f *fakeInstructionService) Create(ctx context.Context, params instruction.CreateParams) (*instruction.Instruction, error) {
	return f.create(ctx, params)
}

func (f *fakeInstructionService) Toggle(ctx context.Context, id string) (*instruction.Instruction, error) {
	return f.toggle(ctx, id)
}

type fakeKnowledgeService struct {
	knowledge.Service
	uploadFile func(ctx context.Context, params knowledge.FileParams) (*knowledge.Document, error)
	setStatus  func(ctx context.Context, id string, status knowledge.Status) (*knowledge.Document, error)
}

func (f *fakeKnowledgeService) UploadFile(ctx context.Context, params knowledge.FileParams) (*knowledge.Document, error) {
	return f.uploadFile(ctx, params)
}

func (f *fakeKnowledgeService) SetStatus(ctx context.Context, id string, status knowledge.Status) (*knowledge.Document, error) {
	return f.setStatus(ctx, id, status)
}

type fakeChatLogService struct {
	chatlog.Service
	export func(ctx context.Context, query string, w io.Writer) error
}

func (f *fakeChatLogService) ExportCSV(ctx context.Context, query string, w io.Writer) error {
	return f.export(ctx, query, w)
}

func newAdminEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middlewares.RequireAdmin(staticVerifier{}))
	return engine
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer token")
	return req
}

func TestCreateInstructionAudited(t *testing.T) {
	var got instruction.CreateParams
	svc := &fakeInstructionService{
		create: func(ctx context.Context, params instruction.CreateParams) (*instruction.Instruction, error) {
			got = params
			return &instruction.Instruction{ID: "ins_1", Text: params.Text, Priority: params.Priority, IsActive: true}, nil
		},
	}
	recorder := &recordedAudit{}
	h := NewInstructionHandler(svc, recorder)
	engine := newAdminEngine()
	engine.POST("/instructions", h.Create)

	body := `{"instruction_text":"Always mention the replay","priority":3}`
	req := authed(httptest.NewRequest(http.MethodPost, "/instructions", bytes.NewBufferString(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Always mention the replay", got.Text)
	assert.Equal(t, 3, got.Priority)
	assert.Nil(t, got.IsActive)

	entry := recorder.last(t)
	assert.Equal(t, "owner", entry.AdminSubject)
	assert.Equal(t, "create_instruction", entry.Action)
	assert.Equal(t, "ins_1", entry.ResourceID)
	assert.Equal(t, http.StatusCreated, entry.StatusCode)
	assert.Empty(t, entry.ErrorMessage)
}

func TestToggleInstructionNotFoundAudited(t *testing.T) {
	svc := &fakeInstructionService{
		toggle: func(ctx context.Context, id string) (*instruction.Instruction, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"Instruction not found", nil, "test-001")
		},
	}
	recorder := &recordedAudit{}
	h := NewInstructionHandler(svc, recorder)
	engine := newAdminEngine()
	engine.POST("/instructions/:id/toggle", h.Toggle)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/instructions/missing/toggle", nil)))

	require.Equal(t, http.StatusNotFound, rec.Code)
	entry := recorder.last(t)
	assert.Equal(t, "toggle_instruction", entry.Action)
	assert.Equal(t, "missing", entry.ResourceID)
	assert.Equal(t, http.StatusNotFound, entry.StatusCode)
	assert.NotEmpty(t, entry.ErrorMessage)
}

func TestUploadKnowledgeFile(t *testing.T) {
	var got knowledge.FileParams
	svc := &fakeKnowledgeService{
		uploadFile: func(ctx context.Context, params knowledge.FileParams) (*knowledge.Document, error) {
			got = params
			return &knowledge.Document{ID: "doc_1", Filename: params.Filename, Status: knowledge.StatusActive}, nil
		},
	}
	recorder := &recordedAudit{}
	h := NewKnowledgeHandler(svc, recorder, 1024)
	engine := newAdminEngine()
	engine.POST("/knowledge/files", h.UploadFile)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "faq.md")
	require.NoError(t, err)
	_, err = part.Write([]byte("# FAQ\nThe replay is available for 48 hours."))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := authed(httptest.NewRequest(http.MethodPost, "/knowledge/files", &body))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "faq.md", got.Filename)
	assert.Contains(t, string(got.Data), "48 hours")
	assert.Equal(t, "upload_knowledge_file", recorder.last(t).Action)

	var resp struct {
		Success  bool               `json:"success"`
		Document knowledge.Document `json:"document"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "doc_1", resp.Document.ID)
}

func TestUploadKnowledgeFileRequiresFile(t *testing.T) {
	h := NewKnowledgeHandler(&fakeKnowledgeService{}, nil, 1024)
	engine := newAdminEngine()
	engine.POST("/knowledge/files", h.UploadFile)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/knowledge/files", nil)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetKnowledgeStatusRejectsUnknownStatus(t *testing.T) {
	called := false
	svc := &fakeKnowledgeService{
		setStatus: func(ctx context.Context, id string, status knowledge.Status) (*knowledge.Document, error) {
			called = true
			return &knowledge.Document{ID: id, Status: status}, nil
		},
	}
	h := NewKnowledgeHandler(svc, nil, 1024)
	engine := newAdminEngine()
	engine.PATCH("/knowledge/:id", h.SetStatus)

	req := authed(httptest.NewRequest(http.MethodPatch, "/knowledge/doc_1", bytes.NewBufferString(`{"status":"archived"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)

	req = authed(httptest.NewRequest(http.MethodPatch, "/knowledge/doc_1", bytes.NewBufferString(`{"status":"inactive"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestExportChatLogsCSV(t *testing.T) {
	var gotQuery string
	svc := &fakeChatLogService{
		export: func(ctx context.Context, query string, w io.Writer) error {
			gotQuery = query
			_, err := io.WriteString(w, "timestamp,session_id\n")
			return err
		},
	}
	h := NewChatLogHandler(svc)
	h.now = func() time.Time { return time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC) }
	engine := newAdminEngine()
	engine.GET("/chat-logs/export", h.Export)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/chat-logs/export?q=replay", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "replay", gotQuery)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="chat-logs-2026-03-09.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "timestamp,session_id\n", rec.Body.String())
}

func TestExportChatLogsFailureReturnsJSON(t *testing.T) {
	svc := &fakeChatLogService{
		export: func(ctx context.Context, query string, w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"select failed", nil, "test-002")
		},
	}
	engine := newAdminEngine()
	engine.GET("/chat-logs/export", NewChatLogHandler(svc).Export)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/chat-logs/export", nil)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "partial")
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
