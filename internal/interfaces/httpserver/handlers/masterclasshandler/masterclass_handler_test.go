package masterclasshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/domain/masterclass"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/metrics"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

type fakeMasterclassService struct {
	register func(ctx context.Context, reg masterclass.Registration) (*masterclass.Grant, error)
	grant    func(ctx context.Context, params masterclass.Params) (*masterclass.Grant, error)
	verify   func(ctx context.Context, token string) (*masterclass.Grant, error)
}

func (f *fakeMasterclassService) Register(ctx context.Context, reg masterclass.Registration) (*masterclass.Grant, error) {
	return f.register(ctx, reg)
}

func (f *fakeMasterclassService) GrantFromParams(ctx context.Context, params masterclass.Params) (*masterclass.Grant, error) {
	return f.grant(ctx, params)
}

func (f *fakeMasterclassService) VerifyAccess(ctx context.Context, token string) (*masterclass.Grant, error) {
	return f.verify(ctx, token)
}

func (f *fakeMasterclassService) Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&masterclass.Registration{})
}

func newEngine(svc masterclass.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMasterclassHandler(svc)
	engine := gin.New()
	engine.POST("/registrations", h.Register)
	engine.POST("/access", h.GrantAccess)
	engine.GET("/access", h.VerifyAccess)
	engine.GET("/registration-schema", h.GetRegistrationSchema)
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRegisterCreatesGrant(t *testing.T) {
	expires := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	var got masterclass.Registration
	svc := &fakeMasterclassService{
		register: func(ctx context.Context, reg masterclass.Registration) (*masterclass.Grant, error) {
			got = reg
			return &masterclass.Grant{Email: reg.Email, FullName: reg.FullName, FirmName: reg.FirmName, Token: "tok", ExpiresAt: expires}, nil
		},
	}
	before := testutil.ToFloat64(metrics.RegistrationsTotal.WithLabelValues("granted"))

	body := `{"fullName":"Ada Lane","email":"ada@lanelaw.com","phone":"555-0100","firmName":"Lane Law","practiceArea":"family-law","source":"ads"}`
	req := httptest.NewRequest(http.MethodPost, "/registrations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newEngine(svc), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Lane Law", got.FirmName)
	assert.Equal(t, "ads", got.Source)
	var grant masterclass.Grant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grant))
	assert.Equal(t, "tok", grant.Token)
	assert.True(t, grant.ExpiresAt.Equal(expires))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RegistrationsTotal.WithLabelValues("granted")))
}

func TestRegisterValidationDetails(t *testing.T) {
	svc := &fakeMasterclassService{
		register: func(ctx context.Context, reg masterclass.Registration) (*masterclass.Grant, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"Please correct the highlighted fields", nil, "test-001").
				WithDetails(masterclass.FieldErrors{"email": "Please use your business email address"})
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/registrations", bytes.NewBufferString(`{"email":"ada@gmail.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newEngine(svc), req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body responses.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	details, ok := body.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Please use your business email address", details["email"])
}

func TestRegisterUpstreamFailureHidesCause(t *testing.T) {
	svc := &fakeMasterclassService{
		register: func(ctx context.Context, reg masterclass.Registration) (*masterclass.Grant, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
				"webhook returned 500 from hooks.internal", nil, "test-002")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/registrations", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newEngine(svc), req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hooks.internal")
}

func TestGrantAccessFromQuery(t *testing.T) {
	var got masterclass.Params
	svc := &fakeMasterclassService{
		grant: func(ctx context.Context, params masterclass.Params) (*masterclass.Grant, error) {
			got = params
			return &masterclass.Grant{Email: "social-user@temp.com", Token: "tok"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/access?access=TRUE&source=fb", nil)
	rec := serve(newEngine(svc), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.Access)
	assert.Equal(t, "fb", got.Source)
	assert.Empty(t, got.Email)
}

func TestGrantAccessDenied(t *testing.T) {
	svc := &fakeMasterclassService{
		grant: func(ctx context.Context, params masterclass.Params) (*masterclass.Grant, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
				"Access parameters not recognised", nil, "test-003")
		},
	}
	before := testutil.ToFloat64(metrics.RegistrationsTotal.WithLabelValues("denied"))

	req := httptest.NewRequest(http.MethodPost, "/access", bytes.NewBufferString(`{"access":"false","source":"google"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newEngine(svc), req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RegistrationsTotal.WithLabelValues("denied")))
}

func TestVerifyAccess(t *testing.T) {
	svc := &fakeMasterclassService{
		verify: func(ctx context.Context, token string) (*masterclass.Grant, error) {
			if token != "good" {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnauthorized,
					"Invalid or expired access token", nil, "test-004")
			}
			return &masterclass.Grant{Email: "ada@lanelaw.com"}, nil
		},
	}
	engine := newEngine(svc)

	req := httptest.NewRequest(http.MethodGet, "/access", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := serve(engine, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@lanelaw.com")

	req = httptest.NewRequest(http.MethodGet, "/access", nil)
	rec = serve(engine, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegistrationSchemaListsFields(t *testing.T) {
	rec := serve(newEngine(&fakeMasterclassService{}), httptest.NewRequest(http.MethodGet, "/registration-schema", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "practiceArea")
	assert.Contains(t, rec.Body.String(), "firmName")
}
