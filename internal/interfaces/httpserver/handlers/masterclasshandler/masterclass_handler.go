package masterclasshandler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/masterclass"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/metrics"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/middlewares"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/requests"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// MasterclassHandler serves replay registration and access checks.
type MasterclassHandler struct {
	masterclassService masterclass.Service
}

func NewMasterclassHandler(masterclassService masterclass.Service) *MasterclassHandler {
	return &MasterclassHandler{masterclassService: masterclassService}
}

// Register godoc
// @Summary Register for the masterclass replay
// @Description Validates the registration, forwards it to the registration webhook and grants 48 hour access.
// @Tags Masterclass API
// @Accept json
// @Produce json
// @Param request body masterclass.Registration true "Registration form"
// @Success 201 {object} masterclass.Grant
// @Failure 400 {object} responses.ErrorResponse "Per-field errors in details"
// @Failure 502 {object} responses.ErrorResponse "Registration webhook failure"
// @Router /v1/masterclass/registrations [post]
func (h *MasterclassHandler) Register(c *gin.Context) {
	var reg masterclass.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "masterclass-handler-bind-001")
		return
	}

	grant, err := h.masterclassService.Register(c.Request.Context(), reg)
	if err != nil {
		metrics.RecordRegistration(outcome(err))
		responses.HandleError(c, err, "Registration could not be submitted, please try again")
		return
	}
	metrics.RecordRegistration("granted")
	c.JSON(http.StatusCreated, grant)
}

// GrantAccess godoc
// @Summary Grant access from landing page parameters
// @Description Grants replay access when an email is present, access=true, or the source is a recognised campaign.
// @Tags Masterclass API
// @Accept json
// @Produce json
// @Param email query string false "Visitor email"
// @Param access query string false "Direct access flag"
// @Param source query string false "Traffic source"
// @Success 200 {object} masterclass.Grant
// @Failure 403 {object} responses.ErrorResponse
// @Router /v1/masterclass/access [post]
func (h *MasterclassHandler) GrantAccess(c *gin.Context) {
	var req requests.AccessGrantRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid query parameters", "masterclass-handler-bind-002")
		return
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "masterclass-handler-bind-003")
			return
		}
	}

	grant, err := h.masterclassService.GrantFromParams(c.Request.Context(), masterclass.Params{
		Email:  req.Email,
		Access: strings.EqualFold(strings.TrimSpace(req.Access), "true"),
		Source: req.Source,
	})
	if err != nil {
		metrics.RecordRegistration(outcome(err))
		responses.HandleError(c, err, "Failed to grant access")
		return
	}
	metrics.RecordRegistration("url_granted")
	c.JSON(http.StatusOK, grant)
}

// VerifyAccess godoc
// @Summary Verify replay access
// @Description Checks the Bearer access token issued at registration.
// @Tags Masterclass API
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {object} masterclass.Grant
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/masterclass/access [get]
func (h *MasterclassHandler) VerifyAccess(c *gin.Context) {
	token, _ := middlewares.BearerToken(c)

	grant, err := h.masterclassService.VerifyAccess(c.Request.Context(), token)
	if err != nil {
		responses.HandleError(c, err, "Access has expired, please register again")
		return
	}
	c.JSON(http.StatusOK, grant)
}

// GetRegistrationSchema godoc
// @Summary Registration form schema
// @Description JSON schema of the registration form, including the practice areas.
// @Tags Masterclass API
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/masterclass/registration-schema [get]
func (h *MasterclassHandler) GetRegistrationSchema(c *gin.Context) {
	c.JSON(http.StatusOK, h.masterclassService.Schema())
}

func outcome(err error) string {
	switch {
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation):
		return "invalid"
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden):
		return "denied"
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal):
		return "upstream_failed"
	default:
		return "failed"
	}
}
