package adminhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/admin"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/middlewares"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// AuthHandler issues and inspects admin tokens.
type AuthHandler struct {
	adminService admin.Service
	audit        AuditRecorder
}

func NewAuthHandler(adminService admin.Service, audit AuditRecorder) *AuthHandler {
	return &AuthHandler{adminService: adminService, audit: audit}
}

// Login godoc
// @Summary Admin login
// @Description Exchanges the operator credentials for a signed admin token.
// @Tags Admin API
// @Accept json
// @Produce json
// @Param request body admin.Credentials true "Credentials"
// @Success 200 {object} admin.Session
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse "Admin login not configured"
// @Router /v1/admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var creds admin.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Username and password are required", "admin-login-bind-001")
		return
	}

	session, err := h.adminService.Login(c.Request.Context(), creds)
	if err != nil {
		responses.HandleError(c, err, "Login failed")
		h.logLogin(c, creds.Username, statusOf(c), err)
		return
	}

	h.logLogin(c, session.Subject, http.StatusOK, nil)
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) logLogin(c *gin.Context, subject string, status int, err error) {
	logAudit(c, h.audit, "admin_login", "admin_session", subject, nil, status, err)
}

// GetSession godoc
// @Summary Admin session
// @Description Reports whether the caller's admin token is valid and when it expires.
// @Tags Admin API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.AdminSessionResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/admin/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "Authentication required", "admin-session-001")
		return
	}
	c.JSON(http.StatusOK, responses.AdminSessionResponse{
		Valid:     true,
		Subject:   principal.Subject,
		Role:      principal.Role,
		ExpiresAt: principal.ExpiresAt,
	})
}
