package middlewares

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/admin"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

const principalKey = "admin_principal"

// AdminTokenVerifier validates admin bearer tokens.
type AdminTokenVerifier interface {
	Verify(ctx context.Context, raw string) (*admin.Principal, error)
}

// RequireAdmin rejects requests without a valid admin bearer token and stores the principal
// on the gin context.
func RequireAdmin(verifier AdminTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "Authentication required", "admin-auth-001")
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			responses.HandleError(c, err, "Invalid or expired token")
			return
		}
		if principal.Role != admin.Role {
			responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "Admin access required", "admin-auth-002")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the admin principal set by RequireAdmin.
func PrincipalFromContext(c *gin.Context) (*admin.Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := val.(*admin.Principal)
	return principal, ok && principal != nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}
