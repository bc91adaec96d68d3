package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/middlewares"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers     *handlers.Provider
	requireAdmin gin.HandlerFunc
}

// NewRoutes builds the v1 route registrar. Admin routes are guarded by verifier.
func NewRoutes(handlerProvider *handlers.Provider, verifier middlewares.AdminTokenVerifier) *Routes {
	return &Routes{
		handlers:     handlerProvider,
		requireAdmin: middlewares.RequireAdmin(verifier),
	}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")
	registerChatRoutes(group.Group("/chat"), r.handlers)
	registerSiteRoutes(group, r.handlers)
	registerMasterclassRoutes(group.Group("/masterclass"), r.handlers)
	registerAdminRoutes(group.Group("/admin"), r.handlers, r.requireAdmin)
}
