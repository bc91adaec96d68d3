package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	v1 "github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/routes/v1"
)

// Provider registers every versioned route group.
type Provider struct {
	v1Routes *v1.Routes
}

// NewProvider builds the route provider.
func NewProvider(v1Routes *v1.Routes) *Provider {
	return &Provider{v1Routes: v1Routes}
}

// Register attaches all API routes to router.
func (p *Provider) Register(router gin.IRouter) {
	p.v1Routes.Register(router)
}

var RouteProvider = wire.NewSet(
	v1.NewRoutes,
	NewProvider,
)
