package http

import (
	"saarthi_backend/platform/config"
	"saarthi_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that owns a set of routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext hands modules the route groups and shared middleware built
// by the router.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is /api/v1 without authentication; public intake lives here.
	V1 *gin.RouterGroup
	// Protected requires a valid access token.
	Protected *gin.RouterGroup
	// Admin is /api/v1/admin and additionally requires the admin role.
	Admin          *gin.RouterGroup
	Config         config.JWTConfig
	AuthMiddleware gin.HandlerFunc
	// IntakeRateLimiter guards public submission endpoints.
	IntakeRateLimiter *httpkit.IntakeRateLimiter
}
