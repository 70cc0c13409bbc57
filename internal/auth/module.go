// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"leadconvert/internal/auth/handler"
	"leadconvert/internal/auth/repository"
	"leadconvert/internal/auth/service"
	"leadconvert/internal/events"
	apphttp "leadconvert/internal/http"
	"leadconvert/platform/config"
	"leadconvert/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
	cfg     config.SessionConfig
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.SessionConfig, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, eventBus, log)
	h := handler.New(svc, cfg)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
		cfg:     cfg,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for use by the composition root.
func (m *Module) Service() *service.Service {
	return m.service
}

// Middleware returns the session authentication middleware for the router.
func (m *Module) Middleware() gin.HandlerFunc {
	return Middleware(m.service, m.cfg)
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.API.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	// Session-scoped routes
	protectedAuth := ctx.Protected.Group("/auth")
	protectedAuth.GET("/me", m.handler.Me)
	protectedAuth.POST("/change-password", m.handler.ChangePassword)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
