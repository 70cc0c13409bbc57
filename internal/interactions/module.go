// Package interactions provides the interaction timeline bounded context module.
package interactions

import (
	"leadconvert/internal/events"
	apphttp "leadconvert/internal/http"
	"leadconvert/internal/interactions/handler"
	"leadconvert/internal/interactions/repository"
	"leadconvert/internal/interactions/service"
	"leadconvert/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the interactions bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the interactions module.
func NewModule(pool *pgxpool.Pool, leads service.LeadDirectory, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, eventBus, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "interactions"
}

// Service returns the interaction service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the interaction repository for adapter wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts interaction routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	interactions := ctx.Protected.Group("/interactions")
	interactions.POST("", m.handler.Create)
	interactions.GET("/conversations", m.handler.Conversations)
	interactions.GET("/lead/:leadId", m.handler.ListByLead)
	interactions.GET("/lead/:leadId/timeline", m.handler.Timeline)
	interactions.PATCH("/:id", m.handler.Update)
	interactions.DELETE("/:id", m.handler.Delete)

	// Tracking endpoints are hit by mail clients and email links; no session.
	tracking := ctx.API.Group("/interactions/track")
	tracking.POST("/email-open/:leadId", m.handler.TrackEmailOpen)
	tracking.POST("/link-click/:leadId", m.handler.TrackLinkClick)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
